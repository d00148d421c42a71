package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

type EOSParameters struct {
	Type   string             `json:"Type"`
	Params map[string]float64 `json:"Params"`
}

type MeshParameters struct {
	Nx   int     `json:"Nx"`
	Ny   int     `json:"Ny"`
	XMin float64 `json:"XMin"`
	XMax float64 `json:"XMax"`
	YMin float64 `json:"YMin"`
	YMax float64 `json:"YMax"`
}

type StateParameters struct {
	Density  float64            `json:"Density"`
	Pressure float64            `json:"Pressure"`
	Velocity [2]float64         `json:"Velocity"`
	Tracers  map[string]float64 `json:"Tracers"`
}

// Box tags every cell whose center lies inside it
type Box struct {
	XMin float64 `json:"XMin"`
	XMax float64 `json:"XMax"`
	YMin float64 `json:"YMin"`
	YMax float64 `json:"YMax"`
}

func (b Box) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

type RuleParameters struct {
	Condition string `json:"Condition"`
	Sticker   string `json:"Sticker"`
	Action    string `json:"Action"`
}

// Parameters obtained from the YAML input file
type InputParametersHydro struct {
	Title          string           `json:"Title"`
	EOS            EOSParameters    `json:"EOS"`
	RiemannSolver  string           `json:"RiemannSolver"`
	Mesh           MeshParameters   `json:"Mesh"`
	Split          float64          `json:"Split"` // cells with center x < Split get the Left state
	Left           StateParameters  `json:"Left"`
	Right          StateParameters  `json:"Right"`
	Stickers       map[string]Box   `json:"Stickers"`
	Rules          []RuleParameters `json:"Rules"`
	MeshVelocity   [2]float64       `json:"MeshVelocity"`
	ParallelDegree int              `json:"ParallelDegree"` // 0 or 1 is serial
	Time           float64          `json:"Time"`
	DT             float64          `json:"DT"`
}

func (ip *InputParametersHydro) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InputParametersHydro) Validate() (err error) {
	switch {
	case ip.Mesh.Nx < 1 || ip.Mesh.Ny < 1:
		err = fmt.Errorf("mesh needs at least one cell in each direction, have %d x %d",
			ip.Mesh.Nx, ip.Mesh.Ny)
	case len(ip.Rules) == 0:
		err = fmt.Errorf("no flux rules in input")
	case ip.EOS.Type == "":
		err = fmt.Errorf("no equation of state type in input")
	case ip.ParallelDegree < 0:
		err = fmt.Errorf("parallel degree must not be negative, have %d", ip.ParallelDegree)
	}
	return
}

func sortedKeys[V any](m map[string]V) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func (ip *InputParametersHydro) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Equation of State\n", ip.EOS.Type)
	for _, key := range sortedKeys(ip.EOS.Params) {
		fmt.Printf("%14.6g\t\t= EOS[%s]\n", ip.EOS.Params[key], key)
	}
	fmt.Printf("[%s]\t\t\t= Riemann Solver\n", ip.RiemannSolver)
	fmt.Printf("[%d x %d]\t\t= Mesh on [%g,%g] x [%g,%g]\n", ip.Mesh.Nx, ip.Mesh.Ny,
		ip.Mesh.XMin, ip.Mesh.XMax, ip.Mesh.YMin, ip.Mesh.YMax)
	fmt.Printf("%8.5f\t\t= Split\n", ip.Split)
	fmt.Printf("Left  = %+v\n", ip.Left)
	fmt.Printf("Right = %+v\n", ip.Right)
	for _, key := range sortedKeys(ip.Stickers) {
		fmt.Printf("Stickers[%s] = %+v\n", key, ip.Stickers[key])
	}
	for i, rule := range ip.Rules {
		fmt.Printf("Rules[%d] = %s/%s", i, rule.Condition, rule.Action)
		if rule.Sticker != "" {
			fmt.Printf(":%s", rule.Sticker)
		}
		fmt.Printf("\n")
	}
	fmt.Printf("%v\t\t= Mesh Velocity\n", ip.MeshVelocity)
	fmt.Printf("[%d]\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Printf("%8.5f, %8.5f\t= Time, DT\n", ip.Time, ip.DT)
}
