/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/EOS"
	"github.com/notargets/gohydro/InputParameters"
	"github.com/notargets/gohydro/Riemann"
	"github.com/notargets/gohydro/geometry2D"
	"github.com/notargets/gohydro/model_problems/Hydro2D"
	"github.com/notargets/gohydro/types"
)

type FluxModel struct {
	ICFile         string
	ParallelDegree int // overrides the input file when positive
}

// FluxCmd represents the flux command
var FluxCmd = &cobra.Command{
	Use:   "flux",
	Short: "Evaluate the edge fluxes of an initial condition once",
	Long: `Builds a Cartesian test tessellation and the initial cells described by an input
file, runs the edge classification and Riemann solvers over every edge and prints what
moved through the faces in one time step.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			fm = &FluxModel{}
			ip *InputParameters.InputParametersHydro
			fs *FluxSummary
		)
		if fm.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if fm.ParallelDegree, err = cmd.Flags().GetInt("parallel"); err != nil {
			return
		}
		if ip, err = readInput(fm.ICFile, exampleFluxFile); err != nil {
			return
		}
		if fm.ParallelDegree > 0 {
			ip.ParallelDegree = fm.ParallelDegree
		}
		ip.Print()
		if fs, err = RunFlux(ip, logger); err != nil {
			return
		}
		fs.Print()
		return
	},
}

const exampleFluxFile = `
########################################
Title: "Tillotson shock tube"
EOS:
  Type: tillotson # or ideal, with Params: {gamma: 1.4}
  Params: {a: 0.5, b: 1.5, A: 2.67e11, B: 2.67e11, rho0: 2.7, E0: 4.87e12, EIV: 4.72e10, ECV: 1.82e11, alpha: 5, beta: 5}
RiemannSolver: hll # or lax
Mesh: {Nx: 40, Ny: 4, XMin: 0, XMax: 1, YMin: 0, YMax: 0.1}
Split: 0.5
Left: {Density: 2.7, Pressure: 5.4e10, Velocity: [0, 0], Tracers: {aluminum: 1}}
Right: {Density: 1.35, Pressure: 1.e9, Velocity: [0, 0]}
Rules:
  - {Condition: boundary, Action: wall}
  - {Condition: bulk, Action: regular}
DT: 1.e-7
########################################
`

func init() {
	rootCmd.AddCommand(FluxCmd)
	FluxCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- EOS\n\t- Mesh\n\t- Rules")
	FluxCmd.Flags().IntP("parallel", "p", 0, "number of concurrent edge buckets, overrides ParallelDegree in the input")
}

func readInput(fileName, example string) (ip *InputParameters.InputParametersHydro, err error) {
	var (
		data []byte
	)
	if len(fileName) == 0 {
		fmt.Printf("Example File:%s\n", example)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		return
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters.InputParametersHydro{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("unable to parse %s: %w", fileName, err)
	}
	return
}

// InitialCells places the Left state on cells centered left of Split and the Right state elsewhere
func InitialCells(ip *InputParameters.InputParametersHydro, tess geometry2D.Tessellation) (cells []types.ComputationalCell) {
	cells = make([]types.ComputationalCell, tess.GetPointNo())
	for k := range cells {
		var (
			x  = tess.GetMeshPoint(k)
			st = ip.Right
		)
		if x.X < ip.Split {
			st = ip.Left
		}
		cells[k] = types.ComputationalCell{
			Density:  st.Density,
			Pressure: st.Pressure,
			Velocity: r2.Vec{X: st.Velocity[0], Y: st.Velocity[1]},
			Tracers:  make(types.Tracers, len(st.Tracers)),
			Stickers: make(types.Stickers, len(ip.Stickers)),
		}
		for name, val := range st.Tracers {
			cells[k].Tracers[name] = val
		}
		for name, box := range ip.Stickers {
			cells[k].Stickers[name] = box.Contains(x.X, x.Y)
		}
	}
	return
}

type FluxSummary struct {
	Title        string
	Edges        int
	RuleCounts   map[string]float64
	Fluxes       []types.Extensive
	Delta        []types.Extensive // change of each cell over DT
	TotalMass    float64           // net mass change over all cells
	TotalEnergy  float64
	BoundaryMass float64 // mass leaving through boundary edges
}

/*
RunFlux evaluates the fluxes of the initial condition once and accumulates the amounts
moved over DT into each cell.
*/
func RunFlux(ip *InputParameters.InputParametersHydro, logger *zap.Logger) (fs *FluxSummary, err error) {
	var (
		eos   EOS.EquationOfState
		st    Riemann.SolverType
		mesh  *geometry2D.CartesianMesh
		rules = make([]Hydro2D.Rule, len(ip.Rules))
		reg   = prometheus.NewRegistry()
		fm    *Hydro2D.FluxMetrics
		cas   *Hydro2D.ConditionActionSequence
	)
	if eos, err = EOS.NewFromParams(ip.EOS.Type, ip.EOS.Params, logger); err != nil {
		return
	}
	if ip.RiemannSolver == "" {
		ip.RiemannSolver = "hll"
	}
	if st, err = Riemann.NewSolverType(ip.RiemannSolver); err != nil {
		return
	}
	rs := Riemann.NewSolver(st)
	for i, rp := range ip.Rules {
		if rules[i], err = Hydro2D.NewRule(rp.Condition, rp.Sticker, rp.Action, rs); err != nil {
			return
		}
	}
	if mesh, err = geometry2D.NewCartesianMesh(ip.Mesh.Nx, ip.Mesh.Ny,
		ip.Mesh.XMin, ip.Mesh.XMax, ip.Mesh.YMin, ip.Mesh.YMax); err != nil {
		return
	}
	if fm, err = Hydro2D.NewFluxMetrics(reg); err != nil {
		return
	}
	if cas, err = Hydro2D.NewConditionActionSequence(rules, fluxOptions(ip, logger, fm)...); err != nil {
		return
	}
	var (
		cells = InitialCells(ip, mesh)
		pv    = make([]r2.Vec, mesh.GetPointNo())
		cd    = geometry2D.NewCacheData(mesh)
	)
	for k := range pv {
		pv[k] = r2.Vec{X: ip.MeshVelocity[0], Y: ip.MeshVelocity[1]}
	}
	fs = &FluxSummary{
		Title:      ip.Title,
		RuleCounts: make(map[string]float64),
		Delta:      make([]types.Extensive, mesh.GetPointNo()),
	}
	if fs.Fluxes, err = cas.Calculate(mesh, pv, cells, nil, cd, eos, ip.Time, ip.DT); err != nil {
		fs = nil
		return
	}
	fs.Edges = len(fs.Fluxes)
	for i, edge := range mesh.GetAllEdges() {
		amount := fs.Fluxes[i].Scale(cd.EdgeLengths[i] * ip.DT)
		first, second := edge.Neighbors[0], edge.Neighbors[1]
		if geometry2D.IsValidNeighbor(mesh, first) {
			fs.Delta[first] = addExtensive(fs.Delta[first], amount.Negate())
		} else {
			fs.BoundaryMass -= amount.Mass
		}
		if geometry2D.IsValidNeighbor(mesh, second) {
			fs.Delta[second] = addExtensive(fs.Delta[second], amount)
		} else {
			fs.BoundaryMass += amount.Mass
		}
	}
	for _, d := range fs.Delta {
		fs.TotalMass += d.Mass
		fs.TotalEnergy += d.Energy
	}
	if err = fs.gatherRuleCounts(reg); err != nil {
		fs = nil
	}
	return
}

// fluxOptions leaves evaluation serial unless the input asks for more than one bucket
func fluxOptions(ip *InputParameters.InputParametersHydro, logger *zap.Logger,
	fm *Hydro2D.FluxMetrics) (opts []Hydro2D.Option) {
	opts = []Hydro2D.Option{Hydro2D.WithLogger(logger), Hydro2D.WithMetrics(fm)}
	if ip.ParallelDegree > 1 {
		opts = append(opts, Hydro2D.WithParallelDegree(ip.ParallelDegree))
	}
	return
}

func addExtensive(a, b types.Extensive) (res types.Extensive) {
	res = types.Extensive{
		Mass:     a.Mass + b.Mass,
		Momentum: r2.Add(a.Momentum, b.Momentum),
		Energy:   a.Energy + b.Energy,
		Tracers:  make(types.Tracers, len(a.Tracers)),
	}
	for name, val := range a.Tracers {
		res.Tracers[name] = val
	}
	for name, val := range b.Tracers {
		res.Tracers[name] += val
	}
	return
}

func (fs *FluxSummary) gatherRuleCounts(reg *prometheus.Registry) (err error) {
	mfs, err := reg.Gather()
	if err != nil {
		return
	}
	for _, mf := range mfs {
		if mf.GetName() != "gohydro_flux_edges_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "rule" {
					fs.RuleCounts[lp.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	return
}

func (fs *FluxSummary) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fs.Title)
	fmt.Printf("[%d]\t\t\t= Edges\n", fs.Edges)
	names := make([]string, 0, len(fs.RuleCounts))
	for name := range fs.RuleCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("[%6.0f]\t\t= Edges matched by %s\n", fs.RuleCounts[name], name)
	}
	fmt.Printf("%14.6e\t= Net mass change\n", fs.TotalMass)
	fmt.Printf("%14.6e\t= Net energy change\n", fs.TotalEnergy)
	fmt.Printf("%14.6e\t= Mass out through boundaries\n", fs.BoundaryMass)
}
