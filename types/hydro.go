package types

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Tracers maps a tracer name to a mass fraction (cells) or a tracer mass (fluxes)
type Tracers map[string]float64

// Stickers maps a tag name to its boolean marker on a cell
type Stickers map[string]bool

/*
ComputationalCell is the intensive state of one cell as handed to us by the integrator.
It is read only within the flux engine.
*/
type ComputationalCell struct {
	Density  float64
	Pressure float64
	Velocity r2.Vec
	Tracers  Tracers
	Stickers Stickers
}

// HasSticker reports the cell's marker for name, a missing key reads as false
func (cc ComputationalCell) HasSticker(name string) bool {
	return cc.Stickers[name]
}

/*
Primitive is the point state used by the Riemann solvers. Energy is the specific internal
energy. When handed to a solver, Velocity is expressed in the (normal, tangent) frame of
the face.
*/
type Primitive struct {
	Density    float64
	Pressure   float64
	Energy     float64
	SoundSpeed float64
	Velocity   r2.Vec
}

// Conserved is a flux of the conserved variables per unit edge length
type Conserved struct {
	Mass     float64
	Momentum r2.Vec
	Energy   float64
}

// Extensive is the transported amount of each conserved quantity through an edge
type Extensive struct {
	Mass     float64
	Momentum r2.Vec
	Energy   float64
	Tracers  Tracers
}

// Negate returns the flux seen from the other side of the edge
func (ex Extensive) Negate() (res Extensive) {
	res = Extensive{
		Mass:     -ex.Mass,
		Momentum: r2.Scale(-1, ex.Momentum),
		Energy:   -ex.Energy,
		Tracers:  make(Tracers, len(ex.Tracers)),
	}
	for name, val := range ex.Tracers {
		res.Tracers[name] = -val
	}
	return
}

// Scale multiplies every component by f, used to turn a flux rate into an amount
func (ex Extensive) Scale(f float64) (res Extensive) {
	res = Extensive{
		Mass:     f * ex.Mass,
		Momentum: r2.Scale(f, ex.Momentum),
		Energy:   f * ex.Energy,
		Tracers:  make(Tracers, len(ex.Tracers)),
	}
	for name, val := range ex.Tracers {
		res.Tracers[name] = f * val
	}
	return
}
