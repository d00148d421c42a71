package Riemann

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gohydro/types"
)

var ErrInvalidState = errors.New("invalid primitive state for riemann solver")

/*
Solver computes the flux of the conserved variables through a face. The states are given
in the face frame: Velocity.X is the component along the face normal pointing from left
to right and Velocity.Y is tangential. velocity is the normal speed of the face itself.
The returned flux is per unit face length, Momentum.X normal and Momentum.Y tangential.
*/
type Solver interface {
	Solve(left, right types.Primitive, velocity float64) (types.Conserved, error)
}

type SolverType uint8

const (
	SOLVER_HLL SolverType = iota
	SOLVER_LaxFriedrichs
)

var (
	SolverNames = map[string]SolverType{
		"hll": SOLVER_HLL,
		"lax": SOLVER_LaxFriedrichs,
	}
	SolverPrintNames = []string{"HLL", "Lax Friedrichs"}
)

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

func NewSolverType(label string) (st SolverType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if st, ok = SolverNames[label]; !ok {
		err = fmt.Errorf("unable to use riemann solver named %s", label)
	}
	return
}

func NewSolver(st SolverType) (rs Solver) {
	switch st {
	case SOLVER_HLL:
		rs = HLL{}
	case SOLVER_LaxFriedrichs:
		rs = LaxFriedrichs{}
	default:
		panic(fmt.Errorf("unknown riemann solver type %d", st))
	}
	return
}

/*
RotateSolveRotateBack expresses both states in the (n, p) frame of a face, solves, and
returns the flux with the momentum rotated back to the lab frame.
*/
func RotateSolveRotateBack(rs Solver, left, right types.Primitive, velocity float64,
	n, p r2.Vec) (res types.Conserved, err error) {
	rotate := func(prim types.Primitive) types.Primitive {
		prim.Velocity = r2.Vec{X: r2.Dot(prim.Velocity, n), Y: r2.Dot(prim.Velocity, p)}
		return prim
	}
	if res, err = rs.Solve(rotate(left), rotate(right), velocity); err != nil {
		return
	}
	res.Momentum = r2.Add(r2.Scale(res.Momentum.X, n), r2.Scale(res.Momentum.Y, p))
	return
}

// Reflect mirrors the state's velocity about axis: the component along axis is kept and the rest flips
func Reflect(prim types.Primitive, axis r2.Vec) types.Primitive {
	var (
		u = r2.Scale(1/r2.Norm(axis), axis)
	)
	prim.Velocity = r2.Sub(r2.Scale(2*r2.Dot(prim.Velocity, u), u), prim.Velocity)
	return prim
}

func checkState(prim types.Primitive, side string) (err error) {
	switch {
	case !(prim.Density > 0):
		err = fmt.Errorf("%w: %s density = %g", ErrInvalidState, side, prim.Density)
	case !(prim.SoundSpeed >= 0) || math.IsInf(prim.SoundSpeed, 0):
		err = fmt.Errorf("%w: %s sound speed = %g", ErrInvalidState, side, prim.SoundSpeed)
	case math.IsNaN(prim.Pressure) || math.IsNaN(prim.Energy) ||
		math.IsNaN(prim.Velocity.X) || math.IsNaN(prim.Velocity.Y):
		err = fmt.Errorf("%w: %s state has NaN components: %+v", ErrInvalidState, side, prim)
	}
	return
}

/*
faceFrame validates the states and removes the face speed from the normal velocities.
Solvers compute the flux on the shifted states then call labFrame.
*/
func faceFrame(left, right types.Primitive, velocity float64) (l, r types.Primitive, err error) {
	if err = checkState(left, "left"); err != nil {
		return
	}
	if err = checkState(right, "right"); err != nil {
		return
	}
	l, r = left, right
	l.Velocity.X -= velocity
	r.Velocity.X -= velocity
	return
}

// labFrame converts a flux through a face moving at velocity along its normal back to the lab frame
func labFrame(f types.Conserved, velocity float64) types.Conserved {
	f.Energy += velocity*f.Momentum.X + 0.5*velocity*velocity*f.Mass
	f.Momentum.X += velocity * f.Mass
	return f
}

// Conserved densities of a state, energy is total energy per volume
func conservedState(prim types.Primitive) (q types.Conserved) {
	q = types.Conserved{
		Mass:     prim.Density,
		Momentum: r2.Scale(prim.Density, prim.Velocity),
		Energy:   prim.Density * (prim.Energy + 0.5*r2.Norm2(prim.Velocity)),
	}
	return
}

// Physical flux along the X direction of the face frame
func physicalFlux(prim types.Primitive) (f types.Conserved) {
	var (
		q = conservedState(prim)
		u = prim.Velocity.X
	)
	f = types.Conserved{
		Mass:     q.Momentum.X,
		Momentum: r2.Vec{X: q.Momentum.X*u + prim.Pressure, Y: q.Momentum.Y * u},
		Energy:   u * (q.Energy + prim.Pressure),
	}
	return
}

// axpy returns a*x + y componentwise
func axpy(a float64, x, y types.Conserved) types.Conserved {
	return types.Conserved{
		Mass:     a*x.Mass + y.Mass,
		Momentum: r2.Add(r2.Scale(a, x.Momentum), y.Momentum),
		Energy:   a*x.Energy + y.Energy,
	}
}
