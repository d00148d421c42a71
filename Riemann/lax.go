package Riemann

import (
	"math"

	"github.com/notargets/gohydro/types"
)

/*
LaxFriedrichs is the local Lax Friedrichs (Rusanov) flux, the average of the two physical
fluxes plus a jump penalty scaled by the fastest signal speed of either state.
*/
type LaxFriedrichs struct{}

func (LaxFriedrichs) Solve(left, right types.Primitive, velocity float64) (res types.Conserved, err error) {
	var (
		l, r types.Primitive
	)
	if l, r, err = faceFrame(left, right, velocity); err != nil {
		return
	}
	maxVF := func(prim types.Primitive) float64 {
		return math.Abs(prim.Velocity.X) + prim.SoundSpeed
	}
	var (
		maxV   = math.Max(maxVF(l), maxVF(r))
		fL, fR = physicalFlux(l), physicalFlux(r)
		qL, qR = conservedState(l), conservedState(r)
	)
	res = axpy(0.5, fL, axpy(0.5, fR, types.Conserved{}))
	res = axpy(-0.5*maxV, axpy(-1, qL, qR), res)
	res = labFrame(res, velocity)
	return
}
