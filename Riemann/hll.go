package Riemann

import (
	"math"

	"github.com/notargets/gohydro/types"
)

// HLL is the two wave Harten, Lax, van Leer solver with Davis wave speed estimates
type HLL struct{}

func (HLL) Solve(left, right types.Primitive, velocity float64) (res types.Conserved, err error) {
	var (
		l, r types.Primitive
	)
	if l, r, err = faceFrame(left, right, velocity); err != nil {
		return
	}
	var (
		uL, uR = l.Velocity.X, r.Velocity.X
		sL     = math.Min(uL-l.SoundSpeed, uR-r.SoundSpeed)
		sR     = math.Max(uL+l.SoundSpeed, uR+r.SoundSpeed)
		fL, fR = physicalFlux(l), physicalFlux(r)
	)
	switch {
	case sL >= 0:
		res = fL
	case sR <= 0:
		res = fR
	default:
		// (sR FL - sL FR + sL sR (UR - UL)) / (sR - sL)
		var (
			qL, qR = conservedState(l), conservedState(r)
			dq     = axpy(-1, qL, qR)
			oosd   = 1. / (sR - sL)
		)
		res = axpy(sR*oosd, fL, axpy(-sL*oosd, fR, types.Conserved{}))
		res = axpy(sL*sR*oosd, dq, res)
	}
	res = labFrame(res, velocity)
	return
}
