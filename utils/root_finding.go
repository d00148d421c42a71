package utils

import (
	"errors"
	"fmt"
	"math"
)

var ErrRootNotBracketed = errors.New("root is not bracketed by the interval")

// RelativeTolerance returns the bracket width test for a root accurate to the given number of bits
func RelativeTolerance(bits int) (tol func(a, b float64) bool) {
	var (
		eps = math.Max(math.Ldexp(1, 1-bits), 4*machineEpsilon)
	)
	tol = func(a, b float64) bool {
		return math.Abs(a-b) <= eps*math.Min(math.Abs(a), math.Abs(b))
	}
	return
}

const machineEpsilon = 2.220446049250313e-16

// Bracket is the outcome of a bisection, the root lies in [Low, High]
type Bracket struct {
	Low, High  float64
	Iterations int
	Converged  bool
}

func (b Bracket) Midpoint() float64 {
	return 0.5 * (b.Low + b.High)
}

/*
Bisect halves [min, max] until tol accepts the bracket or maxIter halvings were done. The
function values at the ends must differ in sign. Running out of iterations is not an error,
the caller decides what to do with an unconverged bracket.
*/
func Bisect(f func(x float64) float64, min, max float64, tol func(a, b float64) bool,
	maxIter int) (br Bracket, err error) {
	if min > max {
		err = fmt.Errorf("bisection interval is reversed: [%g,%g]", min, max)
		return
	}
	var (
		fmin, fmax = f(min), f(max)
	)
	switch {
	case fmin == 0:
		br = Bracket{Low: min, High: min, Converged: true}
		return
	case fmax == 0:
		br = Bracket{Low: max, High: max, Converged: true}
		return
	case math.IsNaN(fmin) || math.IsNaN(fmax):
		err = fmt.Errorf("%w: f(%g) = %g, f(%g) = %g", ErrRootNotBracketed, min, fmin, max, fmax)
		return
	case math.Signbit(fmin) == math.Signbit(fmax):
		err = fmt.Errorf("%w: f(%g) = %g, f(%g) = %g", ErrRootNotBracketed, min, fmin, max, fmax)
		return
	}
	for br.Iterations < maxIter && !tol(min, max) {
		mid := 0.5 * (min + max)
		if mid == min || mid == max {
			break
		}
		fmid := f(mid)
		br.Iterations++
		if fmid == 0 {
			min, max = mid, mid
			break
		}
		if math.Signbit(fmid) != math.Signbit(fmin) {
			max = mid
		} else {
			min, fmin = mid, fmid
		}
	}
	br.Low, br.High = min, max
	br.Converged = min == max || tol(min, max)
	return
}
