package matcher

import "math"

// DefaultEpsilon is the fallback proximity tolerance when the host config
// supplies none. It absorbs ordinary float64 rounding noise.
const DefaultEpsilon = 1e-9

// Near reports whether |a-b| <= tol. The bound is inclusive, so a distance
// of exactly tol matches. A non-positive tol falls back to DefaultEpsilon.
// Near is symmetric in a and b.
func Near(a, b any, tol float64) Result {
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if !aok {
		return failf("not a number: %s", format(a))
	}
	if !bok {
		return failf("not a number: %s", format(b))
	}
	if tol <= 0 {
		tol = DefaultEpsilon
	}
	if math.Abs(af-bf) <= tol {
		return ok()
	}
	return failf("|%v - %v| = %v exceeds tolerance %v", af, bf, math.Abs(af-bf), tol)
}

// Between reports whether lo <= v <= hi. Both bounds are inclusive.
func Between(v, lo, hi any) Result {
	vf, vok := numeric(v)
	lof, look := numeric(lo)
	hif, hiok := numeric(hi)
	if !vok {
		return failf("not a number: %s", format(v))
	}
	if !look || !hiok {
		return failf("bounds must be numeric, got %s and %s", format(lo), format(hi))
	}
	if lof > hif {
		return failf("lower bound %v exceeds upper bound %v", lof, hif)
	}
	if vf >= lof && vf <= hif {
		return ok()
	}
	return failf("%v is outside [%v, %v]", vf, lof, hif)
}
