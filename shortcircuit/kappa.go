package shortcircuit

import "math"

// kappa computes the IEC 60909-0 clause 4.3.1.2 peak factor from the
// fault-point R/X ratio, clamped to [1.0, 2.0].
func kappa(rOverX float64) float64 {
	k := 1.02 + 0.98*math.Exp(-3*rOverX)
	if k < 1.0 {
		return 1.0
	}
	if k > 2.0 {
		return 2.0
	}

	return k
}
