package scoring

import "math"

// Gaussian converts the distance between two optional scalars into a
// similarity in [0,1]: exp(-0.5*((a-b)/sigma)^2). It returns 0 when either
// value is absent or sigma is not positive. The same kernel serves the
// retention-time and absorption-maximum channels with their own sigma.
func Gaussian(a, b *float64, sigma float64) float64 {
	if a == nil || b == nil || sigma <= 0 {
		return 0.0
	}
	delta := (*a - *b) / sigma
	return math.Exp(-0.5 * delta * delta)
}
