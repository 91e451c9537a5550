package wavelet

import "math"

// SoftThreshold shrinks every value toward zero by t, zeroing those whose
// magnitude does not exceed t. The input is not modified.
func SoftThreshold(x []float64, t float64) []float64 {
	out := make([]float64, len(x))
	for i, c := range x {
		mag := math.Abs(c) - t
		if mag <= 0 {
			continue
		}
		out[i] = math.Copysign(mag, c)
	}
	return out
}
