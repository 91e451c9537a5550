package wavelet

import (
	"errors"
	"math"
)

// Wavefun approximates the scaling function phi and wavelet function psi with
// the cascade algorithm after `level` iterations. The result has
// (filterLen-1)*2^level+1 samples on [0, filterLen-1]: one leading zero, the
// cascade output, then filterLen-2 trailing zeros.
func Wavefun(w *Wavelet, level int) (phi, psi, x []float64, err error) {
	if level < 1 {
		return nil, nil, nil, errors.New("wavefun: level must be positive")
	}
	p := 1 << level
	norm := math.Pow(math.Sqrt2, float64(level))
	phiCore := cascade(w.RecLo, w.RecLo, level)
	psiCore := cascade(w.RecHi, w.RecLo, level)

	n := (w.Len()-1)*p + 1
	phi = make([]float64, n)
	psi = make([]float64, n)
	for i := range psiCore {
		phi[i+1] = phiCore[i] * norm
		psi[i+1] = psiCore[i] * norm
	}

	x = make([]float64, n)
	for i := range x {
		x[i] = float64(i) / float64(p)
	}
	return phi, psi, x, nil
}

func cascade(first, lo []float64, level int) []float64 {
	out := append([]float64(nil), first...)
	for l := 1; l < level; l++ {
		out = convolve(upsample(out), lo)
	}
	return out
}

func upsample(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	out := make([]float64, 2*len(x)-1)
	for i, v := range x {
		out[2*i] = v
	}
	return out
}

func convolve(x, h []float64) []float64 {
	out := make([]float64, len(x)+len(h)-1)
	for i, xv := range x {
		if xv == 0 {
			continue
		}
		for j, hv := range h {
			out[i+j] += xv * hv
		}
	}
	return out
}
