package wavelet

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxLevel returns the deepest useful decomposition level for a signal of
// length n and a filter of length filterLen.
func MaxLevel(n, filterLen int) int {
	if filterLen < 2 || n < filterLen-1 {
		return 0
	}
	q := n / (filterLen - 1)
	return bits.Len(uint(q)) - 1
}

func mod(k, n int) int {
	k %= n
	if k < 0 {
		k += n
	}
	return k
}

// Dwt performs one level of the periodized discrete wavelet transform.
// Odd-length input is extended by repeating its last sample; both outputs
// have length ceil(len(x)/2).
func Dwt(x []float64, w *Wavelet) (cA, cD []float64) {
	n := len(x) + len(x)%2
	half := n / 2
	f := w.Len()
	at := func(k int) float64 {
		k = mod(k, n)
		if k >= len(x) {
			return x[len(x)-1]
		}
		return x[k]
	}

	cA = make([]float64, half)
	cD = make([]float64, half)
	for o := 0; o < half; o++ {
		i := f/2 + 2*o
		var a, d float64
		for j := 0; j < f; j++ {
			v := at(i - j)
			a += w.DecLo[j] * v
			d += w.DecHi[j] * v
		}
		cA[o] = a
		cD[o] = d
	}
	return cA, cD
}

// Idwt inverts Dwt for equal-length coefficient arrays. The output has
// length 2*len(cA).
func Idwt(cA, cD []float64, w *Wavelet) ([]float64, error) {
	if len(cA) != len(cD) {
		return nil, fmt.Errorf("idwt: coefficient length mismatch (%d vs %d)", len(cA), len(cD))
	}
	half := len(cA)
	n := 2 * half
	f := w.Len()
	out := make([]float64, n)
	for o := 0; o < half; o++ {
		i := f/2 + 2*o
		for m := 0; m < f; m++ {
			k := mod(i-f+1+m, n)
			out[k] += w.RecLo[m]*cA[o] + w.RecHi[m]*cD[o]
		}
	}
	return out, nil
}

// Wavedec decomposes x into level+1 arrays ordered [cA_n, cD_n, ..., cD_1].
// A negative level selects MaxLevel.
func Wavedec(x []float64, w *Wavelet, level int) ([][]float64, error) {
	if len(x) == 0 {
		return nil, errors.New("wavedec: empty input")
	}
	if level < 0 {
		level = MaxLevel(len(x), w.Len())
	}

	details := make([][]float64, 0, level)
	a := append([]float64(nil), x...)
	for l := 0; l < level; l++ {
		var d []float64
		a, d = Dwt(a, w)
		details = append(details, d)
	}

	coeffs := make([][]float64, 0, level+1)
	coeffs = append(coeffs, a)
	for i := len(details) - 1; i >= 0; i-- {
		coeffs = append(coeffs, details[i])
	}
	return coeffs, nil
}

// Waverec reconstructs a signal from Wavedec output. The result may be one
// sample longer than the original when its length was odd.
func Waverec(coeffs [][]float64, w *Wavelet) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, errors.New("waverec: no coefficients")
	}
	a := append([]float64(nil), coeffs[0]...)
	for _, d := range coeffs[1:] {
		switch {
		case len(a) == len(d)+1:
			a = a[:len(d)]
		case len(a) != len(d):
			return nil, fmt.Errorf("waverec: coefficient shape mismatch (%d vs %d)", len(a), len(d))
		}
		var err error
		if a, err = Idwt(a, d, w); err != nil {
			return nil, err
		}
	}
	return a, nil
}
