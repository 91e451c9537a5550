package denoiser

import (
	"errors"
	"fmt"

	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/wavelet"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptySeries is returned when there is nothing to denoise.
var ErrEmptySeries = errors.New("empty price series")

// Denoise runs decompose -> soft-threshold details -> reconstruct on the
// series values. The threshold is scale * max(series); approximation
// coefficients are left untouched. The denoised series shares the input index.
func Denoise(series model.PriceSeries, waveletName string, scale float64) (*model.DenoisedResult, error) {
	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	w, err := wavelet.Lookup(waveletName)
	if err != nil {
		return nil, err
	}

	values := series.Values()
	threshold := scale * floats.Max(values)
	level := wavelet.MaxLevel(len(values), w.Len())

	denoised, err := denoise(values, w, level, threshold)
	if err != nil {
		return nil, fmt.Errorf("denoise %s/%v: %w", w.Name, scale, err)
	}

	return &model.DenoisedResult{
		Original:  series,
		Denoised:  series.WithValues(denoised),
		Wavelet:   w.Name,
		Scale:     scale,
		Threshold: threshold,
		Level:     level,
	}, nil
}

// DenoiseValues is Denoise on a bare slice.
func DenoiseValues(values []float64, w *wavelet.Wavelet, scale float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}
	level := wavelet.MaxLevel(len(values), w.Len())
	return denoise(values, w, level, scale*floats.Max(values))
}

func denoise(values []float64, w *wavelet.Wavelet, level int, threshold float64) ([]float64, error) {
	coeffs, err := wavelet.Wavedec(values, w, level)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(coeffs); i++ {
		coeffs[i] = wavelet.SoftThreshold(coeffs[i], threshold)
	}
	rec, err := wavelet.Waverec(coeffs, w)
	if err != nil {
		return nil, err
	}
	return alignLength(rec, len(values)), nil
}

// alignLength truncates, or pads with the last sample, to exactly n values.
func alignLength(x []float64, n int) []float64 {
	if len(x) >= n {
		return x[:n:n]
	}
	out := make([]float64, n)
	copy(out, x)
	for i := len(x); i < n; i++ {
		if len(x) > 0 {
			out[i] = x[len(x)-1]
		}
	}
	return out
}
