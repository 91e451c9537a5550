package denoiser

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/wavelet"

	"gonum.org/v1/gonum/stat"
)

func syntheticSeries(n int, seed int64) model.PriceSeries {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, n)
	for i := range points {
		points[i] = model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Value: 100 + math.Sin(float64(i)/10) + rng.NormFloat64()*0.3,
		}
	}
	return model.PriceSeries{Symbol: "TEST", Points: points}
}

func TestDenoise_LengthAndIndex(t *testing.T) {
	for _, n := range []int{1, 2, 5, 11, 37, 255, 256, 750} {
		s := syntheticSeries(n, int64(n))
		for _, w := range []string{"db6", "haar", "sym5"} {
			for _, scale := range []float64{0.01, 0.1, 0.5} {
				res, err := Denoise(s, w, scale)
				if err != nil {
					t.Fatalf("n=%d %s %.2f: %v", n, w, scale, err)
				}
				if res.Denoised.Len() != s.Len() {
					t.Fatalf("n=%d %s %.2f: length %d, want %d", n, w, scale, res.Denoised.Len(), s.Len())
				}
				for i := range s.Points {
					if !res.Denoised.Points[i].Date.Equal(s.Points[i].Date) {
						t.Fatalf("n=%d %s: date %d misaligned", n, w, i)
					}
				}
			}
		}
	}
}

func TestDenoise_ConcreteScenario(t *testing.T) {
	s := syntheticSeries(256, 42)
	res, err := Denoise(s, "haar", 0.5)
	if err != nil {
		t.Fatalf("denoise: %v", err)
	}
	if res.Denoised.Len() != 256 {
		t.Fatalf("expected 256 points, got %d", res.Denoised.Len())
	}
	orig := stat.StdDev(s.Values(), nil)
	got := stat.StdDev(res.Denoised.Values(), nil)
	if got >= orig {
		t.Errorf("expected std to shrink: original %.4f, denoised %.4f", orig, got)
	}
	if res.Level != 8 {
		t.Errorf("expected haar level 8 for 256 points, got %d", res.Level)
	}
	if math.Abs(res.Threshold-0.5*maxOf(s.Values())) > 1e-12 {
		t.Errorf("threshold %.6f is not 0.5*max", res.Threshold)
	}
}

func TestDenoise_ScaleToZeroReturnsOriginal(t *testing.T) {
	s := syntheticSeries(200, 7)
	for _, w := range wavelet.Names() {
		res, err := Denoise(s, w, 0)
		if err != nil {
			t.Fatalf("%s: %v", w, err)
		}
		for i, p := range res.Denoised.Points {
			if math.Abs(p.Value-s.Points[i].Value) > 1e-6 {
				t.Fatalf("%s: point %d = %v, want %v", w, i, p.Value, s.Points[i].Value)
			}
		}
	}
}

func TestDenoise_VarianceNonIncreasingInScale(t *testing.T) {
	s := syntheticSeries(256, 3)
	scales := []float64{0, 0.0001, 0.001, 0.005, 0.01, 0.1, 0.5, 1}
	for _, w := range []string{"db6", "haar", "sym5"} {
		prev := math.Inf(1)
		for _, scale := range scales {
			res, err := Denoise(s, w, scale)
			if err != nil {
				t.Fatalf("%s %.4f: %v", w, scale, err)
			}
			v := stat.Variance(res.Denoised.Values(), nil)
			if v > prev+1e-9 {
				t.Errorf("%s: variance rose from %.6f to %.6f at scale %v", w, prev, v, scale)
			}
			prev = v
		}
	}
}

func TestDenoise_Deterministic(t *testing.T) {
	s := syntheticSeries(300, 11)
	a, err := Denoise(s, "sym5", 0.01)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Denoise(s, "sym5", 0.01)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Denoised.Points {
		if a.Denoised.Points[i].Value != b.Denoised.Points[i].Value {
			t.Fatalf("point %d differs between runs", i)
		}
	}
}

func TestDenoise_DoesNotMutateInput(t *testing.T) {
	s := syntheticSeries(64, 5)
	before := s.Values()
	if _, err := Denoise(s, "db6", 0.1); err != nil {
		t.Fatal(err)
	}
	for i, v := range s.Values() {
		if v != before[i] {
			t.Fatalf("input point %d changed", i)
		}
	}
}

func TestDenoise_Errors(t *testing.T) {
	s := syntheticSeries(32, 1)
	if _, err := Denoise(s, "not-a-real-wavelet", 0.1); !errors.Is(err, wavelet.ErrUnknownWavelet) {
		t.Errorf("expected ErrUnknownWavelet, got %v", err)
	}
	if _, err := Denoise(model.PriceSeries{}, "haar", 0.1); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	w, _ := wavelet.Lookup("haar")
	if _, err := DenoiseValues(nil, w, 0.1); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries from DenoiseValues, got %v", err)
	}
}

func TestDenoiseValues_MatchesDenoise(t *testing.T) {
	s := syntheticSeries(129, 9)
	w, _ := wavelet.Lookup("db6")
	got, err := DenoiseValues(s.Values(), w, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	res, _ := Denoise(s, "db6", 0.01)
	for i, v := range res.Denoised.Values() {
		if got[i] != v {
			t.Fatalf("value %d: %v vs %v", i, got[i], v)
		}
	}
}

func TestAlignLength(t *testing.T) {
	if got := alignLength([]float64{1, 2, 3}, 2); len(got) != 2 || got[1] != 2 {
		t.Errorf("truncate: %v", got)
	}
	if got := alignLength([]float64{1, 2}, 4); len(got) != 4 || got[3] != 2 {
		t.Errorf("pad: %v", got)
	}
}

func maxOf(x []float64) float64 {
	m := math.Inf(-1)
	for _, v := range x {
		m = math.Max(m, v)
	}
	return m
}
