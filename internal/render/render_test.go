package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/wavelet"
)

func TestFormatScale(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.01, "0.01"},
		{0.1, "0.1"},
		{0.5, "0.5"},
		{1, "1.0"},
		{2.25, "2.25"},
	}
	for _, tt := range tests {
		if got := FormatScale(tt.in); got != tt.want {
			t.Errorf("FormatScale(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNames(t *testing.T) {
	if got := WaveletShapeFileName("db6"); got != "db6-function.png" {
		t.Errorf("got %q", got)
	}
	if got := ComparisonBaseName("QQQ", "sym5", 0.01); got != "QQQ-sym5-0.01-denoised" {
		t.Errorf("got %q", got)
	}
}

func TestWaveletShape_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)
	w, _ := wavelet.Lookup("sym5")
	art, err := r.WaveletShape(w)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if art.Path != filepath.Join(dir, "sym5-function.png") {
		t.Errorf("unexpected path %s", art.Path)
	}
	assertPNG(t, art.Path)
}

func TestComparison_WritesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orig := model.PriceSeries{Symbol: "QQQ"}
	for i := 0; i < 50; i++ {
		orig.Points = append(orig.Points, model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Value: 400 + 5*math.Sin(float64(i)/4),
		})
	}
	res := &model.DenoisedResult{
		Original: orig,
		Denoised: orig.WithValues(orig.Values()),
		Wavelet:  "haar",
		Scale:    0.1,
	}
	art, err := r.Comparison(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Base(art.Path) != "QQQ-haar-0.1-denoised.png" {
		t.Errorf("unexpected file %s", art.Path)
	}
	if art.Title != "QQQ, Wavelet: haar, Scale: 0.1: Original vs Denoised Prices" {
		t.Errorf("unexpected title %q", art.Title)
	}
	assertPNG(t, art.Path)

	if _, err := r.Comparison(res); err != nil {
		t.Fatalf("second render should overwrite: %v", err)
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("%s is not a PNG", path)
	}
}
