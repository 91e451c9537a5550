package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/wavelet"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width        = 10 * vg.Inch
	height       = 5 * vg.Inch
	wavefunLevel = 5
)

var (
	originalColor = color.NRGBA{R: 31, G: 119, B: 180, A: 153} // 0.6 alpha
	denoisedColor = color.NRGBA{R: 255, G: 127, B: 14, A: 255}
)

// Renderer writes PNG charts into Dir. Files with the same name are overwritten.
type Renderer struct {
	Dir string
}

// NewRenderer creates a Renderer writing to dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{Dir: dir}
}

// FormatScale renders a scale the shortest way with at least one decimal:
// 0.01 -> "0.01", 1 -> "1.0".
func FormatScale(scale float64) string {
	s := strconv.FormatFloat(scale, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WaveletShapeFileName is "{wavelet}-function.png".
func WaveletShapeFileName(waveletName string) string {
	return waveletName + "-function.png"
}

// ComparisonBaseName is "{symbol}-{wavelet}-{scale}-denoised" without extension.
func ComparisonBaseName(symbol, waveletName string, scale float64) string {
	return fmt.Sprintf("%s-%s-%s-denoised", symbol, waveletName, FormatScale(scale))
}

// WaveletShape plots the wavelet function psi of w.
func (r *Renderer) WaveletShape(w *wavelet.Wavelet) (model.PlotArtifact, error) {
	_, psi, x, err := wavelet.Wavefun(w, wavefunLevel)
	if err != nil {
		return model.PlotArtifact{}, err
	}
	art := model.PlotArtifact{
		Path:   filepath.Join(r.Dir, WaveletShapeFileName(w.Name)),
		Title:  fmt.Sprintf("%s Wavelet Function", w.Name),
		XLabel: "Time",
		YLabel: "Amplitude",
	}

	pts := make(plotter.XYs, len(psi))
	for i := range psi {
		pts[i].X = x[i]
		pts[i].Y = psi[i]
	}
	p := newPlot(art)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return model.PlotArtifact{}, fmt.Errorf("wavelet line: %w", err)
	}
	line.Color = denoisedColor
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("%s Wavelet", w.Name), line)

	if err := p.Save(width, height, art.Path); err != nil {
		return model.PlotArtifact{}, fmt.Errorf("save %s: %w", art.Path, err)
	}
	return art, nil
}

// Comparison plots the original and denoised series on one date axis.
func (r *Renderer) Comparison(res *model.DenoisedResult) (model.PlotArtifact, error) {
	symbol := res.Original.Symbol
	art := model.PlotArtifact{
		Path: filepath.Join(r.Dir, ComparisonBaseName(symbol, res.Wavelet, res.Scale)+".png"),
		Title: fmt.Sprintf("%s, Wavelet: %s, Scale: %s: Original vs Denoised Prices",
			symbol, res.Wavelet, FormatScale(res.Scale)),
		XLabel: "Date",
		YLabel: "Price",
	}

	p := newPlot(art)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	orig, err := plotter.NewLine(seriesXYs(res.Original))
	if err != nil {
		return model.PlotArtifact{}, fmt.Errorf("original line: %w", err)
	}
	orig.Color = originalColor
	orig.Width = vg.Points(1)

	den, err := plotter.NewLine(seriesXYs(res.Denoised))
	if err != nil {
		return model.PlotArtifact{}, fmt.Errorf("denoised line: %w", err)
	}
	den.Color = denoisedColor
	den.Width = vg.Points(1)

	p.Add(orig, den)
	p.Legend.Add("Original Prices", orig)
	p.Legend.Add("Denoised Prices", den)

	if err := p.Save(width, height, art.Path); err != nil {
		return model.PlotArtifact{}, fmt.Errorf("save %s: %w", art.Path, err)
	}
	return art, nil
}

func newPlot(art model.PlotArtifact) *plot.Plot {
	p := plot.New()
	p.Title.Text = art.Title
	p.X.Label.Text = art.XLabel
	p.Y.Label.Text = art.YLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func seriesXYs(s model.PriceSeries) plotter.XYs {
	dates, values := s.Dates(), s.Values()
	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i].X = float64(dates[i].Unix())
		pts[i].Y = values[i]
	}
	return pts
}
