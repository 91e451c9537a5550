package model

import "time"

// DenoiseConfig is one cell of the sweep.
type DenoiseConfig struct {
	Wavelet string
	Scale   float64
}

// DenoisedResult pairs the input series with its denoised counterpart.
// Both series share the same index.
type DenoisedResult struct {
	Original  PriceSeries
	Denoised  PriceSeries
	Wavelet   string
	Scale     float64
	Threshold float64
	Level     int
}

// PlotArtifact describes an image written by the renderer.
type PlotArtifact struct {
	Path   string
	Title  string
	XLabel string
	YLabel string
}

// SweepPlan is the fully resolved input of one sweep run.
type SweepPlan struct {
	Symbol    string
	Start     time.Time
	End       time.Time
	Wavelets  []string
	Scales    []float64
	OutputDir string
}

// Configs expands the plan into its cross product, wavelets outermost.
func (p SweepPlan) Configs() []DenoiseConfig {
	out := make([]DenoiseConfig, 0, len(p.Wavelets)*len(p.Scales))
	for _, w := range p.Wavelets {
		for _, s := range p.Scales {
			out = append(out, DenoiseConfig{Wavelet: w, Scale: s})
		}
	}
	return out
}

// ResultSummary holds the per-cell statistics of a sweep.
type ResultSummary struct {
	Wavelet     string
	Scale       float64
	Threshold   float64
	Level       int
	OriginalStd float64
	DenoisedStd float64
	RMSE        float64
	PlotPath    string
	ExportPath  string
}

// SweepSummary is what a finished sweep reports.
type SweepSummary struct {
	RunID      string
	Symbol     string
	Points     int
	Results    []ResultSummary
	Artifacts  []string
	StartedAt  time.Time
	FinishedAt time.Time
}
