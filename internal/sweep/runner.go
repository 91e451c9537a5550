package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"WaveletDenoise/internal/collector"
	"WaveletDenoise/internal/denoiser"
	"WaveletDenoise/internal/exporter"
	"WaveletDenoise/internal/metrics"
	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/notifier"
	"WaveletDenoise/internal/recorder"
	"WaveletDenoise/internal/render"
	"WaveletDenoise/internal/wavelet"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Run statuses written to the recorder.
const (
	StatusRunning = "RUNNING"
	StatusOK      = "OK"
	StatusNoData  = "NO_DATA"
	StatusFailed  = "FAILED"
)

// Source supplies the input series.
type Source interface {
	Collect(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
}

// Renderer writes the two chart kinds.
type Renderer interface {
	WaveletShape(w *wavelet.Wavelet) (model.PlotArtifact, error)
	Comparison(res *model.DenoisedResult) (model.PlotArtifact, error)
}

// Notifier delivers the completion message.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Runner executes the wavelet x scale sweep sequentially.
type Runner struct {
	Source   Source
	Renderer Renderer
	Saver    exporter.Saver    // nil disables export
	Recorder recorder.Recorder // nil disables history
	Metrics  *metrics.Recorder // nil disables metrics
	Notifier Notifier          // nil disables notifications
	// MetricsTextfile is rewritten after every run when set.
	MetricsTextfile string

	log zerolog.Logger
	now func() time.Time
}

// NewRunner creates a Runner with the required collaborators.
func NewRunner(src Source, rnd Renderer, log zerolog.Logger) *Runner {
	return &Runner{
		Source:   src,
		Renderer: rnd,
		Recorder: recorder.NewNoopRecorder(),
		log:      log,
		now:      time.Now,
	}
}

// Run fetches the series once and processes every (wavelet, scale) pair,
// wavelets outermost. The first error aborts the run.
func (r *Runner) Run(ctx context.Context, plan model.SweepPlan) (*model.SweepSummary, error) {
	summary := &model.SweepSummary{
		RunID:     uuid.NewString(),
		Symbol:    plan.Symbol,
		StartedAt: r.now(),
	}
	run := &recorder.RunEvent{
		RunID:     summary.RunID,
		Symbol:    plan.Symbol,
		Start:     plan.Start,
		End:       plan.End,
		Cells:     len(plan.Wavelets) * len(plan.Scales),
		Status:    StatusRunning,
		StartedAt: summary.StartedAt,
	}
	r.recordRun(run)
	defer r.flushMetrics()

	if err := os.MkdirAll(plan.OutputDir, 0o755); err != nil {
		return nil, r.fail(ctx, run, "output_dir", fmt.Errorf("create output dir: %w", err))
	}

	series, err := r.Source.Collect(ctx, plan.Symbol, plan.Start, plan.End)
	if err != nil {
		kind := "fetch"
		if errors.Is(err, collector.ErrNoData) {
			kind = "no_data"
			run.Status = StatusNoData
		}
		return nil, r.fail(ctx, run, kind, err)
	}
	summary.Points = series.Len()
	run.Points = series.Len()
	if r.Metrics != nil {
		r.Metrics.RecordInput(plan.Symbol, series.Len())
	}

	for _, name := range plan.Wavelets {
		w, err := wavelet.Lookup(name)
		if err != nil {
			return nil, r.fail(ctx, run, "unknown_wavelet", err)
		}
		art, err := r.Renderer.WaveletShape(w)
		if err != nil {
			return nil, r.fail(ctx, run, "render", fmt.Errorf("render %s function: %w", w.Name, err))
		}
		summary.Artifacts = append(summary.Artifacts, art.Path)

		for _, scale := range plan.Scales {
			if err := ctx.Err(); err != nil {
				return nil, r.fail(ctx, run, "canceled", err)
			}
			r.log.Info().Msgf("Processing %s, wavelet: %s, scale: %s", plan.Symbol, w.Name, render.FormatScale(scale))

			rs, paths, err := r.processCell(series, plan, w, scale)
			if err != nil {
				return nil, r.fail(ctx, run, "denoise", err)
			}
			summary.Results = append(summary.Results, rs)
			summary.Artifacts = append(summary.Artifacts, paths...)
			r.recordResult(summary.RunID, rs)
		}
	}

	summary.FinishedAt = r.now()
	run.Status = StatusOK
	run.FinishedAt = summary.FinishedAt
	r.recordRun(run)
	if r.Metrics != nil {
		r.Metrics.RecordSweep(summary.FinishedAt.Sub(summary.StartedAt).Seconds(), summary.FinishedAt.Unix())
	}
	r.notify(ctx, notifier.FormatSweepReport(summary))

	r.log.Info().
		Str("run_id", summary.RunID).
		Int("results", len(summary.Results)).
		Int("artifacts", len(summary.Artifacts)).
		Msg("Done!")
	return summary, nil
}

func (r *Runner) processCell(series model.PriceSeries, plan model.SweepPlan, w *wavelet.Wavelet, scale float64) (model.ResultSummary, []string, error) {
	res, err := denoiser.Denoise(series, w.Name, scale)
	if err != nil {
		return model.ResultSummary{}, nil, err
	}
	art, err := r.Renderer.Comparison(res)
	if err != nil {
		return model.ResultSummary{}, nil, fmt.Errorf("render comparison %s/%s: %w", w.Name, render.FormatScale(scale), err)
	}
	paths := []string{art.Path}

	orig := res.Original.Values()
	den := res.Denoised.Values()
	rs := model.ResultSummary{
		Wavelet:     res.Wavelet,
		Scale:       scale,
		Threshold:   res.Threshold,
		Level:       res.Level,
		OriginalStd: stdDev(orig),
		DenoisedStd: stdDev(den),
		RMSE:        floats.Distance(orig, den, 2) / math.Sqrt(float64(len(orig))),
		PlotPath:    art.Path,
	}

	if r.Saver != nil {
		path := filepath.Join(plan.OutputDir,
			render.ComparisonBaseName(plan.Symbol, res.Wavelet, scale)+"."+r.Saver.Extension())
		if err := r.Saver.Save(res, path); err != nil {
			return model.ResultSummary{}, nil, fmt.Errorf("export %s: %w", path, err)
		}
		rs.ExportPath = path
		paths = append(paths, path)
	}

	if r.Metrics != nil {
		ratio := 0.0
		if rs.OriginalStd > 0 {
			ratio = rs.DenoisedStd / rs.OriginalStd
		}
		r.Metrics.RecordResult(res.Wavelet, render.FormatScale(scale), res.Threshold, ratio)
	}
	return rs, paths, nil
}

// stdDev is the sample standard deviation, 0 for fewer than two points.
func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

func (r *Runner) fail(ctx context.Context, run *recorder.RunEvent, kind string, err error) error {
	if run.Status == StatusRunning {
		run.Status = StatusFailed
	}
	run.Error = err.Error()
	run.FinishedAt = r.now()
	r.recordRun(run)
	if r.Metrics != nil {
		r.Metrics.RecordError(kind)
	}
	r.notify(ctx, notifier.FormatFailure(run.Symbol, err))
	return err
}

func (r *Runner) recordRun(run *recorder.RunEvent) {
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.RecordRun(run); err != nil {
		r.log.Error().Err(err).Str("run_id", run.RunID).Msg("record run")
	}
}

func (r *Runner) recordResult(runID string, rs model.ResultSummary) {
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.RecordResult(&recorder.ResultEvent{
		RunID:       runID,
		Wavelet:     rs.Wavelet,
		Scale:       rs.Scale,
		Level:       rs.Level,
		Threshold:   rs.Threshold,
		OriginalStd: rs.OriginalStd,
		DenoisedStd: rs.DenoisedStd,
		RMSE:        rs.RMSE,
		PlotPath:    rs.PlotPath,
		ExportPath:  rs.ExportPath,
	}); err != nil {
		r.log.Error().Err(err).Str("run_id", runID).Msg("record result")
	}
}

func (r *Runner) notify(ctx context.Context, text string) {
	if r.Notifier == nil {
		return
	}
	if err := r.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		r.log.Error().Err(err).Msg("send notification")
	}
}

func (r *Runner) flushMetrics() {
	if r.Metrics == nil || r.MetricsTextfile == "" {
		return
	}
	if err := r.Metrics.WriteTextfile(r.MetricsTextfile); err != nil {
		r.log.Error().Err(err).Str("path", r.MetricsTextfile).Msg("write metrics textfile")
	}
}
