package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects sweep metrics on a private registry. The process is a
// batch job, so the registry is written to a node-exporter textfile instead
// of being scraped.
type Recorder struct {
	registry      *prometheus.Registry
	resultsTotal  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	inputPoints   *prometheus.GaugeVec
	threshold     *prometheus.GaugeVec
	stdRatio      *prometheus.GaugeVec
	sweepDuration prometheus.Histogram
	lastSuccess   prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "denoise_results_total",
				Help: "Denoised series produced, by wavelet",
			},
			[]string{"wavelet"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "denoise_errors_total",
				Help: "Sweep failures, by kind",
			},
			[]string{"kind"},
		),
		inputPoints: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "denoise_input_points",
				Help: "Length of the fetched price series",
			},
			[]string{"symbol"},
		),
		threshold: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "denoise_threshold",
				Help: "Absolute soft threshold applied to detail coefficients",
			},
			[]string{"wavelet", "scale"},
		),
		stdRatio: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "denoise_std_ratio",
				Help: "Standard deviation of the denoised series over that of the original",
			},
			[]string{"wavelet", "scale"},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "denoise_sweep_duration_seconds",
				Help:    "Duration of a full sweep in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "denoise_last_success_timestamp_seconds",
				Help: "Unix time of the last completed sweep",
			},
		),
	}
	r.registry.MustRegister(r.resultsTotal, r.errorsTotal, r.inputPoints,
		r.threshold, r.stdRatio, r.sweepDuration, r.lastSuccess)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) RecordInput(symbol string, points int) {
	r.inputPoints.WithLabelValues(symbol).Set(float64(points))
}

// RecordResult records one finished sweep cell.
func (r *Recorder) RecordResult(wavelet, scale string, threshold, stdRatio float64) {
	r.resultsTotal.WithLabelValues(wavelet).Inc()
	r.threshold.WithLabelValues(wavelet, scale).Set(threshold)
	r.stdRatio.WithLabelValues(wavelet, scale).Set(stdRatio)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSweep records a completed sweep.
func (r *Recorder) RecordSweep(seconds float64, finishedUnix int64) {
	r.sweepDuration.Observe(seconds)
	r.lastSuccess.Set(float64(finishedUnix))
}

// WriteTextfile writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
