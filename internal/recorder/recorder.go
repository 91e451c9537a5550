package recorder

import "time"

// RunEvent describes one sweep run.
type RunEvent struct {
	RunID      string
	Symbol     string
	Start      time.Time
	End        time.Time
	Points     int
	Cells      int
	Status     string // "RUNNING", "OK", "NO_DATA", "FAILED"
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// ResultEvent describes one (wavelet, scale) cell of a sweep.
type ResultEvent struct {
	RunID       string
	Wavelet     string
	Scale       float64
	Level       int
	Threshold   float64
	OriginalStd float64
	DenoisedStd float64
	RMSE        float64
	PlotPath    string
	ExportPath  string
}

// Recorder persists sweep history for later analysis.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	RecordResult(evt *ResultEvent) error
	Close() error
}
