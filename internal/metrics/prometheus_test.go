package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.RecordInput("QQQ", 752)
	r.RecordResult("haar", "0.1", 42.5, 0.8)
	r.RecordResult("haar", "0.5", 212.5, 0.2)
	r.RecordError("fetch")

	if got := testutil.ToFloat64(r.resultsTotal.WithLabelValues("haar")); got != 2 {
		t.Errorf("results_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.stdRatio.WithLabelValues("haar", "0.5")); got != 0.2 {
		t.Errorf("std_ratio = %v, want 0.2", got)
	}
	if got := testutil.ToFloat64(r.errorsTotal.WithLabelValues("fetch")); got != 1 {
		t.Errorf("errors_total = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.RecordInput("QQQ", 10)
	r.RecordSweep(1.5, 1760000000)

	path := filepath.Join(t.TempDir(), "denoise.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`denoise_input_points{symbol="QQQ"} 10`,
		"denoise_sweep_duration_seconds_count 1",
		"denoise_last_success_timestamp_seconds 1.76e+09",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}
}
