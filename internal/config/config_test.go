package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"DENOISE_SYMBOL", "DENOISE_OUTPUT_DIR", "DENOISE_LOOKBACK_YEARS", "DATA_SOURCE_BASE_URL",
	"DATA_SOURCE_API_KEY", "HTTPS_PROXY", "LOG_LEVEL", "LOG_FORMAT", "SQLITE_PATH",
	"EXPORT_FORMAT", "METRICS_TEXTFILE", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SCHEDULE_CRON",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Sweep.Symbol != "QQQ" || cfg.Sweep.LookbackYears != 3 || cfg.Sweep.OutputDir != "results" {
		t.Errorf("unexpected sweep defaults: %+v", cfg.Sweep)
	}
	wantW := []string{"db6", "haar", "sym5"}
	if len(cfg.Sweep.Wavelets) != len(wantW) {
		t.Fatalf("wavelets = %v", cfg.Sweep.Wavelets)
	}
	for i := range wantW {
		if cfg.Sweep.Wavelets[i] != wantW[i] {
			t.Errorf("wavelet %d = %q, want %q", i, cfg.Sweep.Wavelets[i], wantW[i])
		}
	}
	wantS := []float64{0.01, 0.1, 0.5}
	for i := range wantS {
		if cfg.Sweep.Scales[i] != wantS[i] {
			t.Errorf("scale %d = %v, want %v", i, cfg.Sweep.Scales[i], wantS[i])
		}
	}
	if cfg.Log.Level != "info" || cfg.Export.Format != "csv" {
		t.Errorf("unexpected defaults log=%q export=%q", cfg.Log.Level, cfg.Export.Format)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
sweep:
  symbol: SPY
  wavelets: [haar]
  scales: [0.2]
export:
  format: parquet
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv("DENOISE_OUTPUT_DIR", "out")
	t.Setenv("DENOISE_LOOKBACK_YEARS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Sweep.Symbol != "SPY" || cfg.Sweep.OutputDir != "out" || cfg.Sweep.LookbackYears != 5 {
		t.Errorf("unexpected sweep %+v", cfg.Sweep)
	}
	if len(cfg.Sweep.Wavelets) != 1 || cfg.Sweep.Wavelets[0] != "haar" {
		t.Errorf("file wavelets should win over defaults, got %v", cfg.Sweep.Wavelets)
	}
	if cfg.Export.Format != "parquet" {
		t.Errorf("export format = %q", cfg.Export.Format)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("sweep: [unterminated"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_Rejects(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive scale", func(c *Config) { c.Sweep.Scales = []float64{0.1, 0} }},
		{"empty wavelet name", func(c *Config) { c.Sweep.Wavelets = []string{""} }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad export format", func(c *Config) { c.Export.Format = "xlsx" }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"zero lookback", func(c *Config) { c.Sweep.LookbackYears = 0 }},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestPlan(t *testing.T) {
	clearEnv(t)
	cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
	now := time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)
	p := cfg.Plan(now)
	if !p.End.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", p.End)
	}
	if days := int(p.End.Sub(p.Start).Hours() / 24); days != 3*365 {
		t.Errorf("lookback = %d days, want %d", days, 3*365)
	}
	if got := len(p.Configs()); got != 9 {
		t.Errorf("expected 9 sweep cells, got %d", got)
	}
	if c := p.Configs()[1]; c.Wavelet != "db6" || c.Scale != 0.1 {
		t.Errorf("wavelets must be the outer loop, got %+v", c)
	}
}
