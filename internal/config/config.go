package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"WaveletDenoise/internal/model"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Sweep struct {
		Symbol        string    `yaml:"symbol" default:"QQQ" validate:"required"`
		LookbackYears int       `yaml:"lookback_years" default:"3" validate:"gte=1,lte=50"`
		Wavelets      []string  `yaml:"wavelets" default:"[\"db6\",\"haar\",\"sym5\"]" validate:"required,min=1,dive,required"`
		Scales        []float64 `yaml:"scales" default:"[0.01,0.1,0.5]" validate:"required,min=1,dive,gt=0"`
		OutputDir     string    `yaml:"output_dir" default:"results" validate:"required"`
	} `yaml:"sweep"`
	DataSource struct {
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
	Export struct {
		Format string `yaml:"format" default:"csv" validate:"oneof=none csv parquet"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/denoise_runs.db"`
	} `yaml:"database"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

var validate = validator.New()

// Load reads config from a YAML file, applies environment variable overrides,
// then fills unset fields with defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DENOISE_SYMBOL"); v != "" {
		cfg.Sweep.Symbol = v
	}
	if v := os.Getenv("DENOISE_OUTPUT_DIR"); v != "" {
		cfg.Sweep.OutputDir = v
	}
	if v := os.Getenv("DENOISE_LOOKBACK_YEARS"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("DENOISE_LOOKBACK_YEARS: %w", err)
		}
		cfg.Sweep.LookbackYears = years
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("EXPORT_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
	if v := os.Getenv("METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Plan resolves the sweep section against the current date. The lookback
// window is LookbackYears*365 days ending at today's date.
func (c *Config) Plan(now time.Time) model.SweepPlan {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return model.SweepPlan{
		Symbol:    c.Sweep.Symbol,
		Start:     end.AddDate(0, 0, -c.Sweep.LookbackYears*365),
		End:       end,
		Wavelets:  append([]string(nil), c.Sweep.Wavelets...),
		Scales:    append([]float64(nil), c.Sweep.Scales...),
		OutputDir: c.Sweep.OutputDir,
	}
}
