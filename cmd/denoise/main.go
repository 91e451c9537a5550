package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WaveletDenoise/internal/collector"
	"WaveletDenoise/internal/config"
	"WaveletDenoise/internal/exporter"
	"WaveletDenoise/internal/logger"
	"WaveletDenoise/internal/metrics"
	"WaveletDenoise/internal/notifier"
	"WaveletDenoise/internal/recorder"
	"WaveletDenoise/internal/render"
	"WaveletDenoise/internal/scheduler"
	"WaveletDenoise/internal/sweep"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitNoData = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return exitFailed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return exitFailed
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return exitFailed
	}
	log.Info().Str("config", cfgPath).Msg("wavelet denoise starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
			defer sr.Close()
		}
	}

	runner := sweep.NewRunner(
		collector.NewCollector(fetcher, log),
		render.NewRenderer(cfg.Sweep.OutputDir),
		log,
	)
	runner.Saver = exporter.NewSaver(cfg.Export.Format)
	runner.Recorder = rec
	runner.Metrics = metrics.New()
	runner.MetricsTextfile = cfg.Metrics.Textfile

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		runner.Notifier = tn
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule.Cron == "" {
		return runOnce(ctx, cfg, runner, log)
	}
	return runScheduled(ctx, cfg, runner, tn, log)
}

func runOnce(ctx context.Context, cfg *config.Config, runner *sweep.Runner, log zerolog.Logger) int {
	plan := cfg.Plan(time.Now())
	log.Info().
		Str("symbol", plan.Symbol).
		Time("start", plan.Start).
		Time("end", plan.End).
		Strs("wavelets", plan.Wavelets).
		Floats64("scales", plan.Scales).
		Msg("sweep planned")

	if _, err := runner.Run(ctx, plan); err != nil {
		if errors.Is(err, collector.ErrNoData) {
			log.Error().Err(err).Str("symbol", plan.Symbol).Msg("no price data")
			return exitNoData
		}
		log.Error().Err(err).Msg("sweep failed")
		return exitFailed
	}
	return exitOK
}

func runScheduled(ctx context.Context, cfg *config.Config, runner *sweep.Runner, tn *notifier.TelegramNotifier, log zerolog.Logger) int {
	sched := scheduler.NewScheduler(ctx, runner, cfg.Plan, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Error().Err(err).Msg("register cron task")
		return exitFailed
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing sweep now")
		// failures are logged by the scheduler
		go sched.RunNow()
	}

	log.Info().Msg("wavelet denoise is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	return exitOK
}
