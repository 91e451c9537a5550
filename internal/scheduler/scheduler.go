package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"WaveletDenoise/internal/model"
	"WaveletDenoise/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrBusy is returned by RunNow while another sweep is in progress.
var ErrBusy = errors.New("sweep already running")

// SweepRunner executes one sweep.
type SweepRunner interface {
	Run(ctx context.Context, plan model.SweepPlan) (*model.SweepSummary, error)
}

// PlanFunc resolves the sweep plan at trigger time, so the lookback
// window follows the wall clock.
type PlanFunc func(now time.Time) model.SweepPlan

// Scheduler runs sweeps on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner SweepRunner
	Plan   PlanFunc
	Ctx    context.Context

	log     zerolog.Logger
	running sync.Mutex

	mu   sync.Mutex
	last *model.SweepSummary
	err  error
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner SweepRunner, plan PlanFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Plan:   plan,
		Ctx:    ctx,
		log:    log,
	}
}

// Register adds the sweep job under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	s.log.Info().Str("cron", spec).Msg("sweep task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes a sweep immediately. It does not queue behind a
// running sweep. Failures are logged here, so callers may discard them.
func (s *Scheduler) RunNow() (*model.SweepSummary, error) {
	if !s.running.TryLock() {
		s.log.Warn().Msg("previous sweep still running, skipping")
		return nil, ErrBusy
	}
	defer s.running.Unlock()

	summary, err := s.Runner.Run(s.Ctx, s.Plan(time.Now()))
	if err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
	}
	s.mu.Lock()
	s.last, s.err = summary, err
	s.mu.Unlock()
	return summary, err
}

func (s *Scheduler) sweepTask() {
	s.log.Info().Msg("running scheduled sweep")
	s.RunNow()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		if _, err := s.RunNow(); errors.Is(err, ErrBusy) {
			return "⏳ A sweep is already running"
		}
		// the runner sends its own report
		return ""
	case "/status":
		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case s.err != nil:
			return notifier.FormatFailure(s.Plan(time.Now()).Symbol, s.err)
		case s.last != nil:
			return notifier.FormatSweepReport(s.last)
		default:
			return "No sweep has run yet"
		}
	default:
		return "Available commands:\n• /run\n• /status"
	}
}
