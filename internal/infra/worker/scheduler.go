package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newshub/internal/observability/metrics"
	"newshub/internal/usecase/ingest"
)

// Scheduler runs ingestion cycles on a cron schedule, plus one immediate
// cycle at startup so a fresh deployment does not serve an empty store for
// up to an hour.
type Scheduler struct {
	svc    *ingest.Service
	cfg    Config
	logger *slog.Logger
	cron   *cron.Cron
}

// NewScheduler creates a scheduler around the ingestion service.
func NewScheduler(svc *ingest.Service, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{svc: svc, cfg: cfg, logger: logger}
}

// Start launches the startup cycle in a goroutine and registers the cron
// entry. It returns once the schedule is armed; cycle failures are logged
// and never propagate to the caller.
func (s *Scheduler) Start() error {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		// LoadConfigFromEnv validates the timezone, so this only happens
		// with a hand-built Config.
		s.logger.Error("invalid timezone, using UTC",
			slog.String("timezone", s.cfg.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}

	s.cron = cron.New(cron.WithLocation(loc))
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runCycle); err != nil {
		return fmt.Errorf("add cron entry: %w", err)
	}

	go s.runCycle()

	s.cron.Start()
	s.logger.Info("ingestion scheduler started",
		slog.String("schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone))
	return nil
}

// Stop halts the cron schedule and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("ingestion scheduler stopped")
}

// runCycle executes a single ingestion cycle with a timeout. Errors are
// logged and swallowed; the next scheduled run is the retry mechanism.
func (s *Scheduler) runCycle() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CycleTimeout)
	defer cancel()

	stats, err := s.svc.RunCycle(ctx)
	duration := time.Since(start)

	switch {
	case err != nil:
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("ingestion cycle timed out",
				slog.Duration("timeout", s.cfg.CycleTimeout))
		} else {
			s.logger.Error("ingestion cycle failed", slog.Any("error", err))
		}
		metrics.RecordIngestCycle(status, duration)
	case stats.Fetched == 0:
		metrics.RecordIngestCycle("skipped", duration)
	default:
		metrics.RecordIngestCycle("success", duration)
		metrics.RecordArticlesUpserted(stats.Inserted, stats.Modified)
	}
}
