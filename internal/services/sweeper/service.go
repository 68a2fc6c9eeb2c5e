package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mcoot/playtracker/internal/dependencies/clock"
	"github.com/mcoot/playtracker/internal/storage"
)

// DefaultInterval is how often expired sessions are purged
const DefaultInterval = 10 * time.Minute

// Service periodically removes expired sessions from the session store
type Service struct {
	sessions  storage.SessionStore
	clock     clock.Clock
	interval  time.Duration
	logger    *slog.Logger
	scheduler gocron.Scheduler
}

// New creates a sweeper. It does nothing until Start is called.
func New(sessions storage.SessionStore, clk clock.Clock, interval time.Duration, logger *slog.Logger) (*Service, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Service{
		sessions:  sessions,
		clock:     clk,
		interval:  interval,
		logger:    logger,
		scheduler: scheduler,
	}, nil
}

// Start schedules the sweep job, running it once right away
func (s *Service) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			_, _ = s.Sweep(context.Background())
		}),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	s.scheduler.Start()
	s.logger.Info("session sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Sweep removes every session that has expired by now
func (s *Service) Sweep(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("session sweep failed", slog.String("error", err.Error()))
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", slog.Int("count", removed))
	}
	return removed, nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish
func (s *Service) Stop() error {
	return s.scheduler.Shutdown()
}
