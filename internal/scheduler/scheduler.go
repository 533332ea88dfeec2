package scheduler

import (
	"fmt"
	"time"

	"Moonlander/internal/usecase"
	applogger "Moonlander/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers signal cycles on a fixed interval. A trigger that
// lands while a cycle is still running is dropped; the generator already
// coalesces overlapping requests.
type Scheduler struct {
	cron     *cron.Cron
	gen      *usecase.Generator
	interval time.Duration
	log      *applogger.Logger
}

func New(gen *usecase.Generator, interval time.Duration, log *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		gen:      gen,
		interval: interval,
		log:      log,
	}
}

// Register adds the periodic generation trigger.
func (s *Scheduler) Register() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return fmt.Errorf("register generation trigger: %w", err)
	}
	return nil
}

func (s *Scheduler) trigger() {
	if !s.gen.Refresh() {
		s.log.Warn("scheduled cycle skipped, previous cycle still running")
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", applogger.Duration("interval", s.interval))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
