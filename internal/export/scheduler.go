package export

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"stockbook/pkg/logger"
)

// Scheduler runs the previous-week export on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	exporter *Exporter
	schedule string
}

// NewScheduler creates a scheduler. schedule is a standard 5-field cron
// expression, e.g. "0 6 * * 1" for Monday 06:00.
func NewScheduler(exporter *Exporter, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		exporter: exporter,
		schedule: schedule,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runWeeklyExport); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *Scheduler) runWeeklyExport() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rng := PreviousWeek(time.Now().UTC())
	logger.Info(ctx, "weekly export starting", "range", rng.String())

	if _, err := s.exporter.ExportRange(ctx, rng); err != nil {
		logger.Error(ctx, "weekly export failed", "range", rng.String(), "error", err)
	}
}
