package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chris/aide/internal/logger"
)

// Scheduler runs the reminder scans on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	timeout time.Duration
}

type ScheduleConfig struct {
	TaskCron  string // e.g. "*/15 * * * *"
	HabitCron string // e.g. "0 21 * * *"
	Location  *time.Location
}

func NewScheduler(service *Service, cfg ScheduleConfig) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		service: service,
		timeout: 5 * time.Minute,
	}
	if cfg.TaskCron != "" {
		if _, err := s.cron.AddFunc(cfg.TaskCron, s.runTasks); err != nil {
			return nil, fmt.Errorf("invalid task reminder cron %q: %w", cfg.TaskCron, err)
		}
	}
	if cfg.HabitCron != "" {
		if _, err := s.cron.AddFunc(cfg.HabitCron, s.runHabits); err != nil {
			return nil, fmt.Errorf("invalid habit reminder cron %q: %w", cfg.HabitCron, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler: started", "entries", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for running scans to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run starts the scheduler and stops it when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Scheduler) runTasks() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.service.ScanTasks(ctx); err != nil {
		logger.Error("scheduler: task scan", "err", err)
	}
}

func (s *Scheduler) runHabits() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.service.ScanHabits(ctx); err != nil {
		logger.Error("scheduler: habit scan", "err", err)
	}
}
