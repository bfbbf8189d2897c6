package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultMaintenanceSchedule runs the job every night at 03:00.
const DefaultMaintenanceSchedule = "0 3 * * *"

// ActivityPruner trims the daily activity log of one device.
type ActivityPruner interface {
	PruneActivities() int
}

// PrunerSource lists the devices that are currently open.
type PrunerSource interface {
	ActivityPruners() []ActivityPruner
}

// MaintenanceService runs periodic housekeeping over every open device.
type MaintenanceService struct {
	source   PrunerSource
	schedule string
	location *time.Location
	logger   *zap.Logger
}

func NewMaintenanceService(source PrunerSource, schedule string, location *time.Location, logger *zap.Logger) *MaintenanceService {
	if schedule == "" {
		schedule = DefaultMaintenanceSchedule
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{
		source:   source,
		schedule: schedule,
		location: location,
		logger:   logger,
	}
}

// Start schedules the maintenance job and blocks until ctx is done.
func (s *MaintenanceService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.location))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: pruning daily activities")
		s.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("add maintenance job: %w", err)
	}

	c.Start()
	s.logger.Info("maintenance scheduler started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	s.logger.Info("maintenance scheduler stopped")
	return nil
}

// RunOnce prunes every open device and returns the number of removed activities.
func (s *MaintenanceService) RunOnce() int {
	pruners := s.source.ActivityPruners()

	removed := 0
	for _, p := range pruners {
		removed += p.PruneActivities()
	}

	s.logger.Info("daily activities pruned",
		zap.Int("devices", len(pruners)),
		zap.Int("removed", removed),
	)
	return removed
}
