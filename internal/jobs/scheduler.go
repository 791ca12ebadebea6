package jobs

import (
	"fmt"
	"log"
	"time"

	"BrandPulseSaas/api/report"
	"BrandPulseSaas/internal/config"
	"BrandPulseSaas/internal/logger"
	"BrandPulseSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	snapshotCfg := NewDefaultSnapshotConfig()
	if s.config != nil {
		if schedule, ok := s.config["snapshot_schedule"].(string); ok && schedule != "" {
			snapshotCfg.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			snapshotCfg.TimeZone = tz
		}
	}
	if err := RunYtdSnapshotScheduler(snapshotCfg, s.db); err != nil {
		return fmt.Errorf("failed to start YTD snapshot scheduler: %v", err)
	}
	log.Println("Cron service started — YTD Snapshot scheduled")

	sweepSchedule := config.DefaultCacheSweepSchedule
	if s.config != nil {
		if schedule, ok := s.config["cache_sweep_schedule"].(string); ok && schedule != "" {
			sweepSchedule = schedule
		}
	}
	if err := RunCacheSweep(sweepSchedule, snapshotCfg.TimeZone); err != nil {
		return fmt.Errorf("failed to start cache sweep: %v", err)
	}
	log.Println("Cron service started — Reconciliation Cache Sweep scheduled")

	return nil
}

// RunCacheSweep periodically flushes the report service's reconciliation
// cache. Writes through other replicas of the report service do not
// invalidate this process's cache; the sweep bounds how long a replica can
// serve a superseded winner.
func RunCacheSweep(schedule, timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone for cache sweep: %v", err)
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(schedule, func() {
		report.FlushReconciliationCache()
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Reconciliation cache flushed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %v", err)
	}
	c.Start()
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Reconciliation Cache Sweep scheduled for " + schedule)
	}
	return nil
}

func (s *CronService) Stop() error {
	log.Println("Cron service stopped.")
	return nil
}
