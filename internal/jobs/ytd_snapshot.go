package jobs

import (
	"context"
	"fmt"
	"time"

	"BrandPulseSaas/api/report/engine"
	"BrandPulseSaas/internal/config"
	"BrandPulseSaas/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type SnapshotConfig struct {
	Schedule string
	TimeZone string
}

func NewDefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Schedule: config.DefaultSnapshotSchedule,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunYtdSnapshotScheduler schedules the nightly job that materializes the
// year-to-date figure of every (brand, kpi) into kpi_ytd_snapshots. The
// snapshot table feeds trend views without recomputing a year of months per
// request; the live endpoints always resolve fresh.
func RunYtdSnapshotScheduler(cfg SnapshotConfig, pool *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultSnapshotSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for YTD snapshot job: %v", err)
	}

	eng := engine.New(pool)

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Running YTD snapshot job at %s", time.Now().In(loc)))
		if err := snapshotAllBrands(context.Background(), eng, pool, time.Now().In(loc)); err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("YTD snapshot job failed: %v", err))
			return
		}
		logger.GlobalLogger.LogAudit("YTD snapshot job completed at " + time.Now().In(loc).String())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule YTD snapshot job: %v", err)
	}

	c.Start()
	logger.GlobalLogger.LogAudit("YTD Snapshot Job scheduled for " + cfg.Schedule + " (" + cfg.TimeZone + ")")
	return nil
}

func snapshotAllBrands(ctx context.Context, eng *engine.Engine, pool *pgxpool.Pool, now time.Time) error {
	year := now.Year()

	brands, err := liveBrandIDs(ctx, pool)
	if err != nil {
		return err
	}
	defs, err := eng.Store.SelectKpiDefinitions(ctx)
	if err != nil {
		return err
	}

	// stale cache entries from yesterday must not leak into the snapshot
	eng.Cells.Flush()

	for _, brandID := range brands {
		for _, def := range defs {
			ytd, err := eng.Ytd.AggregateYtd(ctx, brandID, def.KpiID, year)
			if err != nil {
				// a misconfigured KPI skips its snapshot, the sweep goes on
				logger.GlobalLogger.LogAudit(fmt.Sprintf("YTD snapshot skipped brand=%s kpi=%s: %v", brandID, def.KpiID, err))
				continue
			}
			if _, err := pool.Exec(ctx, `
				INSERT INTO kpi_ytd_snapshots (brand_id, kpi_id, year, as_of, ytd_value)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (brand_id, kpi_id, year, as_of)
				DO UPDATE SET ytd_value = EXCLUDED.ytd_value
			`, brandID, def.KpiID, year, now.Format("2006-01-02"), ytd); err != nil {
				return fmt.Errorf("write snapshot brand=%s kpi=%s: %v", brandID, def.KpiID, err)
			}
		}
	}
	return nil
}

func liveBrandIDs(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT brand_id FROM masterbrand WHERE COALESCE(is_deleted, false) = false`)
	if err != nil {
		return nil, fmt.Errorf("select brands: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan brands: %v", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
