package report

import (
	"BrandPulseSaas/api/report/engine"
	"BrandPulseSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewReportService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &ReportService{config: cfg, pool: pool}
}

func (s *ReportService) Name() string {
	return "report"
}

func (s *ReportService) Start() error {
	go StartReportService(s.pool)
	return nil
}

func (s *ReportService) Stop() error {
	// http server shuts down with the process
	return nil
}

var reportEngine *engine.Engine

// FlushReconciliationCache empties the running report service's reconciled
// cell cache. The cron sweeper calls this so a long-lived process converges
// after writes from other replicas.
func FlushReconciliationCache() {
	if reportEngine != nil {
		reportEngine.Cells.Flush()
	}
}
