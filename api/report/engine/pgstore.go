package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the Postgres realization of the generic table store the engine
// runs on. Every failure wraps ErrStoreUnavailable; callers never retry
// writes (an upsert retry could mask write-order issues) and may retry reads.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// SelectCellRows fetches every contributor's row matching the filter, with
// no user_id restriction. Day 0 reads monthly rows, Day > 0 one day, DayAll
// all daily rows of the filtered months.
func (s *PgStore) SelectCellRows(ctx context.Context, f CellFilter) ([]RawCellRow, error) {
	table := "kpi_report_monthly"
	daily := f.Day != 0
	if daily {
		table = "kpi_report_daily"
	}

	cols := "brand_id, kpi_id, year, month, user_id, COALESCE(value, ''), updated_at"
	if daily {
		cols = "brand_id, kpi_id, year, month, day, user_id, COALESCE(value, ''), updated_at"
	}

	query := "SELECT " + cols + " FROM " + table + " WHERE brand_id = $1 AND year = $2"
	args := []interface{}{f.BrandID, f.Year}
	if f.Month > 0 {
		args = append(args, f.Month)
		query += " AND month = $" + strconv.Itoa(len(args))
	}
	if daily && f.Day > 0 {
		args = append(args, f.Day)
		query += " AND day = $" + strconv.Itoa(len(args))
	}
	if len(f.KpiIDs) > 0 {
		args = append(args, f.KpiIDs)
		query += " AND kpi_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	query += " ORDER BY updated_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrStoreUnavailable, table, err)
	}
	defer rows.Close()

	var out []RawCellRow
	for rows.Next() {
		var r RawCellRow
		if daily {
			err = rows.Scan(&r.BrandID, &r.KpiID, &r.Year, &r.Month, &r.Day, &r.UserID, &r.Value, &r.UpdatedAt)
		} else {
			err = rows.Scan(&r.BrandID, &r.KpiID, &r.Year, &r.Month, &r.UserID, &r.Value, &r.UpdatedAt)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStoreUnavailable, table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, table, err)
	}
	return out, nil
}

const upsertDailyCellSQL = `
	INSERT INTO kpi_report_daily (brand_id, kpi_id, year, month, day, user_id, value, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	ON CONFLICT (brand_id, kpi_id, year, month, day, user_id)
	DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

const upsertMonthlyCellSQL = `
	INSERT INTO kpi_report_monthly (brand_id, kpi_id, year, month, user_id, value, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (brand_id, kpi_id, year, month, user_id)
	DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

// UpsertCellRow writes one contributor's row for a cell, overwriting that
// user's previous value for the same key. updated_at is store-assigned.
func (s *PgStore) UpsertCellRow(ctx context.Context, r RawCellRow) error {
	var query string
	var args []interface{}
	if r.Day > 0 {
		query = upsertDailyCellSQL
		args = []interface{}{r.BrandID, r.KpiID, r.Year, r.Month, r.Day, r.UserID, r.Value}
	} else {
		query = upsertMonthlyCellSQL
		args = []interface{}{r.BrandID, r.KpiID, r.Year, r.Month, r.UserID, r.Value}
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert cell: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertCellRows writes many contributor rows in one round trip. The result
// has one entry per input row so bulk callers can report row-level failures.
func (s *PgStore) UpsertCellRows(ctx context.Context, rows []RawCellRow) []error {
	errs := make([]error, len(rows))
	if len(rows) == 0 {
		return errs
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		if r.Day > 0 {
			batch.Queue(upsertDailyCellSQL, r.BrandID, r.KpiID, r.Year, r.Month, r.Day, r.UserID, r.Value)
		} else {
			batch.Queue(upsertMonthlyCellSQL, r.BrandID, r.KpiID, r.Year, r.Month, r.UserID, r.Value)
		}
	}

	br := s.pool.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			errs[i] = fmt.Errorf("%w: upsert cell: %v", ErrStoreUnavailable, err)
		}
	}
	if err := br.Close(); err != nil {
		for i := range errs {
			if errs[i] == nil {
				errs[i] = fmt.Errorf("%w: upsert batch: %v", ErrStoreUnavailable, err)
			}
		}
	}
	return errs
}

// DeleteCellRow removes one user's own row for a cell. A cleared value is a
// deletion, never stored as zero or null.
func (s *PgStore) DeleteCellRow(ctx context.Context, key CellKey, userID string) error {
	var query string
	var args []interface{}
	if key.Day > 0 {
		query = `DELETE FROM kpi_report_daily WHERE brand_id = $1 AND kpi_id = $2 AND year = $3 AND month = $4 AND day = $5 AND user_id = $6`
		args = []interface{}{key.BrandID, key.KpiID, key.Year, key.Month, key.Day, userID}
	} else {
		query = `DELETE FROM kpi_report_monthly WHERE brand_id = $1 AND kpi_id = $2 AND year = $3 AND month = $4 AND user_id = $5`
		args = []interface{}{key.BrandID, key.KpiID, key.Year, key.Month, userID}
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: delete cell: %v", ErrStoreUnavailable, err)
	}
	return nil
}

const kpiDefinitionCols = `
	kpi_id,
	kpi_name,
	COALESCE(category, ''),
	COALESCE(unit, ''),
	calculation_type,
	numerator_kpi_id,
	denominator_kpi_id,
	static_target,
	COALESCE(has_target_data, false),
	COALESCE(ytd_calc, 'sum'),
	COALESCE(only_cumulative, false)
`

// SelectKpiDefinition looks up one KPI. A missing or deleted KPI returns
// (nil, nil); the resolver turns that into a DefinitionError.
func (s *PgStore) SelectKpiDefinition(ctx context.Context, kpiID string) (*KpiDefinition, error) {
	query := `SELECT ` + kpiDefinitionCols + ` FROM masterkpi WHERE kpi_id = $1 AND COALESCE(is_deleted, false) = false`
	var d KpiDefinition
	err := s.pool.QueryRow(ctx, query, kpiID).Scan(
		&d.KpiID, &d.Name, &d.Category, &d.Unit, &d.CalculationType,
		&d.NumeratorKpiID, &d.DenominatorKpiID, &d.StaticTarget,
		&d.HasTargetData, &d.YtdCalc, &d.OnlyCumulative,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select masterkpi: %v", ErrStoreUnavailable, err)
	}
	return &d, nil
}

// SelectKpiDefinitions returns every live KPI, ordered for display.
func (s *PgStore) SelectKpiDefinitions(ctx context.Context) ([]KpiDefinition, error) {
	query := `SELECT ` + kpiDefinitionCols + ` FROM masterkpi WHERE COALESCE(is_deleted, false) = false ORDER BY category, kpi_name`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select masterkpi: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []KpiDefinition
	for rows.Next() {
		var d KpiDefinition
		if err := rows.Scan(
			&d.KpiID, &d.Name, &d.Category, &d.Unit, &d.CalculationType,
			&d.NumeratorKpiID, &d.DenominatorKpiID, &d.StaticTarget,
			&d.HasTargetData, &d.YtdCalc, &d.OnlyCumulative,
		); err != nil {
			return nil, fmt.Errorf("%w: scan masterkpi: %v", ErrStoreUnavailable, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read masterkpi: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

// SelectTarget returns the yearly target row for (brand, kpi, year), nil
// when none exists.
func (s *PgStore) SelectTarget(ctx context.Context, brandID, kpiID string, year int) (*float64, error) {
	var target float64
	err := s.pool.QueryRow(ctx,
		`SELECT target FROM kpi_targets WHERE brand_id = $1 AND kpi_id = $2 AND year = $3`,
		brandID, kpiID, year,
	).Scan(&target)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select kpi_targets: %v", ErrStoreUnavailable, err)
	}
	return &target, nil
}

// UpsertTarget writes the single target row for (brand, kpi, year).
func (s *PgStore) UpsertTarget(ctx context.Context, brandID, kpiID string, year int, target float64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kpi_targets (brand_id, kpi_id, year, target)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (brand_id, kpi_id, year)
		DO UPDATE SET target = EXCLUDED.target
	`, brandID, kpiID, year, target)
	if err != nil {
		return fmt.Errorf("%w: upsert kpi_targets: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteTarget removes the target row entirely, no tombstone.
func (s *PgStore) DeleteTarget(ctx context.Context, brandID, kpiID string, year int) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM kpi_targets WHERE brand_id = $1 AND kpi_id = $2 AND year = $3`,
		brandID, kpiID, year,
	)
	if err != nil {
		return fmt.Errorf("%w: delete kpi_targets: %v", ErrStoreUnavailable, err)
	}
	return nil
}
