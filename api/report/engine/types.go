package engine

import (
	"errors"
	"fmt"
	"time"
)

// Calculation strategies stored in masterkpi.calculation_type
const (
	CalcDirect     = "direct"
	CalcPercentage = "percentage"
	CalcTarget     = "target"
)

// Year-to-date aggregation modes stored in masterkpi.ytd_calc
const (
	YtdSum     = "sum"
	YtdAverage = "average"
)

// ErrStoreUnavailable wraps every storage-layer failure so callers can
// distinguish an outage from an empty cell (which is never an error).
var ErrStoreUnavailable = errors.New("report store unavailable")

// DefinitionError marks a KPI whose definition cannot be resolved, e.g. a
// percentage KPI with a missing operand. It is fatal for that KPI only;
// sibling KPIs in the same batch keep resolving.
type DefinitionError struct {
	KpiID  string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("kpi %s: %s", e.KpiID, e.Reason)
}

// Period identifies a reporting period inside a year. Day 0 means a monthly
// cell, Day > 0 a daily cell.
type Period struct {
	Year  int
	Month int
	Day   int
}

// CellKey is the full identity of one reporting cell, excluding the user who
// wrote it. Multiple users may each hold a row for the same key.
type CellKey struct {
	BrandID string
	KpiID   string
	Period
}

// RawCellRow is one contributor's row as stored. Value stays a string until
// coercion; updated_at is the reconciliation tie-break.
type RawCellRow struct {
	CellKey
	UserID    string
	Value     string
	UpdatedAt time.Time
}

// ReconciledCell is the single authoritative value for a cell after
// latest-writer-wins reduction. Absence of a cell is represented by a nil
// *ReconciledCell, never by a zero value.
type ReconciledCell struct {
	Value     float64
	UpdatedAt time.Time
}

// KpiDefinition is the static definition of one KPI from masterkpi.
type KpiDefinition struct {
	KpiID            string   `json:"kpi_id"`
	Name             string   `json:"kpi_name"`
	Category         string   `json:"category"`
	Unit             string   `json:"unit"`
	CalculationType  string   `json:"calculation_type"`
	NumeratorKpiID   *string  `json:"numerator_kpi_id,omitempty"`
	DenominatorKpiID *string  `json:"denominator_kpi_id,omitempty"`
	StaticTarget     *float64 `json:"static_target,omitempty"`
	HasTargetData    bool     `json:"has_target_data"`
	YtdCalc          string   `json:"ytd_calc"`
	OnlyCumulative   bool     `json:"only_cumulative"`
}

// CellFilter selects contributor rows for reconciliation.
// Month 0 means every month of the year. Day 0 selects monthly rows,
// Day > 0 one specific day, DayAll every daily row in range.
type CellFilter struct {
	BrandID string
	KpiIDs  []string
	Year    int
	Month   int
	Day     int
}

// DayAll in CellFilter.Day selects all daily rows of the filtered months.
const DayAll = -1
