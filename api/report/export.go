package report

import (
	"encoding/json"
	"fmt"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"

	"github.com/xuri/excelize/v2"
)

var exportMonthHeaders = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ExportReportGrid streams the resolved grid for one brand and year as an
// xlsx workbook. Cells without data stay blank; a KPI with a broken
// definition exports its error text in place of values.
func ExportReportGrid(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
			Year    int    `json:"year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if req.Year < 2000 || req.Year > 2100 {
			api.RespondWithResult(w, false, constants.ErrInvalidPeriod)
			return
		}

		defs, err := eng.Store.SelectKpiDefinitions(ctx)
		if err != nil {
			api.LogError("export: load definitions: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := "Report"
		f.SetSheetName("Sheet1", sheet)

		header := append([]string{"KPI", "Category", "Unit"}, exportMonthHeaders...)
		header = append(header, "YTD", "Target", "Progress %")
		for i, h := range header {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		kpiIDs := make([]string, 0, len(defs))
		for _, d := range defs {
			kpiIDs = append(kpiIDs, d.KpiID)
		}
		if _, err := eng.Cells.FetchReconciledRange(ctx, engine.CellFilter{
			BrandID: req.BrandID,
			KpiIDs:  kpiIDs,
			Year:    req.Year,
		}); err != nil {
			api.LogError("export: warm cells: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}

		rowIdx := 2
		for _, def := range defs {
			row, err := buildGridRow(ctx, eng, req.BrandID, def, req.Year)
			if err != nil {
				api.LogError("export: kpi %s: %v", def.KpiID, err)
				api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
				return
			}

			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), def.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), def.Category)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), def.Unit)

			if row.Error != "" {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), row.Error)
				rowIdx++
				continue
			}
			for m, v := range row.Months {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(4+m, rowIdx)
				f.SetCellValue(sheet, cell, *v)
			}
			if row.Ytd != nil {
				cell, _ := excelize.CoordinatesToCellName(16, rowIdx)
				f.SetCellValue(sheet, cell, *row.Ytd)
			}
			if row.Target != nil {
				cell, _ := excelize.CoordinatesToCellName(17, rowIdx)
				f.SetCellValue(sheet, cell, *row.Target)
			}
			if row.Progress.Percent != nil {
				cell, _ := excelize.CoordinatesToCellName(18, rowIdx)
				f.SetCellValue(sheet, cell, *row.Progress.Percent)
			}
			rowIdx++
		}

		filename := fmt.Sprintf("kpi_report_%s_%d.xlsx", req.BrandID, req.Year)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := f.Write(w); err != nil {
			api.LogError("export: write workbook: %v", err)
		}
	}
}
