package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"
	"BrandPulseSaas/internal/checksum"
	"BrandPulseSaas/internal/config"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var uploadRegistry = checksum.NewRegistry()

// uploadRow is one parsed line of an uploaded sheet. Day 0 means a monthly
// cell.
type uploadRow struct {
	KpiID string
	Month int
	Day   int
	Value string
}

// UploadReportCells ingests a csv, xlsx or legacy xls sheet of cell values
// and writes each row as the caller's own contribution. Expected columns:
// kpi_id, month, day (blank for monthly), value. A file already accepted by
// this process is rejected as a duplicate.
func UploadReportCells(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseMultipartForm(config.UploadMaxMemoryBytes); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}
		userID := r.FormValue("user_id")
		brandID := r.FormValue("brand_id")
		year, err := strconv.Atoi(r.FormValue("year"))
		if err != nil || year < 2000 || year > 2100 {
			api.RespondWithResult(w, false, constants.ErrInvalidPeriod)
			return
		}
		if !api.CtxHasBrand(ctx, brandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithResult(w, false, "file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidRequestBody)
			return
		}

		sum, fresh := uploadRegistry.Accept(data)
		if !fresh {
			api.RespondWithResult(w, false, constants.ErrUploadDuplicate)
			return
		}

		var parsed []uploadRow
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".csv":
			parsed, err = parseCsvUpload(data)
		case ".xlsx":
			parsed, err = parseXlsxUpload(data)
		case ".xls":
			parsed, err = parseXlsUpload(data)
		default:
			uploadRegistry.Forget(sum)
			api.RespondWithResult(w, false, constants.ErrUploadUnsupported)
			return
		}
		if err != nil {
			uploadRegistry.Forget(sum)
			api.LogError("upload: parse %s: %v", header.Filename, err)
			api.RespondWithResult(w, false, "Could not parse file: "+err.Error())
			return
		}
		if len(parsed) == 0 {
			uploadRegistry.Forget(sum)
			api.RespondWithResult(w, false, "No data rows in file")
			return
		}

		results := make([]map[string]interface{}, 0, len(parsed))
		for _, chunk := range uploadChunks(parsed, config.UploadBatchSize) {
			batch := make([]engine.RawCellRow, 0, len(chunk))
			batchIdx := make([]int, 0, len(chunk))
			for _, row := range chunk {
				res := map[string]interface{}{
					"kpi_id": row.KpiID, "month": row.Month, "day": row.Day,
				}
				if !validPeriod(year, row.Month, row.Day) || row.KpiID == "" {
					res["success"] = false
					res["error"] = constants.ErrInvalidPeriod
					results = append(results, res)
					continue
				}
				batchIdx = append(batchIdx, len(results))
				results = append(results, res)
				batch = append(batch, engine.RawCellRow{
					CellKey: engine.CellKey{
						BrandID: brandID,
						KpiID:   row.KpiID,
						Period:  engine.Period{Year: year, Month: row.Month, Day: row.Day},
					},
					UserID: userID,
					Value:  row.Value,
				})
			}

			for i, err := range eng.UpsertCells(ctx, batch) {
				res := results[batchIdx[i]]
				res["success"] = err == nil
				if err != nil {
					api.LogError("upload: kpi %s month %d: %v", batch[i].KpiID, batch[i].Month, err)
					res["error"] = err.Error()
				}
			}
		}

		ok := api.IsBulkSuccess(results)
		if !ok {
			// partial imports may be corrected and re-sent
			uploadRegistry.Forget(sum)
		}
		api.RespondWithPayload(w, ok, "", results)
	}
}

// uploadChunks splits parsed rows into store-batch sized slices, order
// preserved.
func uploadChunks(rows []uploadRow, size int) [][]uploadRow {
	if size <= 0 {
		size = len(rows)
	}
	var out [][]uploadRow
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// uploadRowsFromCells converts raw sheet rows into uploadRows, skipping the
// header line and fully blank rows.
func uploadRowsFromCells(records [][]string) []uploadRow {
	var out []uploadRow
	for i, rec := range records {
		if i == 0 || len(rec) < 4 {
			continue
		}
		kpiID := strings.TrimSpace(rec[0])
		value := strings.TrimSpace(rec[3])
		if kpiID == "" && value == "" {
			continue
		}
		month, _ := strconv.Atoi(strings.TrimSpace(rec[1]))
		day := 0
		if d := strings.TrimSpace(rec[2]); d != "" {
			day, _ = strconv.Atoi(d)
		}
		out = append(out, uploadRow{KpiID: kpiID, Month: month, Day: day, Value: value})
	}
	return out
}

func parseCsvUpload(data []byte) ([]uploadRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return uploadRowsFromCells(records), nil
}

func parseXlsxUpload(data []byte) ([]uploadRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return uploadRowsFromCells(rows), nil
}

func parseXlsUpload(data []byte) ([]uploadRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}
	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		rec := make([]string, 0, 4)
		for j := 0; j < 4; j++ {
			rec = append(rec, row.Col(j))
		}
		records = append(records, rec)
	}
	return uploadRowsFromCells(records), nil
}
