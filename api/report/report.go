package report

import (
	"log"
	"net/http"

	"BrandPulseSaas/api/middlewares"
	"BrandPulseSaas/api/report/engine"
	"BrandPulseSaas/internal/config"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartReportService wires the report routes over one shared engine. Every
// route sits behind the prevalidation middleware, which loads the caller's
// accessible brands into the request context.
func StartReportService(pool *pgxpool.Pool) {
	eng := engine.New(pool)
	reportEngine = eng

	router := mux.NewRouter()
	prevalidate := middlewares.PreValidationMiddleware(pool)

	router.HandleFunc("/report/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Report Service"))
	})

	// cell writes (per-user rows, reconciled on read)
	router.Handle("/report/cells/upsert", prevalidate(UpsertReportCells(eng))).Methods("POST")
	router.Handle("/report/cells/delete", prevalidate(DeleteReportCell(eng))).Methods("POST")

	// derived views
	router.Handle("/report/grid", prevalidate(GetReportGrid(eng))).Methods("POST")
	router.Handle("/report/ytd", prevalidate(GetYtdSummary(eng))).Methods("POST")

	// yearly targets
	router.Handle("/report/targets/get", prevalidate(GetTargets(pool))).Methods("POST")
	router.Handle("/report/targets/upsert", prevalidate(UpsertTarget(eng))).Methods("POST")
	router.Handle("/report/targets/delete", prevalidate(DeleteTarget(eng))).Methods("POST")

	// per-user KPI ordering preference
	router.Handle("/report/ordering/get", prevalidate(GetOrdering(pool))).Methods("POST")
	router.Handle("/report/ordering/save", prevalidate(SaveOrdering(pool))).Methods("POST")

	// bulk in/out
	router.Handle("/report/export", prevalidate(ExportReportGrid(eng))).Methods("POST")
	router.Handle("/report/upload", prevalidate(UploadReportCells(eng))).Methods("POST")

	log.Println("Report Service started on " + config.ReportPort)
	if err := http.ListenAndServe(config.ReportPort, router); err != nil {
		log.Fatalf("Report Service failed: %v", err)
	}
}
