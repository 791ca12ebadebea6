package master

import (
	"log"
	"net/http"

	"BrandPulseSaas/api/middlewares"
	"BrandPulseSaas/internal/config"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartMasterService serves the KPI and brand master endpoints. Every route
// sits behind the prevalidation middleware.
func StartMasterService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	prevalidate := middlewares.PreValidationMiddleware(pool)

	router.HandleFunc("/master/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from Master Service"))
	})

	// KPI definitions
	router.Handle("/master/kpi/create", prevalidate(CreateKpiMaster(pool))).Methods("POST")
	router.Handle("/master/kpi/update", prevalidate(UpdateKpiMaster(pool))).Methods("POST")
	router.Handle("/master/kpi/delete", prevalidate(DeleteKpiMaster(pool))).Methods("POST")
	router.Handle("/master/kpi/get", prevalidate(GetKpiMaster(pool))).Methods("POST")

	// brands and access
	router.Handle("/master/brand/create", prevalidate(CreateBrandMaster(pool))).Methods("POST")
	router.Handle("/master/brand/update", prevalidate(UpdateBrandMaster(pool))).Methods("POST")
	router.Handle("/master/brand/delete", prevalidate(DeleteBrandMaster(pool))).Methods("POST")
	router.Handle("/master/brand/get", prevalidate(GetBrandMaster(pool))).Methods("POST")
	router.Handle("/master/brand/access/grant", prevalidate(GrantBrandAccess(pool))).Methods("POST")
	router.Handle("/master/brand/access/revoke", prevalidate(RevokeBrandAccess(pool))).Methods("POST")

	log.Println("Master Service started on " + config.MasterPort)
	if err := http.ListenAndServe(config.MasterPort, router); err != nil {
		log.Fatalf("Master Service failed: %v", err)
	}
}
