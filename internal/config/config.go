package config

const (
	DefaultTimeZone = "Europe/Berlin"

	// Service ports behind the gateway
	GatewayPort = ":8081"
	ReportPort  = ":4143"
	MasterPort  = ":5143"

	// Cron defaults
	DefaultSnapshotSchedule   = "0 2 * * *"    // nightly YTD snapshots
	DefaultCacheSweepSchedule = "*/15 * * * *" // reconciliation cache flush

	// Bulk upload limits
	UploadMaxMemoryBytes = 32 << 20
	UploadBatchSize      = 500
)
