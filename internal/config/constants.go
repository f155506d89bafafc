package config

import "time"

const (
	AppName = "cacases"

	// EnvPrefix namespaces every environment override: CACASES_RUN_LAYOUT.
	EnvPrefix = "CACASES"

	DefaultStartDate  = "2020/03/18"
	DefaultLayout     = "area_type"
	DefaultRegionFile = "configs/ca-region.yaml"
	DefaultOutputDir  = "output"
	DefaultWorkers    = 4

	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRateLimitRPS    = 20
	DefaultRateLimitBurst  = 40

	DefaultLogFile = "logs/cacases.log"
	DefaultStoreDB = "data/cacases.db"
)

// Output file names inside a run directory.
const (
	DataFileExt      = ".data"
	ScriptFileName   = "process.R"
	DateFileName     = "DATE.txt"
	SnapshotFileName = "snapshot.json"
	WorkbookFileName = "frames.xlsx"
	MetricsFileName  = "metrics.prom"
)
