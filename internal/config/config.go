// Package config defines the canonical, JSON-serializable configuration model
// for the retail analytics pipeline. It is intentionally small, explicit, and
// dependency-free: run files are decoded with the standard library, and a
// fixed set of environment variables override the file so credentials never
// live in code or in checked-in configs.
//
// Example (trimmed):
//
//	{
//	  "job":    "retail_analytics",
//	  "data":   { "dir": "testdata/retail", "orders": "orders.csv", ... },
//	  "engine": { "workers": 4 },
//	  "locale": "cs",
//	  "sinks": {
//	    "product_sales_dir":  "out/product_sales",
//	    "category_sales_dir": "out/category_sales",
//	    "db": { "kind": "postgres", "table": "public.retail_sales_wide",
//	            "auto_create_table": true, "batch_size": 5000 }
//	  }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Pipeline describes one full analytics run. It is the top-level object
// decoded from a run file.
type Pipeline struct {
	// Job identifies the run for logging and metrics labeling.
	Job string `json:"job"`

	// Data locates the six source files.
	Data DataConfig `json:"data"`

	// Engine controls the in-process execution context.
	Engine EngineConfig `json:"engine"`

	// Locale selects the translation catalog for the report sentences.
	// Empty means the built-in default ("cs").
	Locale string `json:"locale"`

	// Sinks configures where results are persisted.
	Sinks SinksConfig `json:"sinks"`
}

// DataConfig names the input directory and the six files within it. File
// fields left empty fall back to the canonical names.
type DataConfig struct {
	Dir         string `json:"dir"`
	Orders      string `json:"orders"`
	OrderItems  string `json:"order_items"`
	Products    string `json:"products"`
	Customers   string `json:"customers"`
	Categories  string `json:"categories"`
	Departments string `json:"departments"`
}

// Path resolves a dataset file against the data directory.
func (d DataConfig) Path(file string) string {
	return filepath.Join(d.Dir, file)
}

// EngineConfig controls the execution context shared by all stages.
type EngineConfig struct {
	// Workers bounds the engine's parallelism. Zero means one worker per CPU.
	Workers int `json:"workers"`
}

// SinksConfig configures the persistence stage.
type SinksConfig struct {
	// ProductSalesDir receives the product ranking as Parquet (overwrite).
	ProductSalesDir string `json:"product_sales_dir"`

	// CategorySalesDir receives the category ranking as Parquet (overwrite).
	CategorySalesDir string `json:"category_sales_dir"`

	// DB configures the relational sink for the unified wide table. An empty
	// Kind disables the sink.
	DB DBConfig `json:"db"`
}

// DBConfig configures the relational sink.
type DBConfig struct {
	// Kind selects the registered backend: "postgres", "mssql", or "sqlite".
	Kind string `json:"kind"`

	// DSN is the backend connection string. Prefer supplying it via the
	// RETAIL_DB_DSN environment variable; it carries credentials.
	DSN string `json:"dsn"`

	// Table is the target table name (e.g., "public.retail_sales_wide").
	// The table is replaced on every run.
	Table string `json:"table"`

	// AutoCreateTable drops and recreates the target table from the wide
	// table's inferred column types before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize is the number of rows per bulk-insert batch.
	BatchSize int `json:"batch_size"`
}

// Defaults applied by Load for fields the run file leaves empty.
const (
	DefaultLocale    = "cs"
	DefaultBatchSize = 5000
)

// Load decodes a run file, applies defaults, and applies environment
// overrides (environment wins over file).
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	ApplyDefaults(&p)
	ApplyEnv(&p)
	return p, nil
}

// ApplyDefaults fills canonical file names, locale, and batch size for
// fields left empty by the run file.
func ApplyDefaults(p *Pipeline) {
	def := func(field *string, name string) {
		if *field == "" {
			*field = name
		}
	}
	def(&p.Data.Orders, "orders.csv")
	def(&p.Data.OrderItems, "order_items.csv")
	def(&p.Data.Products, "products.csv")
	def(&p.Data.Customers, "customers.csv")
	def(&p.Data.Categories, "categories.csv")
	def(&p.Data.Departments, "departments.csv")
	def(&p.Locale, DefaultLocale)
	if p.Sinks.DB.BatchSize <= 0 {
		p.Sinks.DB.BatchSize = DefaultBatchSize
	}
}

// Environment variable names recognized by ApplyEnv.
const (
	EnvDataDir = "RETAIL_DATA_DIR"
	EnvWorkers = "RETAIL_WORKERS"
	EnvDBKind  = "RETAIL_DB_KIND"
	EnvDBDSN   = "RETAIL_DB_DSN"
	EnvDBTable = "RETAIL_DB_TABLE"
)

// ApplyEnv overlays the recognized environment variables onto p. A variable
// that is set but empty is ignored.
func ApplyEnv(p *Pipeline) {
	if v := os.Getenv(EnvDataDir); v != "" {
		p.Data.Dir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Engine.Workers = n
		}
	}
	if v := os.Getenv(EnvDBKind); v != "" {
		p.Sinks.DB.Kind = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		p.Sinks.DB.DSN = v
	}
	if v := os.Getenv(EnvDBTable); v != "" {
		p.Sinks.DB.Table = v
	}
}
