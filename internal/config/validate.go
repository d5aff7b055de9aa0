// Package config provides configuration models and helpers for the retail
// analytics pipeline.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "sinks.db.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateData(p.Data)...)
	issues = append(issues, validateEngine(p.Engine)...)
	issues = append(issues, validateLocale(p.Locale)...)
	issues = append(issues, validateSinks(p.Sinks)...)

	return issues
}

// validateData checks the input directory and the six dataset file names.
func validateData(d DataConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(d.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "data.dir",
			Message:  "data.dir must not be empty",
		})
	}
	files := []struct {
		path string
		name string
	}{
		{"data.orders", d.Orders},
		{"data.order_items", d.OrderItems},
		{"data.products", d.Products},
		{"data.customers", d.Customers},
		{"data.categories", d.Categories},
		{"data.departments", d.Departments},
	}
	for _, f := range files {
		if strings.TrimSpace(f.name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     f.path,
				Message:  "dataset file name must not be empty (run ApplyDefaults or name it explicitly)",
			})
		}
	}
	return issues
}

// validateEngine checks the execution-context settings.
func validateEngine(e EngineConfig) []Issue {
	var issues []Issue
	if e.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "engine.workers",
			Message:  "workers must not be negative",
		})
	}
	return issues
}

// validateLocale checks the report locale code. Unknown codes are warnings
// here; the locale package rejects them authoritatively at run time.
func validateLocale(code string) []Issue {
	var issues []Issue
	known := map[string]struct{}{
		"": {}, "cs": {},
	}
	if _, ok := known[code]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "locale",
			Message:  fmt.Sprintf("unknown locale %q; ensure a matching catalog exists", code),
		})
	}
	return issues
}

// validateSinks checks the Parquet directories and the DB sink settings.
func validateSinks(s SinksConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.ProductSalesDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sinks.product_sales_dir",
			Message:  "no product sales directory; the product ranking will not be persisted",
		})
	}
	if strings.TrimSpace(s.CategorySalesDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sinks.category_sales_dir",
			Message:  "no category sales directory; the category ranking will not be persisted",
		})
	}

	db := s.DB
	if strings.TrimSpace(db.Kind) == "" {
		// DB sink disabled; nothing else to check.
		if strings.TrimSpace(db.DSN) != "" || strings.TrimSpace(db.Table) != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "sinks.db.kind",
				Message:  "db settings present but kind is empty; the relational sink is disabled",
			})
		}
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[db.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sinks.db.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", db.Kind),
		})
	}
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sinks.db.dsn",
			Message:  "sinks.db.dsn must not be empty (set it or export " + EnvDBDSN + ")",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sinks.db.table",
			Message:  "sinks.db.table must not be empty",
		})
	}
	if db.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sinks.db.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; non-positive batch sizes may hurt throughput", db.BatchSize),
		})
	}
	return issues
}
