// Package ddl contains Postgres-specific helpers for generating DDL from
// typed frame columns.
package ddl

import "retailetl/internal/frame"

// MapKind maps a frame column kind to its Postgres SQL type.
//
//	KindInt64   -> BIGINT
//	KindFloat64 -> DOUBLE PRECISION
//	KindTime    -> TIMESTAMPTZ
//	KindString  -> TEXT (also the fallback)
func MapKind(k frame.Kind) string {
	switch k {
	case frame.KindInt64:
		return "BIGINT"
	case frame.KindFloat64:
		return "DOUBLE PRECISION"
	case frame.KindTime:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
