package ddl

import "retailetl/internal/frame"

// MapKind maps a frame column kind to a SQLite column type. SQLite uses type
// affinity rather than strict types, so the mapping prefers canonical
// affinities:
//
//	KindInt64   -> INTEGER
//	KindFloat64 -> REAL
//	KindTime    -> TIMESTAMP (driver stores time.Time values)
//	KindString  -> TEXT (also the fallback)
func MapKind(k frame.Kind) string {
	switch k {
	case frame.KindInt64:
		return "INTEGER"
	case frame.KindFloat64:
		return "REAL"
	case frame.KindTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
