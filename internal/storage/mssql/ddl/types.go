package ddl

import "retailetl/internal/frame"

// MapKind maps a frame column kind to its SQL Server column type.
//
//	KindInt64   -> BIGINT
//	KindFloat64 -> FLOAT
//	KindTime    -> DATETIME2
//	KindString  -> NVARCHAR(MAX) (also the fallback)
func MapKind(k frame.Kind) string {
	switch k {
	case frame.KindInt64:
		return "BIGINT"
	case frame.KindFloat64:
		return "FLOAT"
	case frame.KindTime:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
