package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// maxIdentLen caps normalized header length so generated column names stay
// valid identifiers for every supported database dialect.
const maxIdentLen = 63

// accentStripper decomposes to NFD, drops combining marks, and recomposes.
// "Kategorie výrobku" normalizes the same as "Kategorie vyrobku".
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeaders produces canonical snake_case column names from raw header
// cells: BOM stripped from the first cell, accents removed, lowercased, runs
// of non [a-z0-9] collapsed to single underscores, truncated to maxIdentLen.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = normalizeIdent(c)
	}
	return res
}

// normalizeIdent converts one header cell into a safe identifier.
func normalizeIdent(s string) string {
	if folded, _, err := transform.String(accentStripper, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "_")
	if len(out) > maxIdentLen {
		out = strings.TrimRight(out[:maxIdentLen], "_")
	}
	return out
}
