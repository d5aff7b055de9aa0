// Package parquetio persists sales rankings as Parquet. Each ranking is one
// directory holding a single part file with a single row group, which pins
// row order: readers walking file order see the rows exactly as ranked.
package parquetio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// partFile is the single data file written into a ranking directory.
const partFile = "part-00000.parquet"

// RankingRow is the on-disk shape of one ranking entry. Per-column Parquet
// types are preserved: UTF8 for the name, DOUBLE for the total.
type RankingRow struct {
	Name       string  `parquet:"name"`
	TotalSales float64 `parquet:"total_sales"`
}

// WriteRanking writes rows to dir in overwrite mode: any prior contents at
// the path are replaced. Rows are written in the given (ranked) order.
func WriteRanking(dir string, rows []RankingRow) error {
	if dir == "" {
		return fmt.Errorf("parquetio: output dir must not be empty")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("parquetio: clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("parquetio: mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, partFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquetio: create %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[RankingRow](f)
	if _, err := w.Write(rows); err != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("parquetio: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("parquetio: close writer %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("parquetio: close %s: %w", path, err)
	}
	return nil
}

// ReadRanking reads the part file back in file row order.
func ReadRanking(dir string) ([]RankingRow, error) {
	path := filepath.Join(dir, partFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parquetio: open %s: %w", path, err)
	}
	defer f.Close()

	r := parquet.NewGenericReader[RankingRow](f)
	defer r.Close()

	var out []RankingRow
	buf := make([]RankingRow, 64)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parquetio: read %s: %w", path, err)
		}
	}
	return out, nil
}
