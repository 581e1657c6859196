// Package parquetio wraps the parquet codec behind small generic helpers so
// the rest of the pipeline deals in typed slices and column names only.
package parquetio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// ReadAll decodes every row of a parquet file into T. Columns absent from the
// file must be tagged optional on T and come back as zero values.
func ReadAll[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet %s: %w", path, err)
	}
	return rows, nil
}

// WriteAll writes rows to path, creating parent directories as needed. An
// empty slice still produces a valid file carrying only the schema.
func WriteAll[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing parquet %s: %w", path, err)
	}
	return nil
}

// Columns returns the leaf column names of a parquet file in schema order,
// without decoding any row data.
func Columns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing parquet footer %s: %w", path, err)
	}

	fields := pf.Schema().Fields()
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name())
	}
	return names, nil
}

// RowCount reads only the footer metadata to report how many rows path holds.
func RowCount(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening parquet %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat parquet %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("parsing parquet footer %s: %w", path, err)
	}
	return pf.NumRows(), nil
}
