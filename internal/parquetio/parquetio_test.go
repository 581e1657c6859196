package parquetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Value float64 `parquet:"value,optional"`
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rows.parquet")
	in := []sampleRow{
		{ID: 1, Name: "alpha", Value: 0.5},
		{ID: 2, Name: "beta"},
	}

	require.NoError(t, WriteAll(path, in))

	out, err := ReadAll[sampleRow](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestColumnsAndRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, WriteAll(path, []sampleRow{{ID: 7, Name: "x"}}))

	cols, err := Columns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "value"}, cols)

	n, err := RowCount(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEmptyWriteProducesReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteAll(path, []sampleRow{}))

	out, err := ReadAll[sampleRow](path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReadAllMissingFile(t *testing.T) {
	_, err := ReadAll[sampleRow](filepath.Join(t.TempDir(), "absent.parquet"))
	assert.Error(t, err)
}
