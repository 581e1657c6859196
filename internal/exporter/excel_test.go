package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSheetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executive.xlsx")
	w := NewExcelWriter(nil)

	err := w.WriteSheet(path, "Executive Daily",
		[]string{"date", "total_trips", "total_fare_revenue"},
		[][]string{
			{"2023-01-01", "120", "3456.78"},
			{"2023-01-02", "98", "2901.10"},
		})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Executive Daily"}, f.GetSheetList())

	rows, err := f.GetRows("Executive Daily")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "total_trips", "total_fare_revenue"}, rows[0])
	assert.Equal(t, []string{"2023-01-02", "98", "2901.10"}, rows[2])
}
