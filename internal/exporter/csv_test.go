package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	w := NewCSVWriter(nil)

	err := w.WriteSimpleCSV(path,
		[]string{"date", "total_trips"},
		[][]string{
			{"2023-01-01", "120"},
			{"2023-01-02", "98"},
		})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,total_trips\n2023-01-01,120\n2023-01-02,98\n", string(data))
}

func TestWriteCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w := NewCSVWriter(nil)

	err := w.WriteCSV(path, WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestAppendSkipsHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteSimpleCSV(path, []string{"a"}, [][]string{{"1"}}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", string(data))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "13.40", FormatFloat(13.4))
	assert.Equal(t, "42", FormatInt(42))
	assert.Equal(t, "", FormatOptionalFloat(nil))
	v := 2.5
	assert.Equal(t, "2.50", FormatOptionalFloat(&v))
	assert.Equal(t, "0.3333333333333333", FormatFloatFull(1.0/3.0))
}
