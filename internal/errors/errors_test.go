package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefDataErrorWrapping(t *testing.T) {
	cause := fs.ErrNotExist
	err := NewRefDataError("taxi_zones.csv", cause)

	assert.Contains(t, err.Error(), "taxi_zones.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileErrorWrapping(t *testing.T) {
	cause := errors.New("corrupt footer")
	err := NewFileError("tlc_uber_2019-01.parquet", cause)

	assert.Contains(t, err.Error(), "tlc_uber_2019-01.parquet")
	assert.Contains(t, err.Error(), "corrupt footer")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("tlc_uber_2020-03.parquet", "pickup_datetime")
	assert.Contains(t, err.Error(), `"pickup_datetime"`)
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"ref data", NewRefDataError("weather.csv", errors.New("bad header")), true},
		{"wrapped ref data", fmt.Errorf("load: %w", NewRefDataError("weather.csv", errors.New("x"))), true},
		{"file error", NewFileError("a.parquet", errors.New("x")), false},
		{"schema error", NewSchemaError("a.parquet", "tips"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	require.True(t, IsRecoverable(NewFileError("a.parquet", errors.New("x"))))
	require.True(t, IsRecoverable(NewSchemaError("a.parquet", "tips")))
	require.False(t, IsRecoverable(NewRefDataError("zones.csv", errors.New("x"))))
	require.False(t, IsRecoverable(errors.New("boom")))
}
