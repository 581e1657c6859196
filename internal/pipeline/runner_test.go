package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func monthly(periods ...string) []MonthlyFile {
	files := make([]MonthlyFile, len(periods))
	for i, p := range periods {
		files[i] = MonthlyFile{Name: "tlc_uber_" + p + ".parquet", Period: p}
	}
	return files
}

func TestRunIsolatesFileFailures(t *testing.T) {
	files := monthly("2019-01", "2019-02", "2019-03")

	summary := Run(context.Background(), files, 1, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		if f.Period == "2019-02" {
			return FileStats{}, errors.New("corrupt footer")
		}
		return FileStats{RowsIn: 100, RowsOut: 90}, nil
	})

	assert.Equal(t, 2, summary.FilesOK)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.Equal(t, 200, summary.RowsIn)
	assert.Equal(t, 180, summary.RowsOut)
	assert.True(t, summary.Succeeded())
}

func TestRunFailsOnlyWhenNothingSucceeded(t *testing.T) {
	summary := Run(context.Background(), monthly("2019-01"), 1, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		return FileStats{}, errors.New("unreadable")
	})
	assert.False(t, summary.Succeeded())

	empty := Run(context.Background(), nil, 1, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		return FileStats{}, nil
	})
	assert.False(t, empty.Succeeded())
}

func TestRunSingleWorkerPreservesOrder(t *testing.T) {
	files := monthly("2019-01", "2019-02", "2020-01", "2020-02")

	var seen []string
	Run(context.Background(), files, 1, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		seen = append(seen, f.Period)
		return FileStats{}, nil
	})

	assert.Equal(t, []string{"2019-01", "2019-02", "2020-01", "2020-02"}, seen)
}

func TestRunParallelProcessesAllFiles(t *testing.T) {
	files := monthly("2019-01", "2019-02", "2019-03", "2019-04", "2019-05", "2019-06")

	var mu sync.Mutex
	seen := make(map[string]bool)
	summary := Run(context.Background(), files, 4, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		mu.Lock()
		seen[f.Period] = true
		mu.Unlock()
		return FileStats{RowsIn: 1, RowsOut: 1}, nil
	})

	assert.Equal(t, 6, summary.FilesOK)
	assert.Len(t, seen, 6)
}

func TestRunStopsSchedulingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	files := monthly("2019-01", "2019-02", "2019-03")

	var count int
	summary := Run(ctx, files, 1, nil, func(ctx context.Context, f MonthlyFile) (FileStats, error) {
		count++
		cancel()
		return FileStats{RowsIn: 1, RowsOut: 1}, nil
	})

	assert.Equal(t, 1, count, "cancellation after the first file stops the rest")
	assert.Equal(t, 1, summary.FilesOK)
}
