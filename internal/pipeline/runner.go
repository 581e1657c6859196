package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FileStats is what one file's work function reports back.
type FileStats struct {
	RowsIn  int
	RowsOut int
}

// WorkFunc processes one input file. Errors are isolated to the file; the
// run continues with the rest.
type WorkFunc func(ctx context.Context, file MonthlyFile) (FileStats, error)

// Summary totals one run across all files.
type Summary struct {
	FilesOK     int
	FilesFailed int
	RowsIn      int
	RowsOut     int
	Elapsed     time.Duration
}

// Succeeded reports whether at least one file was processed. A run that
// produced nothing exits non-zero.
func (s Summary) Succeeded() bool {
	return s.FilesOK > 0
}

// Run processes files with up to workers concurrent work functions. With one
// worker, files run strictly in slice order, which order-sensitive consumers
// (yearly sampling) rely on. Cancelling ctx stops scheduling new files but
// lets started ones finish.
func Run(ctx context.Context, files []MonthlyFile, workers int, logger *slog.Logger, fn WorkFunc) Summary {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	var mu sync.Mutex
	summary := Summary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	total := len(files)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		i, file := i, file
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fileStart := time.Now()
			stats, err := fn(gctx, file)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.FilesFailed++
				logger.Error("file skipped",
					slog.String("file", file.Name),
					slog.Int("index", i+1),
					slog.Int("total", total),
					slog.String("error", err.Error()),
				)
				// Per-file failures never abort the run.
				return nil
			}

			summary.FilesOK++
			summary.RowsIn += stats.RowsIn
			summary.RowsOut += stats.RowsOut
			logger.Info("file processed",
				slog.String("file", file.Name),
				slog.Int("index", i+1),
				slog.Int("total", total),
				slog.Int("rows_in", stats.RowsIn),
				slog.Int("rows_out", stats.RowsOut),
				slog.Duration("elapsed", time.Since(fileStart)),
			)
			return nil
		})
	}

	// Work functions swallow their own errors, so Wait only reflects ctx.
	_ = g.Wait()

	summary.Elapsed = time.Since(start)
	logger.Info("run complete",
		slog.Int("files_ok", summary.FilesOK),
		slog.Int("files_failed", summary.FilesFailed),
		slog.Int("rows_in", summary.RowsIn),
		slog.Int("rows_out", summary.RowsOut),
		slog.Duration("elapsed", summary.Elapsed),
	)
	return summary
}
