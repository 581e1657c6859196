// Package sample draws reproducible random subsets of processed monthly
// files and groups the output by a configurable partition key, flushing
// completed groups to disk so the buffer never holds more than one group.
package sample

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/features"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
)

// Partition modes. They decide when the engine's buffer is flushed: never
// (until the run ends), on a year boundary, or after every file.
const (
	ModeSingle  = "single"
	ModeYearly  = "yearly"
	ModeMonthly = "monthly"
)

// ExtractPeriod parses the year and year-month tokens from a monthly file
// name such as "tlc_uber_2019-01.parquet".
func ExtractPeriod(filename string) (year, yearMonth string, err error) {
	base := strings.TrimSuffix(filepath.Base(filename), ".parquet")
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return "", "", fmt.Errorf("no period token in file name %q", filename)
	}
	token := base[idx+1:]
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", "", fmt.Errorf("malformed period token %q in file name %q", token, filename)
	}
	return parts[0], token, nil
}

// Draw returns a deterministic random subset of rows: round(fraction*n)
// distinct rows in their original order. The same rows and seed always
// reproduce the same subset; the input is never mutated.
func Draw[T any](rows []T, fraction float64, seed int64) []T {
	n := len(rows)
	k := int(math.Round(fraction * float64(n)))
	if k <= 0 {
		return nil
	}
	if k >= n {
		out := make([]T, n)
		copy(out, rows)
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(n)[:k]
	sort.Ints(picked)

	out := make([]T, 0, k)
	for _, idx := range picked {
		out = append(out, rows[idx])
	}
	return out
}

// Engine buffers successive files' subsets and flushes whenever the partition
// key changes. Files must arrive in chronological order for yearly grouping
// to produce one output per year.
type Engine struct {
	mode     string
	fraction float64
	seed     int64
	outDir   string
	logger   *slog.Logger

	buffer     []features.EnrichedTrip
	currentKey string

	rowsIn  int
	rowsOut int
	outputs []string
}

// NewEngine creates a sampling engine writing under outDir. A nil logger
// falls back to slog.Default.
func NewEngine(mode string, fraction float64, seed int64, outDir string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{mode: mode, fraction: fraction, seed: seed, outDir: outDir, logger: logger}
}

// AddFile draws this file's subset and routes it through the buffer state
// machine. It returns how many rows the draw kept.
func (e *Engine) AddFile(path string, rows []features.EnrichedTrip) (int, error) {
	year, yearMonth, err := ExtractPeriod(path)
	if err != nil {
		return 0, err
	}

	key := yearMonth
	switch e.mode {
	case ModeYearly:
		key = year
	case ModeSingle:
		key = "full"
	}

	subset := Draw(rows, e.fraction, e.seed)
	e.rowsIn += len(rows)
	e.rowsOut += len(subset)

	e.logger.Debug("file sampled",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows_in", len(rows)),
		slog.Int("rows_out", len(subset)),
	)

	if e.currentKey == "" {
		e.currentKey = key
	}

	if e.mode == ModeMonthly {
		e.currentKey = key
		e.buffer = append(e.buffer, subset...)
		return len(subset), e.Flush()
	}

	if e.mode == ModeYearly && key != e.currentKey {
		e.logger.Info("year transition",
			slog.String("from", e.currentKey),
			slog.String("to", key),
		)
		if err := e.Flush(); err != nil {
			return len(subset), err
		}
		e.currentKey = key
	}

	e.buffer = append(e.buffer, subset...)
	return len(subset), nil
}

// Flush persists the current buffer as one sample file and clears it. An
// empty buffer is a no-op, so the terminal flush at end-of-run is safe to
// call unconditionally.
func (e *Engine) Flush() error {
	if len(e.buffer) == 0 {
		return nil
	}

	path := filepath.Join(e.outDir, fmt.Sprintf("tlc_sample_%s.parquet", e.currentKey))
	if err := parquetio.WriteAll(path, e.buffer); err != nil {
		return err
	}

	e.logger.Info("sample group flushed",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", len(e.buffer)),
	)

	e.outputs = append(e.outputs, path)
	e.buffer = nil
	return nil
}

// Outputs lists the sample files written so far, in write order.
func (e *Engine) Outputs() []string { return e.outputs }

// RowsIn reports the total rows offered to the sampler.
func (e *Engine) RowsIn() int { return e.rowsIn }

// RowsOut reports the total rows kept across all draws.
func (e *Engine) RowsOut() int { return e.rowsOut }
