// Command audit scans a directory of monthly trip files, raw, processed or
// sampled, and writes one longitudinal data-quality report with per-column
// statistics and paradox counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/audit"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/config"
	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/infrastructure"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/pipeline"
)

const reportName = "tlc_universal_audit_report.csv"

func main() {
	inDir := flag.String("in", "", "input directory of monthly parquet files (overrides config)")
	outDir := flag.String("out", "", "output directory for the report (overrides config)")
	workers := flag.Int("workers", 0, "concurrent file workers (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger, runID := infrastructure.NewRunLogger(logger)
	logger.Info("starting universal audit",
		slog.String("run_id", runID),
		slog.String("input_dir", cfg.Paths.InputDir),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("run aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !summary.Succeeded() {
		logger.Error("no files audited successfully")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Summary, error) {
	files, err := pipeline.FindMonthlyFiles(cfg.Paths.InputDir)
	if err != nil {
		return pipeline.Summary{}, err
	}
	if len(files) == 0 {
		return pipeline.Summary{}, fmt.Errorf("no monthly parquet files in %s", cfg.Paths.InputDir)
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return pipeline.Summary{}, err
	}

	var mu sync.Mutex
	var rows []audit.Row

	work := func(ctx context.Context, file pipeline.MonthlyFile) (pipeline.FileStats, error) {
		fileRows, err := audit.AuditFile(file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}

		var total int
		for i := range fileRows {
			total += int(fileRows[i].TotalRows)
		}
		mu.Lock()
		rows = append(rows, fileRows...)
		mu.Unlock()
		return pipeline.FileStats{RowsIn: total, RowsOut: len(fileRows)}, nil
	}

	summary := pipeline.Run(ctx, files, cfg.Pipeline.Workers, logger, work)
	if summary.Succeeded() {
		reportPath := cfg.OutputPath(reportName)
		if err := audit.WriteReport(reportPath, rows, logger); err != nil {
			return summary, err
		}
		logger.Info("audit report written",
			slog.String("path", reportPath),
			slog.Int("buckets", len(rows)),
		)
	}
	return summary, nil
}
