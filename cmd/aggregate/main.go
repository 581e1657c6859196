// Command aggregate computes the four summary marts over a directory of
// monthly trip files, raw or processed, and persists the merged tables plus a
// grain manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/aggregate"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/config"
	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/infrastructure"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/pipeline"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/schema"
)

func main() {
	inDir := flag.String("in", "", "input directory of monthly parquet files (overrides config)")
	outDir := flag.String("out", "", "output directory for the marts (overrides config)")
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
	logger.Info("starting aggregation",
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
		logger.Error("no files aggregated successfully")
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

	// One mode decision per run, taken from the first file: all files in a
	// directory share an input generation.
	firstColumns, err := parquetio.Columns(files[0].Path)
	if err != nil {
		return pipeline.Summary{}, pipeerrors.NewFileError(files[0].Path, err)
	}
	mode := schema.Classify(firstColumns)
	logger.Info("operation mode decided", slog.String("mode", mode.String()))

	outDir := cfg.OutputPath("aggregates_" + mode.String())
	acc := aggregate.NewAccumulator(outDir, mode, logger)

	work := func(ctx context.Context, file pipeline.MonthlyFile) (pipeline.FileStats, error) {
		columns, err := parquetio.Columns(file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}
		if missing := schema.MissingRequired(columns, mode); missing != "" {
			return pipeline.FileStats{}, pipeerrors.NewSchemaError(file.Path, missing)
		}

		records, err := parquetio.ReadAll[aggregate.Record](file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}

		tables := aggregate.AggregateFile(records, mode, columns)
		acc.Add(tables)

		partial := len(tables.Timeline) + len(tables.Network) + len(tables.Economic) + len(tables.Executive)
		return pipeline.FileStats{RowsIn: len(records), RowsOut: partial}, nil
	}

	summary := pipeline.Run(ctx, files, cfg.Pipeline.Workers, logger, work)
	if summary.Succeeded() {
		if err := acc.Flush(); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
