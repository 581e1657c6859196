// Command sample draws a reproducible seeded subset from each processed
// monthly file and writes the subsets grouped by the configured partition
// mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/config"
	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/features"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/infrastructure"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/pipeline"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/sample"
)

func main() {
	inDir := flag.String("in", "", "input directory of processed monthly parquet files (overrides config)")
	outDir := flag.String("out", "", "output directory for sample files (overrides config)")
	fraction := flag.Float64("fraction", 0, "sample fraction in (0,1] (overrides config)")
	mode := flag.String("mode", "", "partition mode: single, yearly or monthly (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
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
	if *fraction > 0 {
		cfg.Sampling.Fraction = *fraction
	}
	if *mode != "" {
		cfg.Sampling.Mode = *mode
	}
	if *seed != 0 {
		cfg.Sampling.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid sampling options", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger, runID := infrastructure.NewRunLogger(logger)
	logger.Info("starting stratified sampling",
		slog.String("run_id", runID),
		slog.String("mode", cfg.Sampling.Mode),
		slog.Float64("fraction", cfg.Sampling.Fraction),
		slog.Int64("seed", cfg.Sampling.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("run aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !summary.Succeeded() {
		logger.Error("no files sampled successfully")
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

	engine := sample.NewEngine(cfg.Sampling.Mode, cfg.Sampling.Fraction, cfg.Sampling.Seed,
		cfg.Paths.OutputDir, logger)

	work := func(ctx context.Context, file pipeline.MonthlyFile) (pipeline.FileStats, error) {
		rows, err := parquetio.ReadAll[features.EnrichedTrip](file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}
		kept, err := engine.AddFile(file.Path, rows)
		if err != nil {
			return pipeline.FileStats{}, err
		}
		return pipeline.FileStats{RowsIn: len(rows), RowsOut: kept}, nil
	}

	// Group transitions depend on chronological file order, so sampling
	// always runs on a single worker.
	summary := pipeline.Run(ctx, files, 1, logger, work)
	if summary.Succeeded() {
		if err := engine.Flush(); err != nil {
			return summary, err
		}
		logger.Info("sampling reduction",
			slog.Int("rows_in", engine.RowsIn()),
			slog.Int("rows_out", engine.RowsOut()),
			slog.Int("outputs", len(engine.Outputs())),
		)
	}
	return summary, nil
}
