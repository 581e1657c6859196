// Command process turns raw monthly trip exports into analysis-ready
// processed files: reference joins, feature derivation and the plausibility
// filter, one output file per input file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/config"
	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/features"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/infrastructure"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/pipeline"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/refdata"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/schema"
)

func main() {
	inDir := flag.String("in", "", "input directory of raw monthly parquet files (overrides config)")
	outDir := flag.String("out", "", "output directory for processed files (overrides config)")
	workers := flag.Int("workers", 0, "concurrent file workers (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *inDir, *outDir, *workers)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger, runID := infrastructure.NewRunLogger(logger)
	logger.Info("starting trip processing",
		slog.String("run_id", runID),
		slog.String("input_dir", cfg.Paths.InputDir),
		slog.String("output_dir", cfg.Paths.OutputDir),
		slog.Int("workers", cfg.Pipeline.Workers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error("run aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !summary.Succeeded() {
		logger.Error("no files processed successfully")
		os.Exit(1)
	}
}

func applyOverrides(cfg *config.Config, inDir, outDir string, workers int) {
	if inDir != "" {
		cfg.Paths.InputDir = inDir
	}
	if outDir != "" {
		cfg.Paths.OutputDir = outDir
	}
	if workers > 0 {
		cfg.Pipeline.Workers = workers
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Summary, error) {
	// Reference data is fatal when absent; there are no sound defaults.
	zones, weather, err := refdata.Load(cfg.Paths.ZoneFile, cfg.Paths.WeatherFile)
	if err != nil {
		return pipeline.Summary{}, err
	}
	logger.Info("reference data loaded",
		slog.Int("zones", zones.Len()),
		slog.Int("weather_hours", weather.Len()),
	)

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

	bounds := features.DefaultFilterBounds()
	bounds.TipCap = cfg.Filter.TipCap
	bounds.TipFareMultiple = cfg.Filter.TipFareMultiple
	p := features.NewPipeline(zones, weather, bounds, logger)

	work := func(ctx context.Context, file pipeline.MonthlyFile) (pipeline.FileStats, error) {
		columns, err := parquetio.Columns(file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}
		if missing := schema.MissingRequired(columns, schema.ModeRaw); missing != "" {
			return pipeline.FileStats{}, pipeerrors.NewSchemaError(file.Path, missing)
		}

		trips, err := parquetio.ReadAll[features.TripRecord](file.Path)
		if err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(file.Path, err)
		}

		enriched, stats := p.Transform(trips)

		outPath := filepath.Join(cfg.Paths.OutputDir, file.Name)
		if err := parquetio.WriteAll(outPath, enriched); err != nil {
			return pipeline.FileStats{}, pipeerrors.NewFileError(outPath, err)
		}
		return pipeline.FileStats{RowsIn: stats.RowsIn, RowsOut: stats.RowsOut}, nil
	}

	return pipeline.Run(ctx, files, cfg.Pipeline.Workers, logger, work), nil
}
