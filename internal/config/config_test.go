package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Paths: PathsConfig{
			InputDir:    "data/trips",
			OutputDir:   "data/output",
			ZoneFile:    "data/taxi_zones_detailed.csv",
			WeatherFile: "data/nyc_weather_hourly.csv",
		},
		Pipeline: PipelineConfig{Workers: 1},
		Sampling: SamplingConfig{Fraction: 0.01, Mode: "yearly", Seed: 105},
		Filter:   FilterConfig{TipCap: 50, TipFareMultiple: 4},
		Logging:  LoggingConfig{Level: "info", Format: "text", Output: "console", FilePath: "logs/pipeline.log"},
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := defaultConfig(t)
	require.NoError(t, cfg.Validate())
}

func TestValidateSamplingFraction(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		wantErr  bool
	}{
		{"zero fraction rejected", 0, true},
		{"negative fraction rejected", -0.1, true},
		{"one percent accepted", 0.01, false},
		{"full fraction accepted", 1, false},
		{"over one rejected", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			cfg.Sampling.Fraction = tt.fraction
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSamplingMode(t *testing.T) {
	cfg := defaultConfig(t)
	for _, mode := range []string{"single", "yearly", "monthly"} {
		cfg.Sampling.Mode = mode
		assert.NoError(t, cfg.Validate(), "mode %s should be accepted", mode)
	}

	cfg.Sampling.Mode = "weekly"
	assert.Error(t, cfg.Validate())
}

func TestValidateWorkers(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Pipeline.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg.Pipeline.Workers = 8
	assert.NoError(t, cfg.Validate())
}

func TestOutputPath(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Paths.OutputDir = "/tmp/out"
	assert.Equal(t, "/tmp/out/agg_executive_daily.csv", cfg.OutputPath("agg_executive_daily.csv"))
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Paths.OutputDir = t.TempDir() + "/nested/output"
	require.NoError(t, cfg.EnsureOutputDir())
	require.DirExists(t, cfg.Paths.OutputDir)
}

func TestMergeConfigsFileOverridesDefaults(t *testing.T) {
	cfg := defaultConfig(t)
	file := &Config{}
	file.Paths.InputDir = "/data/2021"
	file.Pipeline.Workers = 8
	file.Sampling.Fraction = 0.05

	mergeConfigs(file, cfg)

	assert.Equal(t, "/data/2021", cfg.Paths.InputDir)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 0.05, cfg.Sampling.Fraction)
	assert.Equal(t, "data/output", cfg.Paths.OutputDir, "keys absent from the file keep their value")
}

func TestMergeConfigsEnvTakesPrecedence(t *testing.T) {
	t.Setenv("TLC_PIPELINE_WORKERS", "4")

	cfg := defaultConfig(t)
	cfg.Pipeline.Workers = 4
	file := &Config{}
	file.Pipeline.Workers = 8
	file.Sampling.Mode = "monthly"

	mergeConfigs(file, cfg)

	assert.Equal(t, 4, cfg.Pipeline.Workers, "explicit env var beats the file")
	assert.Equal(t, "monthly", cfg.Sampling.Mode, "file still wins where env is unset")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	yaml := "pipeline:\n  workers: 8\nsampling:\n  fraction: 0.05\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("TLC_SAMPLING_FRACTION", "0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.Workers, "file overrides the default")
	assert.Equal(t, 0.2, cfg.Sampling.Fraction, "env overrides the file")
	assert.Equal(t, "yearly", cfg.Sampling.Mode, "defaults survive where nothing overrides")
}
