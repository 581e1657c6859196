package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Sampling SamplingConfig `yaml:"sampling" envconfig:"SAMPLING"`
	Filter   FilterConfig   `yaml:"filter" envconfig:"FILTER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig contains the file system locations the pipeline reads and writes.
type PathsConfig struct {
	InputDir    string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/trips" validate:"required"`
	OutputDir   string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/output" validate:"required"`
	ZoneFile    string `yaml:"zone_file" envconfig:"ZONE_FILE" default:"data/taxi_zones_detailed.csv" validate:"required"`
	WeatherFile string `yaml:"weather_file" envconfig:"WEATHER_FILE" default:"data/nyc_weather_hourly.csv" validate:"required"`
}

// PipelineConfig contains execution tuning.
type PipelineConfig struct {
	// Workers is a resource hint for per-file parallelism. Files are
	// independent units of work; accumulator merges stay single-writer.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"1" validate:"gte=1"`
}

// SamplingConfig controls the stratified sampling engine.
type SamplingConfig struct {
	Fraction float64 `yaml:"fraction" envconfig:"FRACTION" default:"0.01" validate:"gt=0,lte=1"`
	Mode     string  `yaml:"mode" envconfig:"MODE" default:"yearly" validate:"oneof=single yearly monthly"`
	Seed     int64   `yaml:"seed" envconfig:"SEED" default:"105"`
}

// FilterConfig holds the validation-filter knobs that have no documented
// rationale in the source data dictionary and therefore stay configurable.
type FilterConfig struct {
	TipCap          float64 `yaml:"tip_cap" envconfig:"TIP_CAP" default:"50" validate:"gt=0"`
	TipFareMultiple float64 `yaml:"tip_fare_multiple" envconfig:"TIP_FARE_MULTIPLE" default:"4" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// Load builds configuration from defaults, an optional YAML file, and
// environment variables (prefix TLC), in increasing precedence, then
// validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TLC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path := findConfigFile(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		mergeConfigs(fileCfg, &cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// EnsureOutputDir creates the output directory tree if it does not exist.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Paths.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// OutputPath joins name onto the configured output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

// loadFromFile reads a YAML config file into a zero-valued Config so only
// keys present in the file are non-zero.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config into cfg (env takes precedence). A file
// value wins only when the field's environment variable was not set; the
// second key is the unprefixed alternative envconfig also consults.
func mergeConfigs(file *Config, cfg *Config) {
	mergeString(&cfg.Paths.InputDir, file.Paths.InputDir, "TLC_PATHS_INPUT_DIR", "INPUT_DIR")
	mergeString(&cfg.Paths.OutputDir, file.Paths.OutputDir, "TLC_PATHS_OUTPUT_DIR", "OUTPUT_DIR")
	mergeString(&cfg.Paths.ZoneFile, file.Paths.ZoneFile, "TLC_PATHS_ZONE_FILE", "ZONE_FILE")
	mergeString(&cfg.Paths.WeatherFile, file.Paths.WeatherFile, "TLC_PATHS_WEATHER_FILE", "WEATHER_FILE")

	mergeInt(&cfg.Pipeline.Workers, file.Pipeline.Workers, "TLC_PIPELINE_WORKERS", "WORKERS")

	mergeFloat(&cfg.Sampling.Fraction, file.Sampling.Fraction, "TLC_SAMPLING_FRACTION", "FRACTION")
	mergeString(&cfg.Sampling.Mode, file.Sampling.Mode, "TLC_SAMPLING_MODE", "MODE")
	mergeInt64(&cfg.Sampling.Seed, file.Sampling.Seed, "TLC_SAMPLING_SEED", "SEED")

	mergeFloat(&cfg.Filter.TipCap, file.Filter.TipCap, "TLC_FILTER_TIP_CAP", "TIP_CAP")
	mergeFloat(&cfg.Filter.TipFareMultiple, file.Filter.TipFareMultiple, "TLC_FILTER_TIP_FARE_MULTIPLE", "TIP_FARE_MULTIPLE")

	mergeString(&cfg.Logging.Level, file.Logging.Level, "TLC_LOGGING_LEVEL", "LEVEL")
	mergeString(&cfg.Logging.Format, file.Logging.Format, "TLC_LOGGING_FORMAT", "FORMAT")
	mergeString(&cfg.Logging.Output, file.Logging.Output, "TLC_LOGGING_OUTPUT", "OUTPUT")
	mergeString(&cfg.Logging.FilePath, file.Logging.FilePath, "TLC_LOGGING_FILE_PATH", "FILE_PATH")
}

func envSet(keys ...string) bool {
	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			return true
		}
	}
	return false
}

func mergeString(dst *string, v string, keys ...string) {
	if v != "" && !envSet(keys...) {
		*dst = v
	}
}

func mergeInt(dst *int, v int, keys ...string) {
	if v != 0 && !envSet(keys...) {
		*dst = v
	}
}

func mergeInt64(dst *int64, v int64, keys ...string) {
	if v != 0 && !envSet(keys...) {
		*dst = v
	}
}

func mergeFloat(dst *float64, v float64, keys ...string) {
	if v != 0 && !envSet(keys...) {
		*dst = v
	}
}

// findConfigFile returns the first config file found in common locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}
