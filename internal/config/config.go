package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cacases/internal/datekey"
	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
)

// Config represents the complete application configuration
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RunConfig controls one conversion run
type RunConfig struct {
	StartDate      string           `yaml:"start_date" split_words:"true" validate:"required"`
	Layout         string           `yaml:"layout" split_words:"true" validate:"required,oneof=legacy area_type"`
	Only           string           `yaml:"only" split_words:"true"`
	RegionFile     string           `yaml:"region_file" split_words:"true" validate:"required"`
	TierFile       string           `yaml:"tier_file" split_words:"true"`
	OutputDir      string           `yaml:"output_dir" split_words:"true" validate:"required"`
	Workers        int              `yaml:"workers" split_words:"true" validate:"min=1,max=64"`
	Workbook       bool             `yaml:"workbook" split_words:"true"`
	IgnorePatterns []string         `yaml:"ignore_patterns" split_words:"true"`
	Defaults       map[string]int64 `yaml:"defaults" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string          `yaml:"addr" split_words:"true" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" validate:"gt=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"min=1"`
}

// StoreConfig locates the snapshot database. An empty path disables it.
type StoreConfig struct {
	Path    string        `yaml:"path" split_words:"true"`
	Timeout time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" split_words:"true"`
	TraceExporter  string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" split_words:"true" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" split_words:"true" validate:"min=0,max=1"`
}

var validate = validator.New()

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path looks for cacases.yaml in the usual places and
// proceeds without a file when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s", path), err)
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// envconfig replaces maps wholesale; CACASES_RUN_DEFAULTS only overrides
	// the columns it names.
	defaults := make(map[string]int64, len(cfg.Run.Defaults))
	for column, v := range cfg.Run.Defaults {
		defaults[column] = v
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from environment", err)
	}
	if cfg.Run.Defaults == nil {
		cfg.Run.Defaults = make(map[string]int64, len(defaults))
	}
	for column, v := range defaults {
		if _, set := cfg.Run.Defaults[column]; !set {
			cfg.Run.Defaults[column] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("read config file %s", path), err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("parse config file %s", path), err)
	}
	return nil
}

// Validate checks struct tags, then the rules tags cannot express. Call it
// again after applying command-line overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if _, err := datekey.ParseDate(c.Run.StartDate); err != nil {
		return apperrors.NewConfigError("run.start_date", err)
	}

	schema := frame.StandardSchema()
	for column := range c.Run.Defaults {
		if !schema.Has(column) {
			return apperrors.NewConfigError(fmt.Sprintf("run.defaults names unknown column %q", column), nil)
		}
	}
	return nil
}

// StartTime parses Run.StartDate. Validate has already accepted it.
func (c *Config) StartTime() time.Time {
	t, _ := datekey.ParseDate(c.Run.StartDate)
	return t
}

// Output returns the resolver for Run.OutputDir.
func (c *Config) Output() OutputPaths {
	return NewOutputPaths(c.Run.OutputDir)
}

func findConfigFile() string {
	locations := []string{
		"cacases.yaml",
		"configs/cacases.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Run: RunConfig{
			StartDate:  DefaultStartDate,
			Layout:     DefaultLayout,
			RegionFile: DefaultRegionFile,
			OutputDir:  DefaultOutputDir,
			Workers:    DefaultWorkers,
			Defaults:   frame.StandardDefaults(),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Store: StoreConfig{
			Timeout: time.Second,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
