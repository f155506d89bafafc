package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cacases/internal/config"
	"cacases/internal/infrastructure"
	"cacases/pkg/contracts"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

var subcommandFns = map[string]func(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command{}

// NewRootCommand builds the cacases command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   config.AppName,
		Short: "cacases - regional daily case counts to per-entity time series",
		Long: `Converts daily case-count CSV files into per-entity time-series frames
ready for reproduction-number estimation, and serves stored runs over HTTP.

Version: ` + contracts.Version + `
Build Time: ` + contracts.BuildTime + "\n",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rc.PersistentFlags()
	pf.String(flagConfig, "", "configuration file (YAML); defaults to cacases.yaml if present")
	pf.String(flagLogLevel, "", "log level override: debug, info, warn, error")

	for _, subcomFn := range subcommandFns {
		rc.AddCommand(subcomFn(stdin, stdout, stderr))
	}
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// environment is what every command needs once configuration is settled.
type environment struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
}

// close flushes telemetry and the log file.
func (e *environment) close(cmd *cobra.Command) {
	if e.providers != nil {
		if err := e.providers.Shutdown(cmd.Context()); err != nil {
			e.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}
	infrastructure.CloseLogFile()
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig(flags *pflag.FlagSet, override func(*config.Config) error) (*config.Config, error) {
	path, _ := flags.GetString(flagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed(flagLogLevel) {
		cfg.Logging.Level, _ = flags.GetString(flagLogLevel)
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration and starts logging and telemetry. Console logs
// go to stderr so stdout stays usable for frame output.
func setup(cmd *cobra.Command, stderr io.Writer, override func(*config.Config) error) (*environment, error) {
	cfg, err := loadConfig(cmd.Flags(), override)
	if err != nil {
		return nil, err
	}

	var logger *slog.Logger
	if strings.EqualFold(cfg.Logging.Output, "console") {
		logger = infrastructure.NewLogger(stderr, cfg.Logging.Level)
	} else if logger, err = infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger = logger.With(slog.String("command", cmd.Name()))

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	return &environment{cfg: cfg, logger: logger, providers: providers}, nil
}
