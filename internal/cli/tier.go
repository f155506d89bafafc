package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cacases/internal/config"
	apperrors "cacases/internal/errors"
	"cacases/internal/tier"
)

// NewTierCommand converts the state blueprint chart into tier YAML.
func NewTierCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var chart, out string

	tierCommand := &cobra.Command{
		Use:   "tier --csv CHART.csv --out TIERS.yaml",
		Short: "convert the blueprint data chart into a tier YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			env, err := setup(cmd, stderr, func(cfg *config.Config) error {
				if flags.Changed(flagOut) {
					cfg.Run.TierFile = out
				}
				if cfg.Run.TierFile == "" {
					return apperrors.NewConfigError("tier needs --out or run.tier_file", nil)
				}
				return nil
			})
			if err != nil {
				return err
			}
			defer env.close(cmd)

			f, err := os.Open(chart)
			if err != nil {
				return apperrors.NewParsingError("open tier chart "+chart, err)
			}
			defer f.Close()

			table, err := tier.ParseChart(f)
			if err != nil {
				return err
			}
			if err := table.Save(env.cfg.Run.TierFile); err != nil {
				return err
			}

			env.logger.Info("tier table written",
				slog.String("chart", chart),
				slog.String("path", env.cfg.Run.TierFile),
				slog.Int("entities", len(table)))
			_, err = fmt.Fprintf(stdout, "%d tier records written to %s\n", len(table), env.cfg.Run.TierFile)
			return err
		},
	}

	flags := tierCommand.Flags()
	flags.StringVar(&chart, flagCSV, "", "blueprint data chart CSV")
	flags.StringVar(&out, flagOut, "", "tier YAML file to write")
	tierCommand.MarkFlagRequired(flagCSV)
	return tierCommand
}

func init() {
	subcommandFns["tier"] = NewTierCommand
}
