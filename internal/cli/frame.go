package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"cacases/internal/config"
	apperrors "cacases/internal/errors"
	"cacases/internal/exporter"
	"cacases/internal/pipeline"
)

// NewFrameCommand prints the frame of a single entity to stdout.
func NewFrameCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var rf runFlags

	frameCommand := &cobra.Command{
		Use:   "frame --csv FILE --only ENTITY",
		Short: "print one entity's frame to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			env, err := setup(cmd, stderr, func(cfg *config.Config) error {
				rf.apply(flags, cfg)
				if cfg.Run.Only == "" {
					return apperrors.NewConfigError("frame needs --only ENTITY", nil)
				}
				return nil
			})
			if err != nil {
				return err
			}
			defer env.close(cmd)

			p, err := newPipeline(env)
			if err != nil {
				return err
			}

			only := env.cfg.Run.Only
			_, err = execute(cmd.Context(), p, rf.csv,
				pipeline.EmitterFunc(func(ctx context.Context, result *pipeline.Result) error {
					f, err := result.Frame(only)
					if err != nil {
						return err
					}
					return exporter.WriteTo(stdout, f)
				}))
			return err
		},
	}

	rf.register(frameCommand.Flags())
	frameCommand.MarkFlagRequired(flagCSV)
	return frameCommand
}

func init() {
	subcommandFns["frame"] = NewFrameCommand
}
