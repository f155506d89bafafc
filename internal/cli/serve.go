package cli

import (
	"io"

	"github.com/spf13/cobra"

	"cacases/internal/app"
	"cacases/internal/config"
	apperrors "cacases/internal/errors"
	"cacases/internal/infrastructure"
)

// NewServeCommand runs the read-only API over a snapshot store.
func NewServeCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var storeDB, addr string

	serveCommand := &cobra.Command{
		Use:   "serve --store DB [--addr :8080]",
		Short: "serve stored runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			env, err := setup(cmd, stderr, func(cfg *config.Config) error {
				if flags.Changed(flagStore) {
					cfg.Store.Path = storeDB
				}
				if flags.Changed(flagAddr) {
					cfg.Server.Addr = addr
				}
				if cfg.Store.Path == "" {
					return apperrors.NewConfigError("serve needs --store or store.path", nil)
				}
				return nil
			})
			if err != nil {
				return err
			}

			application, err := app.New(env.cfg, env.logger, env.providers)
			if err != nil {
				env.close(cmd)
				return err
			}
			// Run shuts the telemetry providers down itself.
			defer infrastructure.CloseLogFile()
			return application.Run(cmd.Context())
		},
	}

	flags := serveCommand.Flags()
	flags.StringVar(&storeDB, flagStore, "", "snapshot database")
	flags.StringVar(&addr, flagAddr, "", "listen address, e.g. :8080")
	return serveCommand
}

func init() {
	subcommandFns["serve"] = NewServeCommand
}
