package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cacases/pkg/contracts"
)

// NewVersionCommand prints build information.
func NewVersionCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
			return err
		},
	}
}

func init() {
	subcommandFns["version"] = NewVersionCommand
}
