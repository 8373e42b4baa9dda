package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
)

func (c *CLI) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [-- args...]",
		Short: "Bundle every *.test.ts file and run them with node",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.RunTests(cmd.Context(), app.RunTestsRequest{Args: args})
		},
	}
	return cmd
}
