package commands

import "github.com/spf13/cobra"

func (c *CLI) newTypecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck",
		Short: "Run the TypeScript compiler without emitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.TypecheckPipeline(cmd.Context())
		},
	}
}
