package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
)

func (c *CLI) newDtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dts",
		Short: "Bundle the declarations of the entry point into one .d.ts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			banner, _ := cmd.Flags().GetBool("banner")
			exportReferenced, _ := cmd.Flags().GetBool("export-referenced-types")
			return c.app.GenerateDts(cmd.Context(), app.GenerateDtsRequest{
				Input:                 input,
				Output:                output,
				Banner:                banner,
				ExportReferencedTypes: exportReferenced,
			})
		},
	}
	cmd.Flags().StringP("input", "i", "", "TypeScript entry point (default: the single configured one)")
	cmd.Flags().StringP("output", "o", "", "Declaration file (default: types from package.json, inside target)")
	cmd.Flags().Bool("banner", false, "Keep the generator banner")
	cmd.Flags().Bool("export-referenced-types", false, "Export types referenced by the entry point")
	return cmd
}
