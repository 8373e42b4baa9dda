package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
)

func (c *CLI) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build the package and publish the target directory to npm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return c.app.PublishPipeline(cmd.Context(), app.BuildPipelineRequest{Patch: patchFromFlags(cmd)}, dryRun)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Report what would be published without uploading")
	addBuildFlags(cmd)
	return cmd
}
