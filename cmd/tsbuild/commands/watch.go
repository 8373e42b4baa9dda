package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
	"go.trai.ch/tsbuild/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [-- args...]",
		Short: "Rebuild on source changes until interrupted",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			run, _ := cmd.Flags().GetBool("run")
			jsFile, _ := cmd.Flags().GetString("js-file")
			serve, _ := cmd.Flags().GetBool("serve")

			req := app.WatchPipelineRequest{
				Watch: app.WatchRequest{
					Patch:         patchFromFlags(cmd),
					Mode:          domain.WatchMode(mode),
					RunAfterBuild: run,
					JSFile:        jsFile,
					Args:          args,
				},
			}
			if serve {
				host, _ := cmd.Flags().GetString("host")
				port, _ := cmd.Flags().GetInt("port")
				req.Serve = &app.ServeRequest{Patch: req.Watch.Patch, Host: host, Port: port}
			}
			return c.app.WatchPipeline(cmd.Context(), req)
		},
	}
	cmd.Flags().StringP("mode", "m", "", "Change detection: fs-events or polling (default from tsbuild.yaml)")
	cmd.Flags().BoolP("run", "r", false, "Run the package's bin file after each successful build")
	cmd.Flags().String("js-file", "", "Script to run instead of the package's bin file")
	cmd.Flags().Bool("serve", false, "Also serve the target directory")
	addServeFlags(cmd)
	addBuildFlags(cmd)
	return cmd
}
