package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the target directory, building on request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			return c.app.ServePipeline(cmd.Context(), app.ServeRequest{
				Patch: patchFromFlags(cmd),
				Host:  host,
				Port:  port,
			})
		},
	}
	addServeFlags(cmd)
	addBuildFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", app.DefaultServeHost, "Address to listen on")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (0 picks a free one)")
}
