package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
)

func (c *CLI) newSystemdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "systemd",
		Short: "Manage the package as a systemd service",
	}
	cmd.PersistentFlags().Bool("global", false, "Use the system manager instead of the user's")

	cmd.AddCommand(c.newSystemdInstallCmd())
	for _, action := range []struct {
		name  app.SystemdAction
		short string
	}{
		{app.SystemdStart, "Start the service"},
		{app.SystemdStop, "Stop the service"},
		{app.SystemdRestart, "Restart the service"},
		{app.SystemdStatus, "Show the service status"},
	} {
		cmd.AddCommand(c.newSystemdActionCmd(action.name, action.short))
	}
	return cmd
}

func (c *CLI) newSystemdInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [-- args...]",
		Short: "Generate the unit file and link it into systemd",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")
			configPath, _ := cmd.Flags().GetString("config")

			if configPath == "" {
				jsFile, _ := cmd.Flags().GetString("js-file")
				description, _ := cmd.Flags().GetString("description")
				workDir, _ := cmd.Flags().GetString("working-directory")
				nodeVersion, _ := cmd.Flags().GetString("node-version")
				pipeTo, _ := cmd.Flags().GetString("pipe-to")

				generated, err := c.app.SystemdGenerateConfig(app.SystemdConfigRequest{
					Description:      description,
					WorkingDirectory: workDir,
					JSFile:           jsFile,
					Args:             args,
					NodeVersion:      nodeVersion,
					PipeTo:           pipeTo,
				})
				if err != nil {
					return err
				}
				configPath = generated
			}
			return c.app.SystemdInstall(cmd.Context(), configPath, global)
		},
	}
	cmd.Flags().String("config", "", "Install an existing unit file instead of generating one")
	cmd.Flags().String("js-file", "", "Script to run (default: the package's bin file)")
	cmd.Flags().String("description", "", "Unit description (default: the package name)")
	cmd.Flags().String("working-directory", "", "Working directory of the service")
	cmd.Flags().String("node-version", "", "Node.js version range run through nvm (default: engines.node)")
	cmd.Flags().String("pipe-to", "", "File receiving the service output")
	return cmd
}

func (c *CLI) newSystemdActionCmd(action app.SystemdAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " [service]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.app.Systemd(cmd.Context(), action, name, global)
		},
	}
}
