// Package commands implements the CLI commands for tsbuild.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/adapters/detector"
	"go.trai.ch/tsbuild/internal/app"
	"go.trai.ch/tsbuild/internal/build"
)

// CLI represents the command line interface for tsbuild.
type CLI struct {
	app         Application
	rootCmd     *cobra.Command
	onLogFormat func(detector.LogFormat)
}

// Application represents the application logic interface.
type Application interface {
	BuildPipeline(ctx context.Context, req app.BuildPipelineRequest) error
	TypecheckPipeline(ctx context.Context) error
	PublishPipeline(ctx context.Context, req app.BuildPipelineRequest, dryRun bool) error
	WatchPipeline(ctx context.Context, req app.WatchPipelineRequest) error
	ServePipeline(ctx context.Context, req app.ServeRequest) error
	RunTests(ctx context.Context, req app.RunTestsRequest) error
	Clear(ctx context.Context) error
	GenerateDts(ctx context.Context, req app.GenerateDtsRequest) error
	SystemdGenerateConfig(req app.SystemdConfigRequest) (string, error)
	SystemdInstall(ctx context.Context, configPath string, global bool) error
	Systemd(ctx context.Context, action app.SystemdAction, serviceName string, global bool) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tsbuild",
		Short:         "Build, watch and ship TypeScript packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.onLogFormat == nil {
			return
		}
		flag, _ := cmd.Flags().GetString("log-format")
		c.onLogFormat(detector.ResolveFormat(detector.DetectEnvironment(), flag))
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newTypecheckCmd())
	rootCmd.AddCommand(c.newPublishCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newDtsCmd())
	rootCmd.AddCommand(c.newSystemdCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// OnLogFormat registers fn to receive the log format chosen before a command runs.
func (c *CLI) OnLogFormat(fn func(detector.LogFormat)) {
	c.onLogFormat = fn
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
