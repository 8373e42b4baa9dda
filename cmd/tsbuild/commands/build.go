package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tsbuild/internal/app"
	"go.trai.ch/tsbuild/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Clear, typecheck and bundle the package into the target directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.BuildPipeline(cmd.Context(), app.BuildPipelineRequest{Patch: patchFromFlags(cmd)})
		},
	}
	addBuildFlags(cmd)
	return cmd
}

// addBuildFlags registers the flags that override the configured build options.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("entry", "e", nil, "Entry points to bundle instead of the configured ones")
	cmd.Flags().String("format", "", "Output format: esm, cjs or iife")
	cmd.Flags().String("platform", "", "Target platform: neutral, node or browser")
	cmd.Flags().Bool("minify", false, "Minify the output")
	cmd.Flags().Bool("sourcemap", false, "Emit source maps")
}

// patchFromFlags returns the options set on the command line, or nil when none are.
func patchFromFlags(cmd *cobra.Command) *domain.BuildPatch {
	var patch domain.BuildPatch
	set := false
	flags := cmd.Flags()

	if flags.Changed("entry") {
		entries, _ := flags.GetStringSlice("entry")
		patch.EntryPoints = domain.EntryPointsFromPaths(entries...)
		set = true
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		patch.Format = domain.Ptr(domain.Format(format))
		set = true
	}
	if flags.Changed("platform") {
		platform, _ := flags.GetString("platform")
		patch.Platform = domain.Ptr(domain.Platform(platform))
		set = true
	}
	if flags.Changed("minify") {
		minify, _ := flags.GetBool("minify")
		patch.Minify = &minify
		set = true
	}
	if flags.Changed("sourcemap") {
		sourcemap, _ := flags.GetBool("sourcemap")
		patch.Sourcemap = &sourcemap
		set = true
	}

	if !set {
		return nil
	}
	return &patch
}
