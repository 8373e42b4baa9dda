// Package toolchain builds command lines for the npm, npx, git and TypeScript tools and runs them.
package toolchain

import (
	"context"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
)

// Toolchain runs JavaScript ecosystem tools through a ports.Runner.
type Toolchain struct {
	runner ports.Runner
}

// New creates a Toolchain.
func New(runner ports.Runner) *Toolchain {
	return &Toolchain{runner: runner}
}

// Npx runs npx with args.
func (t *Toolchain) Npx(ctx context.Context, args []string, opts domain.ShellOptions) (domain.RunResult, error) {
	return t.runner.Run(ctx, opts.Command("npx", args...))
}

// NpmPublishRequest publishes the package in Directory.
type NpmPublishRequest struct {
	domain.ShellOptions
	Directory string
	DryRun    bool
}

// NpmPublish runs npm publish --access public in the package directory.
func (t *Toolchain) NpmPublish(ctx context.Context, req NpmPublishRequest) (domain.RunResult, error) {
	args := []string{"publish", "--access", "public"}
	if req.DryRun {
		args = append(args, "--dry-run")
	}
	opts := req.ShellOptions
	opts.Dir = req.Directory
	return t.runner.Run(ctx, opts.Command("npm", args...))
}

// NpmInstallRequest installs Package, or every dependency when Package is empty.
type NpmInstallRequest struct {
	domain.ShellOptions
	Package string
}

// NpmInstall runs npm install.
func (t *Toolchain) NpmInstall(ctx context.Context, req NpmInstallRequest) (domain.RunResult, error) {
	args := []string{"install"}
	if req.Package != "" {
		args = append(args, req.Package)
	}
	return t.runner.Run(ctx, req.Command("npm", args...))
}

// NpmLinkRequest links Paths, or the current package when Paths is empty.
type NpmLinkRequest struct {
	domain.ShellOptions
	Paths []string
}

// NpmLink runs npm link.
func (t *Toolchain) NpmLink(ctx context.Context, req NpmLinkRequest) (domain.RunResult, error) {
	args := append([]string{"link"}, req.Paths...)
	return t.runner.Run(ctx, req.Command("npm", args...))
}

// GitPullRequest pulls Branch, or the tracked branch when Branch is empty.
type GitPullRequest struct {
	domain.ShellOptions
	Branch string
}

// GitPull runs git pull.
func (t *Toolchain) GitPull(ctx context.Context, req GitPullRequest) (domain.RunResult, error) {
	args := []string{"pull"}
	if req.Branch != "" {
		args = append(args, req.Branch)
	}
	return t.runner.Run(ctx, req.Command("git", args...))
}

// TypecheckRequest checks the project described by TSConfig from Directory.
type TypecheckRequest struct {
	domain.ShellOptions
	Directory string
	TSConfig  string
}

// Typecheck runs tsc without emitting output.
func (t *Toolchain) Typecheck(ctx context.Context, req TypecheckRequest) (domain.RunResult, error) {
	opts := req.ShellOptions
	opts.Dir = req.Directory
	return t.Npx(ctx, []string{"tsc", "--project", req.TSConfig, "--noEmit"}, opts)
}

// GenerateDtsRequest bundles the declarations reachable from Input into Output.
type GenerateDtsRequest struct {
	domain.ShellOptions
	Input                 string
	Output                string
	TSConfig              string
	Banner                bool
	ExportReferencedTypes bool
}

// GenerateDts runs dts-bundle-generator.
func (t *Toolchain) GenerateDts(ctx context.Context, req GenerateDtsRequest) (domain.RunResult, error) {
	args := []string{"dts-bundle-generator", "--out-file", req.Output, "--project", req.TSConfig}
	if !req.Banner {
		args = append(args, "--no-banner")
	}
	if !req.ExportReferencedTypes {
		args = append(args, "--export-referenced-types=false")
	}
	args = append(args, req.Input)
	return t.Npx(ctx, args, req.ShellOptions)
}
