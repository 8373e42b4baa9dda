package app

import (
	"context"
	"os"

	"go.trai.ch/tsbuild/internal/adapters/fs"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/engine/process"
	"go.trai.ch/tsbuild/internal/engine/resolver"
)

// Typecheck runs tsc over the project from the sources root.
func (a *App) Typecheck(ctx context.Context, opts domain.ShellOptions) error {
	return a.measure(ctx, "typecheck", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		sources, err := r.SourcesRoot("")
		if err != nil {
			return "", err
		}
		_, err = a.toolchain.Typecheck(ctx, toolchain.TypecheckRequest{
			ShellOptions: opts,
			Directory:    sources,
			TSConfig:     r.TSConfigPath(),
		})
		return "", err
	})
}

// GenerateDtsRequest overrides the declaration bundling inputs.
type GenerateDtsRequest struct {
	domain.ShellOptions
	// Input defaults to the single TypeScript entry point.
	Input string
	// Output defaults to the types file named in package.json, inside target.
	Output                string
	Banner                bool
	ExportReferencedTypes bool
}

// GenerateDts bundles the declarations of the entry point into one .d.ts file.
func (a *App) GenerateDts(ctx context.Context, req GenerateDtsRequest) error {
	return a.measure(ctx, "generate .d.ts", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		input, err := r.SingleTypescriptEntrypoint(req.Input)
		if err != nil {
			return "", err
		}
		output, err := r.DtsPath(req.Output)
		if err != nil {
			return "", err
		}
		if _, err := a.toolchain.GenerateDts(ctx, toolchain.GenerateDtsRequest{
			ShellOptions:          req.ShellOptions,
			Input:                 input,
			Output:                output,
			TSConfig:              r.TSConfigPath(),
			Banner:                req.Banner,
			ExportReferencedTypes: req.ExportReferencedTypes,
		}); err != nil {
			return "", err
		}
		return fs.FileSize(output)
	})
}

// GenerateTestEntrypoint writes the module that imports every test file of the sources root.
// It returns the entrypoint path.
func (a *App) GenerateTestEntrypoint(ctx context.Context, override string) (string, error) {
	var entrypoint string
	err := a.measure(ctx, "generate test entrypoint", func(_ context.Context, r *resolver.Resolver) (string, error) {
		sources, err := r.SourcesRoot("")
		if err != nil {
			return "", err
		}
		generated, err := r.GeneratedSourcesRoot("")
		if err != nil {
			return "", err
		}
		entrypoint, err = r.TestEntrypoint(override)
		if err != nil {
			return "", err
		}
		if _, err := fs.GenerateTestEntrypoint(sources, entrypoint, generated); err != nil {
			return "", err
		}
		return entrypoint, nil
	})
	return entrypoint, err
}

// RunTestsRequest configures a test run.
type RunTestsRequest struct {
	// Patch is applied over the project's build options. Entry points and output are replaced.
	Patch *domain.BuildPatch
	Args  []string
}

// RunTests generates the test entrypoint, bundles it into the test file and runs it with node.
func (a *App) RunTests(ctx context.Context, req RunTestsRequest) error {
	entrypoint, err := a.GenerateTestEntrypoint(ctx, "")
	if err != nil {
		return err
	}

	r, err := a.Resolver()
	if err != nil {
		return err
	}
	testJS := r.TestJSPath()

	patch := domain.BuildPatch{}
	if req.Patch != nil {
		patch = *req.Patch
	}
	patch.EntryPoints = domain.EntryPointsFromPaths(entrypoint)
	patch.Outdir = domain.Ptr("")
	patch.Outfile = domain.Ptr(testJS)

	if err := a.stats.Measure(ctx, "build", func(ctx context.Context) (string, error) {
		opts, err := r.BuildOptions(&patch)
		if err != nil {
			return "", err
		}
		_, err = a.bundler.Build(ctx, opts)
		return "", err
	}); err != nil {
		return err
	}

	return a.stats.Measure(ctx, "run tests", func(ctx context.Context) (string, error) {
		_, err := a.RunJS(ctx, RunJSRequest{JSFile: testJS, Args: req.Args})
		return "", err
	})
}

// RunJSRequest runs a script with node.
type RunJSRequest struct {
	domain.ShellOptions
	// JSFile defaults to the package's single bin file.
	JSFile string
	Args   []string
	// Node is the interpreter. Defaults to node.
	Node string
}

// RunJS runs the script and waits for it to finish.
func (a *App) RunJS(ctx context.Context, req RunJSRequest) (domain.RunResult, error) {
	r, err := a.Resolver()
	if err != nil {
		return domain.RunResult{}, err
	}
	jsFile, err := r.SingleBinPath(req.JSFile)
	if err != nil {
		return domain.RunResult{}, err
	}
	node := req.Node
	if node == "" {
		node = "node"
	}
	return a.runner.Run(ctx, req.Command(node, append([]string{jsFile}, req.Args...)...))
}

// StartJSProcessRequest describes a restartable node process.
type StartJSProcessRequest struct {
	// JSFile defaults to the package's single bin file.
	JSFile string
	Args   []string
	Node   string
	Dir    string
	Env    map[string]string
	// RestartSignal defaults to SIGINT.
	RestartSignal os.Signal
}

// StartJSProcess starts a managed node process.
func (a *App) StartJSProcess(ctx context.Context, req StartJSProcessRequest) (*process.Managed, error) {
	r, err := a.Resolver()
	if err != nil {
		return nil, err
	}
	jsFile, err := r.SingleBinPath(req.JSFile)
	if err != nil {
		return nil, err
	}
	return process.Start(ctx, a.runner, process.Options{
		Script:        jsFile,
		Args:          req.Args,
		Interpreter:   req.Node,
		Dir:           req.Dir,
		Env:           req.Env,
		RestartSignal: req.RestartSignal,
		Logger:        a.logger,
	})
}

// NpmPublish publishes the target directory.
func (a *App) NpmPublish(ctx context.Context, dryRun bool, opts domain.ShellOptions) error {
	return a.measure(ctx, "npm publish", func(ctx context.Context, r *resolver.Resolver) (string, error) {
		_, err := a.toolchain.NpmPublish(ctx, toolchain.NpmPublishRequest{
			ShellOptions: opts,
			Directory:    r.Target(),
			DryRun:       dryRun,
		})
		return "", err
	})
}

// NpmInstall installs pkg, or every dependency when pkg is empty.
func (a *App) NpmInstall(ctx context.Context, pkg string, opts domain.ShellOptions) error {
	return a.stats.Measure(ctx, "npm install", func(ctx context.Context) (string, error) {
		_, err := a.toolchain.NpmInstall(ctx, toolchain.NpmInstallRequest{ShellOptions: opts, Package: pkg})
		return "", err
	})
}

// NpmLink links paths, or the current package when paths is empty.
func (a *App) NpmLink(ctx context.Context, paths []string, opts domain.ShellOptions) error {
	_, err := a.toolchain.NpmLink(ctx, toolchain.NpmLinkRequest{ShellOptions: opts, Paths: paths})
	return err
}

// Npx runs an npx command.
func (a *App) Npx(ctx context.Context, args []string, opts domain.ShellOptions) (domain.RunResult, error) {
	return a.toolchain.Npx(ctx, args, opts)
}

// GitPull pulls branch, or the tracked branch when branch is empty.
func (a *App) GitPull(ctx context.Context, branch string, opts domain.ShellOptions) error {
	_, err := a.toolchain.GitPull(ctx, toolchain.GitPullRequest{ShellOptions: opts, Branch: branch})
	return err
}
