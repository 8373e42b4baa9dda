package app_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/config"
	"go.trai.ch/tsbuild/internal/adapters/systemd"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/app"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/tsbuild/internal/core/ports/mocks"
	"go.trai.ch/tsbuild/internal/engine/stats"
	"go.uber.org/mock/gomock"
)

const testManifest = `{
  "name": "@acme/tool",
  "version": "1.2.3",
  "type": "module",
  "main": "index.js",
  "types": "index.d.ts",
  "bin": "cli.js",
  "engines": {"node": ">=18.0.0"},
  "scripts": {"build": "tsbuild build"},
  "devDependencies": {"typescript": "^5.0.0"}
}
`

type fixture struct {
	dir      string
	target   string
	loader   *mocks.MockConfigLoader
	runner   *mocks.MockRunner
	bundler  *mocks.MockBundler
	watchers *mocks.MockWatcherFactory
	icons    *mocks.MockIconGenerator
	logger   *mocks.MockLogger
	stats    *stats.Collector
	app      *app.App
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newFixture lays out a small package and an App over mocked adapters. The working directory
// is the package root.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join(dir, "package.json"), testManifest)
	writeFile(t, filepath.Join(dir, "tsconfig.json"), `{
  // comments are allowed
  "compilerOptions": {"rootDir": "src"},
}`)
	writeFile(t, filepath.Join(dir, "src", "index.ts"), "export const x = 1;\n")

	ctrl := gomock.NewController(t)
	f := &fixture{
		dir:      dir,
		target:   filepath.Join(dir, "target"),
		loader:   mocks.NewMockConfigLoader(ctrl),
		runner:   mocks.NewMockRunner(ctrl),
		bundler:  mocks.NewMockBundler(ctrl),
		watchers: mocks.NewMockWatcherFactory(ctrl),
		icons:    mocks.NewMockIconGenerator(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		stats:    stats.New(),
	}

	f.loader.EXPECT().Load(dir).Return(&domain.Defaults{
		Target:      f.target,
		TSConfig:    filepath.Join(dir, "tsconfig.json"),
		PackageJSON: filepath.Join(dir, "package.json"),
		Build: &domain.BuildPatch{
			EntryPoints: domain.EntryPointsFromPaths(filepath.Join(dir, "src", "index.ts")),
		},
	}, nil).AnyTimes()

	f.app = app.New(
		f.loader,
		config.NewProjectReader(),
		f.runner,
		f.bundler,
		f.watchers,
		f.icons,
		toolchain.New(f.runner),
		systemd.New(f.runner),
		f.logger,
	).WithWorkDir(dir).WithStats(f.stats)
	return f
}

func (f *fixture) entryNames() []string {
	var names []string
	for _, e := range f.stats.Entries() {
		names = append(names, e.Name)
	}
	return names
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)

	f.bundler.EXPECT().Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts domain.BuildOptions) (domain.BuildReport, error) {
			assert.Equal(t, domain.FormatESM, opts.Format)
			assert.Equal(t, f.target, opts.Outdir)
			assert.Equal(t, filepath.Join(f.dir, "src"), opts.SourceRoot)
			writeFile(t, filepath.Join(f.target, "index.js"), "export const x = 1;\n")
			return domain.BuildReport{}, nil
		})

	require.NoError(t, f.app.Build(context.Background(), app.BuildRequest{}))

	entries := f.stats.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "build", entries[0].Name)
	assert.Equal(t, "20 B", entries[0].Message)
}

func TestApp_Build_IconFontFirst(t *testing.T) {
	f := newFixture(t)

	svgs := filepath.Join(f.dir, "icons")
	gomock.InOrder(
		f.icons.EXPECT().Generate(gomock.Any(), domain.IconFontConfig{SVGDir: svgs}).Return(nil),
		f.bundler.EXPECT().Build(gomock.Any(), gomock.Any()).Return(domain.BuildReport{}, nil),
	)

	err := f.app.Build(context.Background(), app.BuildRequest{Icons: &domain.IconFontConfig{SVGDir: svgs}})
	require.NoError(t, err)
	assert.Equal(t, []string{"icons", "build"}, f.entryNames())
}

func TestApp_BuildPipeline(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.dir, "LICENSE"), "MIT\n")
	writeFile(t, filepath.Join(f.target, "stale.js"), "old")

	var commands []domain.Command
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command) (domain.RunResult, error) {
			commands = append(commands, cmd)
			if cmd.Args[0] == "dts-bundle-generator" {
				writeFile(t, filepath.Join(f.target, "index.d.ts"), "export declare const x = 1;\n")
			}
			return domain.RunResult{}, nil
		}).Times(2)
	f.bundler.EXPECT().Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.BuildOptions) (domain.BuildReport, error) {
			writeFile(t, filepath.Join(f.target, "index.js"), "export const x = 1;\n")
			return domain.BuildReport{}, nil
		})
	f.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, f.app.BuildPipeline(context.Background(), app.BuildPipelineRequest{}))

	assert.Equal(t, []string{
		"clear", "typecheck", "build", "generate .d.ts", "copy to target", "cut package.json",
	}, f.entryNames())

	require.Len(t, commands, 2)
	assert.Equal(t, "npx", commands[0].Executable)
	assert.Equal(t, []string{"tsc", "--project", filepath.Join(f.dir, "tsconfig.json"), "--noEmit"}, commands[0].Args)
	assert.Equal(t, filepath.Join(f.dir, "src"), commands[0].Dir)
	assert.False(t, commands[0].ExitOnError)
	assert.Equal(t, filepath.Join(f.dir, "src", "index.ts"), commands[1].Args[len(commands[1].Args)-1])

	assert.NoFileExists(t, filepath.Join(f.target, "stale.js"))
	assert.FileExists(t, filepath.Join(f.target, "LICENSE"))
	assert.NoFileExists(t, filepath.Join(f.target, "README.md"))

	trimmed, err := os.ReadFile(filepath.Join(f.target, "package.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(trimmed), "scripts")
	assert.NotContains(t, string(trimmed), "devDependencies")
	assert.Contains(t, string(trimmed), `"name": "@acme/tool"`)
}

func TestApp_BuildPipeline_TypecheckFailureStops(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(domain.RunResult{ExitCode: 2}, domain.ErrCommandFailed)

	err := f.app.BuildPipeline(context.Background(), app.BuildPipelineRequest{})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, []string{"clear"}, f.entryNames())
}

func TestApp_Serve(t *testing.T) {
	f := newFixture(t)
	buildCtx := mocks.NewMockBuildContext(gomock.NewController(t))

	f.bundler.EXPECT().NewContext(gomock.Any(), gomock.Any()).Return(buildCtx, nil)
	buildCtx.EXPECT().Serve(ports.ServeOptions{Host: "localhost", Servedir: f.target}).
		Return(ports.ServeResult{Host: "127.0.0.1", Port: 8000}, nil)
	f.logger.EXPECT().Info("Serving at http://localhost:8000")
	buildCtx.EXPECT().Dispose()

	srv, err := f.app.Serve(context.Background(), app.ServeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", srv.URL())
	srv.Dispose()
}

func TestApp_Serve_WatchesIconFont(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	buildCtx := mocks.NewMockBuildContext(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	svgs := filepath.Join(f.dir, "icons")
	cfg := domain.IconFontConfig{SVGDir: svgs}

	generated := make(chan struct{}, 2)
	f.icons.EXPECT().Generate(gomock.Any(), cfg).Times(2).
		DoAndReturn(func(context.Context, domain.IconFontConfig) error {
			generated <- struct{}{}
			return nil
		})

	stopped := make(chan struct{})
	f.watchers.EXPECT().NewWatcher().Return(w, nil)
	w.EXPECT().Start(gomock.Any(), svgs).Return(nil)
	w.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		if yield(ports.WatchEvent{Path: filepath.Join(svgs, "star.svg"), Operation: ports.OpWrite}) {
			<-stopped
		}
	}))
	w.EXPECT().Stop().DoAndReturn(func() error {
		close(stopped)
		return nil
	})

	f.bundler.EXPECT().NewContext(gomock.Any(), gomock.Any()).Return(buildCtx, nil)
	buildCtx.EXPECT().Serve(gomock.Any()).Return(ports.ServeResult{Port: 8000}, nil)
	f.logger.EXPECT().Info("Serving at http://localhost:8000")
	buildCtx.EXPECT().Dispose()

	srv, err := f.app.Serve(context.Background(), app.ServeRequest{Icons: &cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"icons", "serve"}, f.entryNames())

	for range 2 {
		select {
		case <-generated:
		case <-time.After(5 * time.Second):
			t.Fatal("icon font was not regenerated")
		}
	}
	srv.Dispose()
}

type fakeProcess struct {
	pid  int
	done chan struct{}
	once sync.Once
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Signal(os.Signal) error {
	p.once.Do(func() { close(p.done) })
	return nil
}

func (p *fakeProcess) Wait() (domain.RunResult, error) {
	<-p.done
	return domain.RunResult{}, nil
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func buildEndHooks(t *testing.T, opts domain.BuildOptions) []domain.BuildEndHook {
	t.Helper()
	for _, p := range opts.Plugins.List() {
		if p.Name == domain.PluginEventHandlers {
			return p.Hooks
		}
	}
	t.Fatal("event handlers plugin missing")
	return nil
}

func TestApp_Watch_RunAfterBuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	script := filepath.Join(f.target, "cli.js")
	writeFile(t, script, "console.log(1)\n")

	buildCtx := mocks.NewMockBuildContext(gomock.NewController(t))
	var opts domain.BuildOptions
	f.bundler.EXPECT().NewContext(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o domain.BuildOptions) (ports.BuildContext, error) {
			opts = o
			return buildCtx, nil
		})
	buildCtx.EXPECT().Watch().Return(nil)

	first, second := newFakeProcess(1), newFakeProcess(2)
	var started []domain.Command
	f.runner.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command) (ports.Process, error) {
			started = append(started, cmd)
			if len(started) == 1 {
				return first, nil
			}
			return second, nil
		}).Times(2)

	session, err := f.app.Watch(ctx, app.WatchRequest{Mode: domain.WatchPolling, RunAfterBuild: true})
	require.NoError(t, err)

	hooks := buildEndHooks(t, opts)
	runHooks := func(report domain.BuildReport) {
		for _, h := range hooks {
			require.NoError(t, h(ctx, report))
		}
	}

	runHooks(domain.BuildReport{Errors: []string{"syntax error"}})
	assert.Nil(t, session.Process())

	runHooks(domain.BuildReport{})
	require.NotNil(t, session.Process())
	assert.Equal(t, first, session.Process().Current())

	// Unchanged output keeps the process.
	runHooks(domain.BuildReport{})
	assert.Len(t, started, 1)

	writeFile(t, script, "console.log(2)\n")
	runHooks(domain.BuildReport{})
	assert.Len(t, started, 2)
	assert.Equal(t, second, session.Process().Current())
	<-first.Done()

	assert.Equal(t, "node", started[0].Executable)
	assert.Equal(t, []string{script}, started[0].Args)

	buildCtx.EXPECT().Dispose()
	require.NoError(t, session.Dispose(ctx))
	<-second.Done()
	assert.Equal(t, []string{"watch"}, f.entryNames())
}

func TestApp_Watch_DefaultModeNeedsSourceRoot(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.dir, "tsconfig.json"), `{}`)

	f.bundler.EXPECT().NewContext(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.app.Watch(context.Background(), app.WatchRequest{})
	require.ErrorIs(t, err, domain.ErrNoSourceRootForWatch)
}

func TestApp_CutPackageJSON_ConfiguredKeys(t *testing.T) {
	f := newFixture(t)

	err := f.app.CutPackageJSON(context.Background(), app.CutPackageJSONRequest{Keys: []string{"engines"}})
	require.NoError(t, err)

	trimmed, err := os.ReadFile(filepath.Join(f.target, "package.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(trimmed), "engines")
	assert.Contains(t, string(trimmed), "scripts")
}

func TestApp_AddNodeShebang_DefaultsToBin(t *testing.T) {
	f := newFixture(t)
	script := filepath.Join(f.target, "cli.js")
	writeFile(t, script, "console.log(1)\n")

	require.NoError(t, f.app.AddNodeShebang(context.Background()))

	content, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env node\n\nconsole.log(1)\n", string(content))
}

func TestApp_Symlink_DefaultsIntoTarget(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.target, 0o750))

	require.NoError(t, f.app.Symlink("package.json", ""))

	ok, err := f.app.IsSymlinkExists(filepath.Join(f.target, "package.json"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApp_Systemd_DefaultServiceName(t *testing.T) {
	f := newFixture(t)

	var got domain.Command
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command) (domain.RunResult, error) {
			got = cmd
			return domain.RunResult{}, nil
		})

	require.NoError(t, f.app.Systemd(context.Background(), app.SystemdRestart, "", false))
	assert.Equal(t, "systemctl", got.Executable)
	assert.Equal(t, []string{"--user", "restart", "tool"}, got.Args)
}

func TestApp_SystemdGenerateConfig(t *testing.T) {
	f := newFixture(t)
	nvmDir := filepath.Join(f.dir, "nvm")
	t.Setenv("NVM_DIR", nvmDir)

	require.NoDirExists(t, f.target)
	path, err := f.app.SystemdGenerateConfig(app.SystemdConfigRequest{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.target, "tool.service"), path)

	unit, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(unit), "Description=@acme/tool\n")
	assert.Contains(t, string(unit), filepath.Join(nvmDir, "nvm.sh"))
	assert.Contains(t, string(unit), "nvm run 18 ")
	assert.Contains(t, string(unit), filepath.Join(f.target, "cli.js"))
}

func TestApp_RunTests(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.dir, "src", "index.test.ts"), "import './index';\n")

	testJS := filepath.Join(f.target, "test.js")
	f.bundler.EXPECT().Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts domain.BuildOptions) (domain.BuildReport, error) {
			require.Len(t, opts.EntryPoints, 1)
			assert.Equal(t, filepath.Join(f.dir, "src", "generated", "test.ts"), opts.EntryPoints[0].In)
			assert.Equal(t, testJS, opts.Outfile)
			assert.Empty(t, opts.Outdir)
			return domain.BuildReport{}, nil
		})
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command) (domain.RunResult, error) {
			assert.Equal(t, "node", cmd.Executable)
			assert.Equal(t, []string{testJS}, cmd.Args)
			return domain.RunResult{}, nil
		})

	require.NoError(t, f.app.RunTests(context.Background(), app.RunTestsRequest{}))
	assert.Equal(t, []string{"generate test entrypoint", "build", "run tests"}, f.entryNames())
}
