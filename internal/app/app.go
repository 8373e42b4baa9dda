// Package app implements the application layer for tsbuild.
package app

import (
	"context"
	"os"
	"sync"

	"go.trai.ch/tsbuild/internal/adapters/systemd"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/ports"
	"go.trai.ch/tsbuild/internal/engine/resolver"
	"go.trai.ch/tsbuild/internal/engine/stats"
	"go.trai.ch/tsbuild/internal/engine/watch"
	"go.trai.ch/zerr"
)

// App is the configured facade over every build operation. Each operation is recorded in its stats.
type App struct {
	configLoader ports.ConfigLoader
	project      ports.ProjectReader
	runner       ports.Runner
	bundler      ports.Bundler
	watchers     ports.WatcherFactory
	icons        ports.IconGenerator
	toolchain    *toolchain.Toolchain
	systemd      *systemd.Systemd
	logger       ports.Logger
	stats        *stats.Collector

	workDir string

	resolveOnce sync.Once
	resolver    *resolver.Resolver
	resolveErr  error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	project ports.ProjectReader,
	runner ports.Runner,
	bundler ports.Bundler,
	watchers ports.WatcherFactory,
	icons ports.IconGenerator,
	tc *toolchain.Toolchain,
	sd *systemd.Systemd,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		project:      project,
		runner:       runner,
		bundler:      bundler,
		watchers:     watchers,
		icons:        icons,
		toolchain:    tc,
		systemd:      sd,
		logger:       log,
		stats:        stats.New(),
	}
}

// WithWorkDir sets the directory the project configuration is searched from. Defaults to the working directory.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithStats replaces the stats collector.
func (a *App) WithStats(c *stats.Collector) *App {
	a.stats = c
	return a
}

// Resolver returns the project's configuration resolver, loading tsbuild.yaml on first use.
func (a *App) Resolver() (*resolver.Resolver, error) {
	a.resolveOnce.Do(func() {
		dir := a.workDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				a.resolveErr = zerr.Wrap(err, "failed to get working directory")
				return
			}
			dir = wd
		}
		defaults, err := a.configLoader.Load(dir)
		if err != nil {
			a.resolveErr = zerr.Wrap(err, "failed to load configuration")
			return
		}
		a.resolver = resolver.New(defaults, a.project)
	})
	return a.resolver, a.resolveErr
}

// PrintStats renders the timing report of every operation so far.
func (a *App) PrintStats() string {
	return a.stats.Print()
}

func (a *App) coordinator(r *resolver.Resolver) *watch.Coordinator {
	return watch.New(a.bundler, a.watchers, a.logger).WithDebounce(r.Defaults().Watch.Debounce)
}

// measure records action under name once the resolver is available.
func (a *App) measure(
	ctx context.Context,
	name string,
	action func(ctx context.Context, r *resolver.Resolver) (string, error),
) error {
	r, err := a.Resolver()
	if err != nil {
		return err
	}
	return a.stats.Measure(ctx, name, func(ctx context.Context) (string, error) {
		return action(ctx, r)
	})
}
