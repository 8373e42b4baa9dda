package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsbuild/internal/adapters/config"
	"go.trai.ch/tsbuild/internal/adapters/esbuild"
	"go.trai.ch/tsbuild/internal/adapters/icons"
	"go.trai.ch/tsbuild/internal/adapters/logger"
	"go.trai.ch/tsbuild/internal/adapters/shell"
	"go.trai.ch/tsbuild/internal/adapters/systemd"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/adapters/watcher"
	"go.trai.ch/tsbuild/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main application Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the CLI needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.ProjectNodeID,
			shell.NodeID,
			esbuild.NodeID,
			watcher.NodeID,
			icons.NodeID,
			toolchain.NodeID,
			systemd.NodeID,
			logger.NodeID,
		},
		Run: runApp,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runApp(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	project, err := graft.Dep[ports.ProjectReader](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[ports.Runner](ctx)
	if err != nil {
		return nil, err
	}
	bundler, err := graft.Dep[ports.Bundler](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	iconGen, err := graft.Dep[ports.IconGenerator](ctx)
	if err != nil {
		return nil, err
	}
	tc, err := graft.Dep[*toolchain.Toolchain](ctx)
	if err != nil {
		return nil, err
	}
	sd, err := graft.Dep[*systemd.Systemd](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, project, runner, bundler, watchers, iconGen, tc, sd, log), nil
}
