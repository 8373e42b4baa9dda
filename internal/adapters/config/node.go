package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsbuild/internal/adapters/logger"
	"go.trai.ch/tsbuild/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the configuration loader Graft node.
	NodeID graft.ID = "adapter.config"
	// ProjectNodeID is the unique identifier for the project file reader Graft node.
	ProjectNodeID graft.ID = "adapter.project"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.ProjectReader]{
		ID:        ProjectNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectReader, error) {
			return NewProjectReader(), nil
		},
	})
}
