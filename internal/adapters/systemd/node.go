package systemd

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsbuild/internal/adapters/shell"
	"go.trai.ch/tsbuild/internal/core/ports"
)

// NodeID is the unique identifier for the systemd Graft node.
const NodeID graft.ID = "adapter.systemd"

func init() {
	graft.Register(graft.Node[*Systemd]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Systemd, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner), nil
		},
	})
}
