package icons

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/ports"
)

// NodeID is the unique identifier for the icon generator Graft node.
const NodeID graft.ID = "adapter.icons"

func init() {
	graft.Register(graft.Node[ports.IconGenerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{toolchain.NodeID},
		Run: func(ctx context.Context) (ports.IconGenerator, error) {
			tc, err := graft.Dep[*toolchain.Toolchain](ctx)
			if err != nil {
				return nil, err
			}
			return New(tc), nil
		},
	})
}
