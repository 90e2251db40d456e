package cargo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/skeleton/internal/adapters/logger"
	"go.trai.ch/skeleton/internal/core/ports"
)

const (
	// ResolverNodeID is the unique identifier for the cargo metadata Graft node.
	ResolverNodeID graft.ID = "adapter.cargo.resolver"
	// CompilerNodeID is the unique identifier for the cargo build Graft node.
	CompilerNodeID graft.ID = "adapter.cargo.compiler"
)

func init() {
	graft.Register(graft.Node[ports.MetadataResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MetadataResolver, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewMetadataResolver(log), nil
		},
	})

	graft.Register(graft.Node[ports.Compiler]{
		ID:        CompilerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Compiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCompiler(log), nil
		},
	})
}
