package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/skeleton/internal/adapters/lockfile"
	"go.trai.ch/skeleton/internal/adapters/logger"
	"go.trai.ch/skeleton/internal/core/ports"
)

const (
	// BuilderNodeID is the unique identifier for the archive builder Graft node.
	BuilderNodeID graft.ID = "engine.archive.builder"
	// ExtractorNodeID is the unique identifier for the archive extractor Graft node.
	ExtractorNodeID graft.ID = "engine.archive.extractor"
)

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{lockfile.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			codec, err := graft.Dep[ports.LockfileCodec](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(codec, log), nil
		},
	})

	graft.Register(graft.Node[*Extractor]{
		ID:        ExtractorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Extractor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExtractor(log), nil
		},
	})
}
