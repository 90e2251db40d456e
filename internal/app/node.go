package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/skeleton/internal/adapters/cargo"              //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/adapters/lockfile"           //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/skeleton/internal/engine/archive"
	"go.trai.ch/skeleton/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cargo.ResolverNodeID,
			lockfile.NodeID,
			fs.HasherNodeID,
			progrock.NodeID,
			logger.NodeID,
			archive.BuilderNodeID,
			archive.ExtractorNodeID,
			orchestrator.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.MetadataResolver](ctx)
	if err != nil {
		return nil, err
	}

	codec, err := graft.Dep[ports.LockfileCodec](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[*archive.Builder](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[*archive.Extractor](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, codec, hasher, telemetry, log, builder, extractor, orch), nil
}
