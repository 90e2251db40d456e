// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/skeleton/internal/core/domain"
)

// MetadataResolver asks the package manager for the resolved workspace graph.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type MetadataResolver interface {
	// Resolve returns every package of the workspace's dependency graph, local or not,
	// together with the resolved dependency edges.
	Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.Resolution, error)
}
