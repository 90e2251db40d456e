package ports

import (
	"context"

	"go.trai.ch/skeleton/internal/core/domain"
)

// Compiler runs the package manager's build for a set of package selectors.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Build runs one build invocation and blocks until it exits.
	// A non-zero exit is reported as domain.ErrExternalProcessFailed.
	Build(ctx context.Context, req domain.BuildRequest) error
}
