package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/skeleton/internal/app"
	_ "go.trai.ch/skeleton/internal/wiring"
)

// TestGraftDependencies ensures that the dependency injection graph is valid
// at compile/test time.
func TestGraftDependencies(t *testing.T) {
	// AssertDepsValid infers dependency ids from the package of the type passed to
	// Dep[T], so every ports.X lookup is reported as a dependency named "ports".
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestGraftResolvesComponents(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
