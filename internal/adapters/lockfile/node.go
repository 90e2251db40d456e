package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/skeleton/internal/core/ports"
)

// NodeID is the unique identifier for the lockfile codec Graft node.
const NodeID graft.ID = "adapter.lockfile"

func init() {
	graft.Register(graft.Node[ports.LockfileCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LockfileCodec, error) {
			return NewCodec(), nil
		},
	})
}
