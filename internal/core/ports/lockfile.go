package ports

import "go.trai.ch/skeleton/internal/core/domain"

// LockfileCodec reads and writes the Skeleton.lock format.
//
//go:generate mockgen -source=lockfile.go -destination=mocks/mock_lockfile.go -package=mocks
type LockfileCodec interface {
	// Marshal renders lf in its canonical textual form.
	Marshal(lf *domain.Lockfile) ([]byte, error)

	// Unmarshal parses data, returning domain.ErrCorruptLockfile on malformed input.
	Unmarshal(data []byte) (*domain.Lockfile, error)

	// Load reads the lockfile stored at the root of a workspace.
	// A missing file is reported as domain.ErrMissingLockfile.
	Load(root string) (*domain.Lockfile, error)
}
