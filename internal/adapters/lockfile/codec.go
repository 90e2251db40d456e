// Package lockfile reads and writes Skeleton.lock, the TOML snapshot of a workspace's members.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	toml "github.com/pelletier/go-toml/v2"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
)

const header = "# This file is generated by cargo-skeleton. It is not intended for manual editing.\n"

var _ ports.LockfileCodec = (*Codec)(nil)

type fileDTO struct {
	Version  int          `toml:"version"`
	Packages []packageDTO `toml:"package"`
}

type packageDTO struct {
	Name         string   `toml:"name"`
	ID           string   `toml:"id"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

// Codec implements ports.LockfileCodec using go-toml.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Marshal renders lf with its records sorted by id, so equal snapshots produce equal bytes.
func (c *Codec) Marshal(lf *domain.Lockfile) ([]byte, error) {
	version := lf.Version
	if version == 0 {
		version = domain.LockfileVersion
	}

	file := fileDTO{
		Version:  version,
		Packages: make([]packageDTO, 0, len(lf.Packages)),
	}
	for _, rec := range lf.Packages {
		deps := make([]string, len(rec.Dependencies))
		for i, dep := range rec.Dependencies {
			deps[i] = dep.String()
		}
		slices.Sort(deps)
		file.Packages = append(file.Packages, packageDTO{
			Name:         rec.Name,
			ID:           rec.ID.String(),
			Dependencies: slices.Compact(deps),
		})
	}
	slices.SortFunc(file.Packages, func(a, b packageDTO) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode lockfile")
	}
	return append([]byte(header), data...), nil
}

// Unmarshal parses a lockfile. Only structure is checked: ids are not resolved.
func (c *Codec) Unmarshal(data []byte) (*domain.Lockfile, error) {
	var file fileDTO
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(domain.ErrCorruptLockfile, err.Error())
	}

	if file.Version == 0 {
		file.Version = domain.LockfileVersion
	}
	if file.Version != domain.LockfileVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrCorruptLockfile, "unsupported lockfile version"), "version", file.Version)
	}

	lf := &domain.Lockfile{
		Version:  file.Version,
		Packages: make([]domain.LockedPackage, 0, len(file.Packages)),
	}
	for i, rec := range file.Packages {
		if rec.Name == "" || rec.ID == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrCorruptLockfile, "package record is missing name or id"), "index", i)
		}
		var deps []domain.PackageID
		for _, dep := range rec.Dependencies {
			deps = append(deps, domain.PackageID(dep))
		}
		lf.Packages = append(lf.Packages, domain.LockedPackage{
			Name:         rec.Name,
			ID:           domain.PackageID(rec.ID),
			Dependencies: deps,
		})
	}
	return lf, nil
}

// Load reads <root>/Skeleton.lock.
func (c *Codec) Load(root string) (*domain.Lockfile, error) {
	path := filepath.Join(root, domain.LockfileName)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the workspace root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingLockfile, "run `cargo skeleton unpack` first"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", path)
	}

	lf, err := c.Unmarshal(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lf, nil
}
