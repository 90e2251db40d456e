// Package domain contains the core models of a skeleton workspace: packages, their
// resolved dependency edges, and the lockfile snapshot that reconstructs them.
package domain

import (
	"slices"
	"strings"
)

// PackageID is an opaque package identifier copied verbatim from cargo.
// It is never parsed; equality and ordering use the raw string.
type PackageID string

// String returns the raw identifier.
func (id PackageID) String() string {
	return string(id)
}

// Compare orders package ids by their raw string.
func (id PackageID) Compare(other PackageID) int {
	return strings.Compare(string(id), string(other))
}

// Package is a workspace member and the ids of its direct normal dependencies.
// Dependencies may reference packages that are not workspace members.
type Package struct {
	// Name is the name field of the package manifest.
	Name string

	// ID is the unique identifier assigned by cargo.
	ID PackageID

	// Dependencies holds the resolved direct dependencies, sorted and without duplicates.
	Dependencies []PackageID
}

// NewPackage builds a Package with its dependency ids normalized to a sorted set.
func NewPackage(name string, id PackageID, deps []PackageID) Package {
	return Package{
		Name:         name,
		ID:           id,
		Dependencies: normalizeIDs(deps),
	}
}

// DependsOn reports whether id is one of the package's direct dependencies.
func (p *Package) DependsOn(id PackageID) bool {
	_, found := slices.BinarySearchFunc(p.Dependencies, id, PackageID.Compare)
	return found
}

func normalizeIDs(ids []PackageID) []PackageID {
	if len(ids) == 0 {
		return nil
	}
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, PackageID.Compare)
	return slices.Compact(sorted)
}

// TargetKind distinguishes the two stub shapes a compilation target can need.
type TargetKind int

const (
	// TargetLibrary is any target compiled without an entry point.
	TargetLibrary TargetKind = iota
	// TargetExecutable is any target that needs a main function.
	TargetExecutable
)

// String returns the string representation of the TargetKind.
func (k TargetKind) String() string {
	if k == TargetExecutable {
		return "executable"
	}
	return "library"
}

// Target is a single compilation target of a member package.
type Target struct {
	Name    string
	Kind    TargetKind
	SrcPath string
}

// MemberLayout describes where a member's files live on disk.
// It is the per-member input the archive builder needs besides the graph itself.
type MemberLayout struct {
	ID           PackageID
	Name         string
	ManifestPath string
	Targets      []Target
}
