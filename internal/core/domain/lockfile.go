package domain

const (
	// LockfileName is the reserved file name of the skeleton lockfile at the workspace root.
	// Its presence also marks a directory as an unpacked skeleton.
	LockfileName = "Skeleton.lock"

	// LockfileVersion is the current skeleton lockfile format version.
	LockfileVersion = 1

	// ManifestName is the package manifest file name.
	ManifestName = "Cargo.toml"

	// PackageLockName is the package manager's own lockfile at the workspace root.
	PackageLockName = "Cargo.lock"
)

// Lockfile is a snapshot of the local members of a workspace and their resolved edges.
// It lets a later stage rebuild the Workspace without running dependency resolution.
type Lockfile struct {
	// Version is the lockfile format version.
	Version int

	// Packages holds one record per member, sorted by id.
	Packages []LockedPackage
}

// LockedPackage is the lockfile record of a single member.
type LockedPackage struct {
	Name         string
	ID           PackageID
	Dependencies []PackageID
}
