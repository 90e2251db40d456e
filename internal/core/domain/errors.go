package domain

import "go.trai.ch/zerr"

var (
	// ErrSpecNotFound is returned when a package spec matches no workspace member.
	ErrSpecNotFound = zerr.New("package ID specification did not match any packages")

	// ErrAmbiguousSpec is returned when a package spec matches more than one member by name.
	ErrAmbiguousSpec = zerr.New("package ID specification is ambiguous")

	// ErrGraphInconsistency is returned when the resolver output contradicts itself,
	// e.g. a package has no node in the resolved dependency graph.
	ErrGraphInconsistency = zerr.New("package graph is inconsistent")

	// ErrCorruptLockfile is returned when the skeleton lockfile cannot be parsed.
	ErrCorruptLockfile = zerr.New("skeleton lockfile is corrupt")

	// ErrMissingLockfile is returned when no skeleton lockfile exists at the workspace root.
	ErrMissingLockfile = zerr.New("skeleton lockfile not found")

	// ErrPathEscapesWorkspace is returned when a manifest or archive entry points outside the root.
	ErrPathEscapesWorkspace = zerr.New("path escapes the workspace root")

	// ErrDestinationNotASkeleton is returned when unpacking would overwrite a real project.
	ErrDestinationNotASkeleton = zerr.New("destination contains a Cargo.toml but no Skeleton.lock")

	// ErrNothingToBuild is returned when the resolved build set is empty.
	ErrNothingToBuild = zerr.New("no packages to build")

	// ErrExternalProcessFailed is returned when cargo exits unsuccessfully.
	ErrExternalProcessFailed = zerr.New("external process failed")

	// ErrResolverFailed is returned when cargo metadata cannot be executed or parsed.
	ErrResolverFailed = zerr.New("failed to resolve workspace metadata")

	// ErrCorruptArchive is returned when a skeleton archive cannot be read.
	ErrCorruptArchive = zerr.New("skeleton archive is corrupt")

	// ErrUnsupportedEntry is returned for archive entries that are neither files nor directories.
	ErrUnsupportedEntry = zerr.New("unsupported archive entry")

	// ErrFileReadFailed is returned when a file required for the archive cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
