package domain

// DefaultArchiveName is the archive path used when none is configured.
const DefaultArchiveName = "skeleton.tar"

// Config holds the settings read from skeleton.yaml, already merged with defaults.
type Config struct {
	// Cargo is the cargo executable. $CARGO takes precedence when set.
	Cargo string

	// Archive is the default archive path for create and unpack.
	Archive string

	// BuildFlags are appended to every cargo build invocation.
	BuildFlags []string

	// Transitive expands requested packages over all local dependency edges.
	Transitive bool
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Cargo:      "cargo",
		Archive:    DefaultArchiveName,
		BuildFlags: []string{"--release", "--locked"},
	}
}

// BuildRequest is a single cargo build invocation for one member.
type BuildRequest struct {
	// Cargo is the cargo executable; empty means "cargo" from PATH.
	Cargo string

	// Root is the directory the build runs in.
	Root string

	// Package is the member whose external dependencies are being compiled.
	Package Package

	// Selectors are the external dependency ids passed as "-p" selectors.
	Selectors []PackageID

	// Flags are the intensity flags, e.g. --release and --locked.
	Flags []string

	// Args are caller-supplied pass-through arguments.
	Args []string
}

// ResolveOptions selects how the package manager resolves the workspace.
type ResolveOptions struct {
	// Cargo is the cargo executable; empty means "cargo" from PATH.
	Cargo string

	// Dir is the directory the resolver runs in.
	Dir string

	// ManifestPath points at a specific Cargo.toml instead of discovering one from Dir.
	ManifestPath string

	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
}
