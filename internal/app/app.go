// Package app implements the application layer for cargo-skeleton.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/skeleton/internal/adapters/fs"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/skeleton/internal/engine/archive"
	"go.trai.ch/skeleton/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.MetadataResolver
	codec        ports.LockfileCodec
	hasher       ports.Hasher
	telemetry    ports.Telemetry
	logger       ports.Logger
	builder      *archive.Builder
	extractor    *archive.Extractor
	orchestrator *orchestrator.Orchestrator
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.MetadataResolver,
	codec ports.LockfileCodec,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
	log ports.Logger,
	builder *archive.Builder,
	extractor *archive.Extractor,
	orch *orchestrator.Orchestrator,
) *App {
	return &App{
		configLoader: loader,
		resolver:     resolver,
		codec:        codec,
		hasher:       hasher,
		telemetry:    telemetry,
		logger:       log,
		builder:      builder,
		extractor:    extractor,
		orchestrator: orch,
	}
}

// SetVerbose switches the logger to debug output.
func (a *App) SetVerbose(verbose bool) {
	if verbose {
		a.logger.SetLevel(domain.LogLevelDebug)
		return
	}
	a.logger.SetLevel(domain.LogLevelInfo)
}

// CreateOptions configures the create command.
type CreateOptions struct {
	// Dir is the directory the workspace is discovered from.
	Dir string
	// ManifestPath selects a specific Cargo.toml.
	ManifestPath string
	// OutPath is the archive to write. Empty means the configured default.
	OutPath string

	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
}

// Create resolves the workspace and writes its skeleton archive.
func (a *App) Create(ctx context.Context, opts CreateOptions) error {
	// 1. Load configuration
	cfg, err := a.configLoader.Load(opts.Dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Resolve the workspace
	res, err := a.resolver.Resolve(ctx, domain.ResolveOptions{
		Cargo:             cfg.Cargo,
		Dir:               opts.Dir,
		ManifestPath:      opts.ManifestPath,
		Features:          opts.Features,
		AllFeatures:       opts.AllFeatures,
		NoDefaultFeatures: opts.NoDefaultFeatures,
	})
	if err != nil {
		return err
	}

	ws := domain.NewWorkspace(res.WorkspaceRoot)
	ignored, err := ws.LoadResolution(res)
	if err != nil {
		return err
	}
	if len(ignored) > 0 {
		a.logger.Warn("ignoring local packages outside the workspace root: " + strings.Join(ignored, ", "))
	}

	layouts := make([]domain.MemberLayout, 0, ws.Len())
	for _, id := range ws.MemberIDs() {
		if layout, ok := res.Layout(id); ok {
			layouts = append(layouts, layout)
		}
	}

	// 3. Write the archive
	out := resolvePath(opts.Dir, opts.OutPath, cfg.Archive)
	if err := a.writeArchive(out, ws, layouts); err != nil {
		return err
	}

	// 4. Report
	sum, err := a.hasher.ComputeFileHash(out)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("wrote %s with %d members (xxhash %s)", out, ws.Len(), fs.FormatDigest(sum)))

	return nil
}

// writeArchive builds into a temporary file next to out and renames it into place,
// so a failed build never leaves a partial archive behind.
func (a *App) writeArchive(out string, ws *domain.Workspace, layouts []domain.MemberLayout) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".skeleton-*.tar")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", out)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := a.builder.Build(tmp, ws, layouts); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", out)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", out)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", out)
	}
	return nil
}

// UnpackOptions configures the unpack command.
type UnpackOptions struct {
	// Dir is the directory the config file is read from.
	Dir string
	// ArchivePath is the archive to read. Empty means the configured default.
	ArchivePath string
	// OutPath is the destination directory. Empty means Dir.
	OutPath string
}

// Unpack reconstructs a skeleton from an archive.
func (a *App) Unpack(_ context.Context, opts UnpackOptions) error {
	cfg, err := a.configLoader.Load(opts.Dir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	path := resolvePath(opts.Dir, opts.ArchivePath, cfg.Archive)
	dest := resolvePath(opts.Dir, opts.OutPath, ".")

	sum, err := a.hasher.ComputeFileHash(path)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("unpacking %s (xxhash %s) into %s", path, fs.FormatDigest(sum), dest))

	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	return a.extractor.Extract(f, dest)
}

// BuildOptions configures the build command.
type BuildOptions struct {
	// Dir is the workspace root holding Skeleton.lock.
	Dir string
	// ManifestPath selects a workspace by its root Cargo.toml instead of Dir.
	ManifestPath string

	Packages   []string
	Exclude    []string
	All        bool
	Transitive bool

	// Args are passed through to every cargo build invocation.
	Args []string
}

// Build compiles the external dependencies of the selected members of an unpacked skeleton.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	root := opts.Dir
	if opts.ManifestPath != "" {
		root = filepath.Dir(opts.ManifestPath)
	}

	// 1. Load configuration
	cfg, err := a.configLoader.Load(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Load the workspace snapshot
	lf, err := a.codec.Load(root)
	if err != nil {
		return err
	}
	ws := domain.NewWorkspace(root)
	ws.LoadLockfile(lf)
	a.logger.Debug(fmt.Sprintf("loaded %d members from %s", ws.Len(), domain.LockfileName))

	// 3. Build
	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn("failed to close telemetry: " + err.Error())
		}
	}()

	return a.orchestrator.Build(ctx, ws, orchestrator.BuildOptions{
		Packages:   opts.Packages,
		Exclude:    opts.Exclude,
		All:        opts.All,
		Transitive: opts.Transitive || cfg.Transitive,
		Cargo:      cfg.Cargo,
		Root:       root,
		Flags:      cfg.BuildFlags,
		Args:       opts.Args,
	})
}

// resolvePath returns path, or fallback when path is empty, anchored at dir when relative.
func resolvePath(dir, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
