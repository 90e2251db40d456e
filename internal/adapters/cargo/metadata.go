// Package cargo adapts the cargo CLI: workspace resolution via `cargo metadata`
// and compilation via `cargo build`.
package cargo

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBinary is used when no cargo executable is configured.
const DefaultBinary = "cargo"

var _ ports.MetadataResolver = (*MetadataResolver)(nil)

// MetadataResolver implements ports.MetadataResolver using `cargo metadata`.
type MetadataResolver struct {
	logger ports.Logger
}

// NewMetadataResolver creates a new MetadataResolver.
func NewMetadataResolver(logger ports.Logger) *MetadataResolver {
	return &MetadataResolver{logger: logger}
}

// Resolve runs cargo metadata and parses its output.
func (r *MetadataResolver) Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.Resolution, error) {
	bin := binary(opts.Cargo)
	args := MetadataArgs(opts)
	r.logger.Debug("running " + bin + " " + strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // cargo binary is configured by the user
	cmd.Dir = opts.Dir

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			resErr := zerr.Wrap(domain.ErrResolverFailed, "cargo metadata exited unsuccessfully")
			resErr = zerr.With(resErr, "exit_code", exitErr.ExitCode())
			return nil, zerr.With(resErr, "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrResolverFailed, err.Error()), "cargo", bin)
	}

	return ParseMetadata(output)
}

// MetadataArgs builds the cargo metadata argument list for opts.
func MetadataArgs(opts domain.ResolveOptions) []string {
	args := []string{"metadata", "--format-version", "1"}
	if opts.ManifestPath != "" {
		args = append(args, "--manifest-path", opts.ManifestPath)
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", strings.Join(opts.Features, ","))
	}
	if opts.AllFeatures {
		args = append(args, "--all-features")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	return args
}

// ParseMetadata converts cargo metadata JSON into a domain.Resolution.
func ParseMetadata(data []byte) (*domain.Resolution, error) {
	var meta metadataDTO
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, zerr.Wrap(domain.ErrResolverFailed, "failed to parse cargo metadata JSON output: "+err.Error())
	}

	res := &domain.Resolution{
		WorkspaceRoot: meta.WorkspaceRoot,
		Packages:      make([]domain.ResolvedPackage, 0, len(meta.Packages)),
	}

	for _, pkg := range meta.Packages {
		resolved := domain.ResolvedPackage{
			Name:         pkg.Name,
			ID:           domain.PackageID(pkg.ID),
			ManifestPath: pkg.ManifestPath,
			Targets:      make([]domain.Target, 0, len(pkg.Targets)),
		}
		if pkg.Source != nil {
			resolved.Source = *pkg.Source
		}
		for _, t := range pkg.Targets {
			resolved.Targets = append(resolved.Targets, domain.Target{
				Name:    t.Name,
				Kind:    TargetKind(t.Kind),
				SrcPath: t.SrcPath,
			})
		}
		res.Packages = append(res.Packages, resolved)
	}

	if meta.Resolve == nil {
		return res, nil
	}

	res.Nodes = make([]domain.ResolveNode, 0, len(meta.Resolve.Nodes))
	for _, node := range meta.Resolve.Nodes {
		rn := domain.ResolveNode{ID: domain.PackageID(node.ID)}
		for _, dep := range node.Deps {
			rn.Deps = append(rn.Deps, domain.ResolveDep{
				Pkg:   domain.PackageID(dep.Pkg),
				Kinds: dependencyKinds(dep.DepKinds),
			})
		}
		res.Nodes = append(res.Nodes, rn)
	}

	return res, nil
}

// TargetKind maps cargo target kinds onto the two stub flavours.
// Anything cargo links as a program needs a main function.
func TargetKind(kinds []string) domain.TargetKind {
	for _, k := range kinds {
		switch k {
		case "bin", "example", "custom-build":
			return domain.TargetExecutable
		}
	}
	return domain.TargetLibrary
}

// dependencyKinds maps dep_kinds entries. Cargo releases predating dep_kinds
// report no kinds at all; those edges are read as normal.
func dependencyKinds(kinds []depKindDTO) []domain.DependencyKind {
	if len(kinds) == 0 {
		return []domain.DependencyKind{domain.DependencyNormal}
	}
	out := make([]domain.DependencyKind, 0, len(kinds))
	for _, k := range kinds {
		if k.Kind == nil {
			out = append(out, domain.DependencyNormal)
			continue
		}
		out = append(out, domain.DependencyKind(*k.Kind))
	}
	return out
}

func binary(configured string) string {
	if configured == "" {
		return DefaultBinary
	}
	return configured
}
