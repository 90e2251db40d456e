// Package archive builds and extracts skeleton archives: tar streams carrying a
// workspace's manifests, lockfiles and stub sources.
package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
)

const generatedMode = 0o644

// Builder writes skeleton archives.
type Builder struct {
	codec  ports.LockfileCodec
	logger ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(codec ports.LockfileCodec, logger ports.Logger) *Builder {
	return &Builder{
		codec:  codec,
		logger: logger,
	}
}

// entry is one file of the archive, either read from disk or generated.
type entry struct {
	name    string
	data    []byte
	mode    int64
	modTime time.Time
}

// Build writes the skeleton of ws to w. The archive holds, in order: the root
// manifest (unless it is also a member manifest), Cargo.lock, each member's
// manifest followed by stubs for its targets, and finally Skeleton.lock.
// The same workspace and layouts always produce the same bytes.
func (b *Builder) Build(w io.Writer, ws *domain.Workspace, layouts []domain.MemberLayout) error {
	root, err := filepath.Abs(ws.Root())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve workspace root"), "root", ws.Root())
	}

	members, err := memberLayouts(ws, layouts)
	if err != nil {
		return err
	}

	var entries []entry

	rootManifest := filepath.Join(root, domain.ManifestName)
	if !slices.ContainsFunc(members, func(l domain.MemberLayout) bool {
		return filepath.Clean(l.ManifestPath) == rootManifest
	}) {
		e, err := verbatim(root, rootManifest)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	lock, err := verbatim(root, filepath.Join(root, domain.PackageLockName))
	if err != nil {
		return err
	}
	entries = append(entries, lock)

	for _, layout := range members {
		manifest, err := verbatim(root, layout.ManifestPath)
		if err != nil {
			return err
		}
		entries = append(entries, manifest)

		stubs, err := stubEntries(root, layout)
		if err != nil {
			return err
		}
		entries = append(entries, stubs...)
	}

	data, err := b.codec.Marshal(ws.ToLockfile())
	if err != nil {
		return err
	}
	entries = append(entries, generated(domain.LockfileName, data))

	tw := tar.NewWriter(w)
	for _, e := range entries {
		b.logger.Debug("adding " + e.name)
		if err := writeEntry(tw, e); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return zerr.Wrap(err, "failed to finish archive")
	}

	return nil
}

// memberLayouts keeps the layouts of workspace members, sorted by name then id.
// Every member must have a layout.
func memberLayouts(ws *domain.Workspace, layouts []domain.MemberLayout) ([]domain.MemberLayout, error) {
	byID := make(map[domain.PackageID]domain.MemberLayout, len(layouts))
	for _, l := range layouts {
		if ws.IsMember(l.ID) {
			byID[l.ID] = l
		}
	}

	members := ws.Members()
	out := make([]domain.MemberLayout, 0, len(members))
	for _, pkg := range members {
		l, ok := byID[pkg.ID]
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrGraphInconsistency, "member has no manifest layout"), "package", pkg.ID.String())
		}
		out = append(out, l)
	}
	return out, nil
}

// stubEntries returns one stub per distinct target source path. When two targets
// share a file the executable stub is kept, since it also satisfies a library.
func stubEntries(root string, layout domain.MemberLayout) ([]entry, error) {
	targets := slices.Clone(layout.Targets)
	slices.SortFunc(targets, func(a, b domain.Target) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.SrcPath, b.SrcPath)
	})

	var order []string
	kinds := make(map[string]domain.TargetKind, len(targets))
	for _, t := range targets {
		rel, err := domain.RelativeTo(root, t.SrcPath)
		if err != nil {
			return nil, zerr.With(err, "package", layout.Name)
		}
		kind, seen := kinds[rel]
		if !seen {
			order = append(order, rel)
			kinds[rel] = t.Kind
			continue
		}
		if kind != domain.TargetExecutable {
			kinds[rel] = t.Kind
		}
	}

	out := make([]entry, 0, len(order))
	for _, rel := range order {
		out = append(out, generated(rel, Stub(kinds[rel])))
	}
	return out, nil
}

func verbatim(root, path string) (entry, error) {
	rel, err := domain.RelativeTo(root, path)
	if err != nil {
		return entry{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return entry{}, zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from cargo metadata inside the root
	if err != nil {
		return entry{}, zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", path)
	}

	return entry{
		name:    rel,
		data:    data,
		mode:    int64(info.Mode().Perm()),
		modTime: info.ModTime().Truncate(time.Second),
	}, nil
}

func generated(name string, data []byte) entry {
	return entry{
		name:    name,
		data:    data,
		mode:    generatedMode,
		modTime: time.Unix(0, 0),
	}
}

// writeEntry writes e with a host-independent header: no owner ids or names.
func writeEntry(tw *tar.Writer, e entry) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     e.name,
		Size:     int64(len(e.data)),
		Mode:     e.mode,
		ModTime:  e.modTime,
		Format:   tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive header"), "entry", e.name)
	}
	if _, err := io.Copy(tw, bytes.NewReader(e.data)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write archive entry"), "entry", e.name)
	}
	return nil
}
