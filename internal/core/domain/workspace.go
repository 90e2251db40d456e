package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Workspace owns the member packages of a cargo workspace and their dependency edges.
// It is populated once, either from a resolver run or from a lockfile, and is read-only afterwards.
type Workspace struct {
	root     string
	packages map[PackageID]Package
}

// NewWorkspace creates an empty Workspace rooted at root.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		root:     filepath.Clean(root),
		packages: make(map[PackageID]Package),
	}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Len returns the number of members.
func (w *Workspace) Len() int {
	return len(w.packages)
}

// AddMember inserts pkg unless a member with the same id already exists.
// The first insertion wins; the same package can be reached through several resolve nodes.
func (w *Workspace) AddMember(pkg Package) {
	if _, exists := w.packages[pkg.ID]; exists {
		return
	}
	w.packages[pkg.ID] = pkg
}

// IsMember reports whether id belongs to a workspace member.
func (w *Workspace) IsMember(id PackageID) bool {
	_, ok := w.packages[id]
	return ok
}

// Get returns the member with the given id.
func (w *Workspace) Get(id PackageID) (Package, bool) {
	pkg, ok := w.packages[id]
	return pkg, ok
}

// Members returns every member sorted by name, then id.
func (w *Workspace) Members() []Package {
	members := make([]Package, 0, len(w.packages))
	for _, pkg := range w.packages {
		members = append(members, pkg)
	}
	slices.SortFunc(members, compareByName)
	return members
}

// MemberIDs returns the ids of every member sorted by id.
func (w *Workspace) MemberIDs() []PackageID {
	ids := make([]PackageID, 0, len(w.packages))
	for id := range w.packages {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, PackageID.Compare)
	return ids
}

func compareByName(a, b Package) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return a.ID.Compare(b.ID)
}

// ResolveSpec finds the member matching spec, by name first and by exact id second.
// Two members sharing the requested name is an error rather than an arbitrary pick.
func (w *Workspace) ResolveSpec(spec string) (PackageID, error) {
	var byName []PackageID
	for _, pkg := range w.packages {
		if pkg.Name == spec {
			byName = append(byName, pkg.ID)
		}
	}

	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		slices.SortFunc(byName, PackageID.Compare)
		matches := make([]string, len(byName))
		for i, id := range byName {
			matches[i] = id.String()
		}
		err := zerr.With(zerr.Wrap(ErrAmbiguousSpec, "spec matches several members"), "spec", spec)
		return "", zerr.With(err, "matches", strings.Join(matches, ", "))
	}

	if w.IsMember(PackageID(spec)) {
		return PackageID(spec), nil
	}

	return "", zerr.With(zerr.Wrap(ErrSpecNotFound, "unknown package"), "spec", spec)
}

// ResolveSpecs resolves every spec, failing on the first one that does not match.
func (w *Workspace) ResolveSpecs(specs []string) ([]PackageID, error) {
	ids := make([]PackageID, 0, len(specs))
	for _, spec := range specs {
		id, err := w.ResolveSpec(spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadResolution populates the workspace from a resolver run.
// Only local packages whose manifest lies inside the root become members; the names
// of local packages skipped for living outside the root are returned for reporting.
func (w *Workspace) LoadResolution(res *Resolution) ([]string, error) {
	var (
		candidates []ResolvedPackage
		ignored    []string
	)

	for _, pkg := range res.Packages {
		if !pkg.IsLocal() {
			continue
		}
		if !IsWithin(w.root, pkg.ManifestPath) {
			ignored = append(ignored, pkg.Name)
			continue
		}
		candidates = append(candidates, pkg)
	}

	slices.SortFunc(candidates, func(a, b ResolvedPackage) int {
		return a.ID.Compare(b.ID)
	})

	members := make([]Package, 0, len(candidates))
	for _, pkg := range candidates {
		deps, err := normalDependencies(res, pkg.ID)
		if err != nil {
			return nil, err
		}
		members = append(members, NewPackage(pkg.Name, pkg.ID, deps))
	}

	for _, pkg := range members {
		w.AddMember(pkg)
	}

	return ignored, nil
}

func normalDependencies(res *Resolution, id PackageID) ([]PackageID, error) {
	if res.Nodes == nil {
		return nil, zerr.With(zerr.Wrap(ErrGraphInconsistency, "metadata missing resolve section"), "package", id.String())
	}

	node, ok := res.Node(id)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrGraphInconsistency, "missing package resolution"), "package", id.String())
	}

	var deps []PackageID
	for _, dep := range node.Deps {
		if dep.IsNormal() {
			deps = append(deps, dep.Pkg)
		}
	}
	return deps, nil
}

// LoadLockfile populates the workspace from a lockfile snapshot.
// Records are inserted as-is: the snapshot only ever contains members.
func (w *Workspace) LoadLockfile(lf *Lockfile) {
	for _, rec := range lf.Packages {
		w.AddMember(NewPackage(rec.Name, rec.ID, rec.Dependencies))
	}
}

// ToLockfile snapshots the workspace, one record per member sorted by id.
func (w *Workspace) ToLockfile() *Lockfile {
	lf := &Lockfile{
		Version:  LockfileVersion,
		Packages: make([]LockedPackage, 0, len(w.packages)),
	}
	for _, id := range w.MemberIDs() {
		pkg := w.packages[id]
		lf.Packages = append(lf.Packages, LockedPackage{
			Name:         pkg.Name,
			ID:           pkg.ID,
			Dependencies: slices.Clone(pkg.Dependencies),
		})
	}
	return lf
}

// ExternalDependencies returns the direct dependencies of id that are not members.
func (w *Workspace) ExternalDependencies(id PackageID) []PackageID {
	return w.filterDependencies(id, false)
}

// LocalDependencies returns the direct dependencies of id that are members.
func (w *Workspace) LocalDependencies(id PackageID) []PackageID {
	return w.filterDependencies(id, true)
}

func (w *Workspace) filterDependencies(id PackageID, members bool) []PackageID {
	pkg, ok := w.packages[id]
	if !ok {
		return nil
	}
	var out []PackageID
	for _, dep := range pkg.Dependencies {
		if w.IsMember(dep) == members {
			out = append(out, dep)
		}
	}
	return out
}
