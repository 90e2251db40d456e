package domain

// DependencyKind is the kind of a resolved dependency edge.
type DependencyKind string

const (
	// DependencyNormal is a regular dependency.
	DependencyNormal DependencyKind = "normal"
	// DependencyDev is a dev-dependency.
	DependencyDev DependencyKind = "dev"
	// DependencyBuild is a build-dependency.
	DependencyBuild DependencyKind = "build"
)

// Resolution is the package manager's view of a workspace: every package in the
// dependency graph, local or not, and the resolved edges between them.
type Resolution struct {
	WorkspaceRoot string
	Packages      []ResolvedPackage

	// Nodes is nil when the package manager returned no resolve section.
	Nodes []ResolveNode
}

// ResolvedPackage is a package as reported by the resolver.
type ResolvedPackage struct {
	Name string
	ID   PackageID

	// Source is empty for local path packages.
	Source       string
	ManifestPath string
	Targets      []Target
}

// IsLocal reports whether the package has no external source.
func (p *ResolvedPackage) IsLocal() bool {
	return p.Source == ""
}

// ResolveNode is the resolved dependency list of one package.
type ResolveNode struct {
	ID   PackageID
	Deps []ResolveDep
}

// ResolveDep is a single resolved edge with every kind it was declared as.
type ResolveDep struct {
	Pkg   PackageID
	Kinds []DependencyKind
}

// IsNormal reports whether the edge is declared as a normal dependency at least once.
func (d *ResolveDep) IsNormal() bool {
	for _, kind := range d.Kinds {
		if kind == DependencyNormal {
			return true
		}
	}
	return false
}

// Node returns the resolve node for id.
func (r *Resolution) Node(id PackageID) (ResolveNode, bool) {
	for _, node := range r.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return ResolveNode{}, false
}

// Layout returns the on-disk layout of the package with the given id.
func (r *Resolution) Layout(id PackageID) (MemberLayout, bool) {
	for i := range r.Packages {
		pkg := &r.Packages[i]
		if pkg.ID == id {
			return MemberLayout{
				ID:           pkg.ID,
				Name:         pkg.Name,
				ManifestPath: pkg.ManifestPath,
				Targets:      pkg.Targets,
			}, true
		}
	}
	return MemberLayout{}, false
}
