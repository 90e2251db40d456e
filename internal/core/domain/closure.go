package domain

import "slices"

// ExpansionMode selects how far a requested package pulls in its local dependencies.
type ExpansionMode int

const (
	// ExpandOneHop adds only the direct member dependencies of each requested package.
	ExpandOneHop ExpansionMode = iota
	// ExpandTransitive adds every member reachable over local dependency edges.
	ExpandTransitive
)

// Closure expands ids with their member dependencies according to mode.
// Ids that are not members are dropped. The result is sorted by name, then id.
func (w *Workspace) Closure(ids []PackageID, mode ExpansionMode) []Package {
	selected := make(map[PackageID]struct{}, len(ids))

	var visit func(id PackageID)
	visit = func(id PackageID) {
		if _, seen := selected[id]; seen || !w.IsMember(id) {
			return
		}
		selected[id] = struct{}{}
		for _, dep := range w.LocalDependencies(id) {
			visit(dep)
		}
	}

	for _, id := range ids {
		if !w.IsMember(id) {
			continue
		}
		if mode == ExpandTransitive {
			visit(id)
			continue
		}
		selected[id] = struct{}{}
		for _, dep := range w.LocalDependencies(id) {
			selected[dep] = struct{}{}
		}
	}

	out := make([]Package, 0, len(selected))
	for id := range selected {
		out = append(out, w.packages[id])
	}
	slices.SortFunc(out, compareByName)
	return out
}
