package cargo

// metadataDTO is the subset of `cargo metadata --format-version 1` output that is read.
type metadataDTO struct {
	Packages      []packageDTO `json:"packages"`
	Resolve       *resolveDTO  `json:"resolve"`
	WorkspaceRoot string       `json:"workspace_root"`
}

type packageDTO struct {
	Name         string      `json:"name"`
	ID           string      `json:"id"`
	Source       *string     `json:"source"`
	ManifestPath string      `json:"manifest_path"`
	Targets      []targetDTO `json:"targets"`
}

type targetDTO struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind"`
	SrcPath string   `json:"src_path"`
}

type resolveDTO struct {
	Nodes []nodeDTO `json:"nodes"`
}

type nodeDTO struct {
	ID   string       `json:"id"`
	Deps []nodeDepDTO `json:"deps"`
}

type nodeDepDTO struct {
	Pkg      string       `json:"pkg"`
	DepKinds []depKindDTO `json:"dep_kinds"`
}

// depKindDTO.Kind is null for normal dependencies.
type depKindDTO struct {
	Kind *string `json:"kind"`
}
