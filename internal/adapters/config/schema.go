package config

// FileName is the name of the optional configuration file at the workspace root.
const FileName = "skeleton.yaml"

// Skeletonfile represents the structure of the skeleton.yaml configuration file.
// Pointer fields distinguish an absent key from an explicit zero value.
type Skeletonfile struct {
	Cargo   string    `yaml:"cargo"`
	Archive string    `yaml:"archive"`
	Build   *BuildDTO `yaml:"build"`
}

// BuildDTO represents the build section of the configuration.
type BuildDTO struct {
	Flags      *[]string `yaml:"flags"`
	Transitive *bool     `yaml:"transitive"`
}
