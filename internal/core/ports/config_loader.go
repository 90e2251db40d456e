package ports

import "go.trai.ch/skeleton/internal/core/domain"

// ConfigLoader defines the interface for loading the tool configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads skeleton.yaml from dir and merges it over the defaults.
	// A missing file is not an error.
	Load(dir string) (domain.Config, error)
}
