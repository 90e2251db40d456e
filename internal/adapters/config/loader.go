// Package config provides the configuration loader for cargo-skeleton.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// CargoEnv names the environment variable cargo sets for its subcommands.
const CargoEnv = "CARGO"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads skeleton.yaml from dir and merges it over domain.DefaultConfig.
// $CARGO, when set, always wins over the configured cargo binary.
func (l *Loader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	path := filepath.Join(dir, FileName)

	var file Skeletonfile
	found, err := readAndUnmarshalYAML(path, &file)
	if err != nil {
		return domain.Config{}, err
	}

	if found {
		l.Logger.Debug("loaded configuration from " + path)
		apply(&cfg, &file)
	}

	if cargo, ok := os.LookupEnv(CargoEnv); ok && cargo != "" {
		cfg.Cargo = cargo
	}

	return cfg, nil
}

func apply(cfg *domain.Config, file *Skeletonfile) {
	if file.Cargo != "" {
		cfg.Cargo = file.Cargo
	}
	if file.Archive != "" {
		cfg.Archive = file.Archive
	}
	if file.Build == nil {
		return
	}
	if file.Build.Flags != nil {
		cfg.BuildFlags = slices.Clone(*file.Build.Flags)
	}
	if file.Build.Transitive != nil {
		cfg.Transitive = *file.Build.Transitive
	}
}

// readAndUnmarshalYAML decodes path into out. It reports false without error when
// the file does not exist.
func readAndUnmarshalYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the workspace root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(domain.ErrFileReadFailed, err.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return true, nil
}
