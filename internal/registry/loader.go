package registry

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/strata/internal/log"
)

// registryFile is the root structure of a registry.yml document.
type registryFile struct {
	Registry []*Registration `yaml:"registry"`
}

// Load reads registrations from a YAML file inside fsys and builds a
// registry. A file declaring zero registrations is a configuration error.
func Load(fsys fs.FS, path string) (*Registry, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(content, path)
}

// LoadFile reads registrations from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(content, path)
}

func parse(content []byte, origin string) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", origin, err)
	}
	if len(file.Registry) == 0 {
		return nil, fmt.Errorf("%s: %w", origin, ErrNoRegistrations)
	}

	reg := NewRegistry()
	for _, r := range file.Registry {
		if err := reg.Add(r); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
	}
	log.Debug(log.CatBoot, "Registry loaded", "origin", origin, "registrations", reg.Len())
	return reg, nil
}
