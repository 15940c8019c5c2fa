package registry

import (
	"embed"
)

//go:embed registry.yml
var defaultRegistryFS embed.FS

// Default loads the built-in registration table shipped with the binary.
func Default() (*Registry, error) {
	return Load(defaultRegistryFS, "registry.yml")
}
