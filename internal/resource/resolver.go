package resource

import (
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

const (
	// SchemeFile resolves against the working-directory filesystem.
	SchemeFile = "file"
	// SchemeBuiltin resolves against an embedded defaults filesystem when one
	// has been registered, the analogue of configuration shipped inside the
	// binary.
	SchemeBuiltin = "builtin"
)

// Resolver maps location strings to resources. Locations carry an optional
// scheme prefix ("file:./config/", "builtin:/"); bare paths resolve like
// "file:". Unregistered schemes resolve to never-existing resources rather
// than errors, so optional layers can simply be absent.
type Resolver struct {
	base    afero.Fs
	schemes map[string]afero.Fs
}

// NewResolver creates a resolver whose file scheme reads from the given
// filesystem.
func NewResolver(base afero.Fs) *Resolver {
	return &Resolver{
		base:    base,
		schemes: make(map[string]afero.Fs),
	}
}

// NewOsResolver creates a resolver over the real filesystem, paths relative
// to the working directory.
func NewOsResolver() *Resolver {
	return NewResolver(afero.NewOsFs())
}

// RegisterScheme attaches a read-only fs.FS under the given scheme. Used to
// mount embedded defaults at "builtin".
func (r *Resolver) RegisterScheme(scheme string, fsys fs.FS) {
	r.schemes[scheme] = afero.FromIOFS{FS: fsys}
}

// HasScheme reports whether a scheme has a registered filesystem.
func (r *Resolver) HasScheme(scheme string) bool {
	_, ok := r.schemes[scheme]
	return ok
}

// Resolve returns a resource handle for the location. Resolution itself never
// fails; existence is reported by the handle.
func (r *Resolver) Resolve(location string) Resource {
	scheme, rest := splitScheme(location)
	switch scheme {
	case "", SchemeFile:
		return &fsResource{fs: r.base, path: rest, location: location}
	default:
		fsys, ok := r.schemes[scheme]
		if !ok {
			return &missingResource{location: location}
		}
		return &fsResource{fs: fsys, path: iofsPath(rest), location: location}
	}
}

// FilePath returns the filesystem path for a file-scheme location and whether
// the location is file-backed at all. The watcher uses it to find paths it
// can subscribe to.
func (r *Resolver) FilePath(location string) (string, bool) {
	scheme, rest := splitScheme(location)
	if scheme != "" && scheme != SchemeFile {
		return "", false
	}
	return rest, true
}

// splitScheme separates "scheme:rest". A single-letter prefix is treated as a
// Windows drive, not a scheme.
func splitScheme(location string) (scheme, rest string) {
	i := strings.Index(location, ":")
	if i <= 1 {
		return "", location
	}
	return location[:i], location[i+1:]
}

// iofsPath converts a location path to an io/fs-valid path: no leading slash
// or "./", "." for the root.
func iofsPath(p string) string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return "."
	}
	return p
}
