// Package resource resolves scheme-prefixed location strings to readable
// resources. The engine only ever asks three things of a location: does it
// exist, what file extension does it carry, and can it be opened for reading.
package resource

import (
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

// Resource is a handle to one candidate configuration file.
type Resource interface {
	// Exists reports whether the resource is a readable file.
	Exists() bool
	// FilenameExtension returns the extension without the dot, or "".
	FilenameExtension() string
	// Open opens the resource for reading.
	Open() (io.ReadCloser, error)
	// Location returns the original location string.
	Location() string
}

// fsResource is a Resource backed by an afero filesystem.
type fsResource struct {
	fs       afero.Fs
	path     string
	location string
}

func (r *fsResource) Exists() bool {
	info, err := r.fs.Stat(r.path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (r *fsResource) FilenameExtension() string {
	ext := path.Ext(r.path)
	if ext == "" {
		return ""
	}
	return ext[1:]
}

func (r *fsResource) Open() (io.ReadCloser, error) {
	return r.fs.Open(r.path)
}

func (r *fsResource) Location() string {
	return r.location
}

// missingResource stands in for locations whose scheme has no registered
// filesystem. It never exists, so the engine skips it silently.
type missingResource struct {
	location string
}

func (r *missingResource) Exists() bool              { return false }
func (r *missingResource) FilenameExtension() string { return "" }
func (r *missingResource) Location() string          { return r.location }

func (r *missingResource) Open() (io.ReadCloser, error) {
	return nil, os.ErrNotExist
}
