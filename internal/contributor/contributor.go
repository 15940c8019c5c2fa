// Package contributor selects and orders the pluggable contributors declared
// in the registry. Selection is an explicit two-phase pipeline: per-source
// candidate collection with exclusion and condition filtering, then a global
// flatten and priority sort. The caller sequences the two phases.
package contributor

import (
	"errors"

	"github.com/zjrosen/strata/internal/registry"
)

// KeyExclude is the environment key listing contributor IDs to exclude from
// selection.
const KeyExclude = "autoconfigure.exclude"

// Selection errors
var (
	ErrNoCandidates     = errors.New("no contributor candidates registered")
	ErrInvalidExclusion = errors.New("exclusions name identifiers that are not contributor candidates")
)

// Source describes one requester of contributor selection: a name for
// re-association plus its explicit exclusion list.
type Source struct {
	Name     string
	Excludes []string
}

// Selection pairs a selected contributor with the source that first
// introduced it and its registration metadata.
type Selection struct {
	ID           string
	Source       string
	Registration *registry.Registration
}
