package document

import (
	"context"
	"fmt"

	"github.com/zjrosen/strata/internal/cachemanager"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/resource"
)

type cacheKey string

// Loader parses resources into documents, memoized per (parser, resource)
// identity for the lifetime of the loader. One loader lives per resolution
// run, so cached documents keep the profile metadata extracted when they
// were first seen.
type Loader struct {
	environment *env.Environment
	cache       cachemanager.Manager[cacheKey, []*Document]
	flags       *flags.Registry
}

// NewLoader creates a loader extracting profile keys against the given
// environment. featureFlags may be nil.
func NewLoader(environment *env.Environment, featureFlags *flags.Registry) *Loader {
	return &Loader{
		environment: environment,
		flags:       featureFlags,
		cache: cachemanager.NewInMemoryManager[cacheKey, []*Document](
			"documents", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
	}
}

// Load parses the resource with the given parser, returning the cached result
// when the same (parser, resource) pair was already loaded this run.
func (l *Loader) Load(ctx context.Context, parser Parser, name string, res resource.Resource) ([]*Document, error) {
	key := cacheKey(fmt.Sprintf("%p|%s", parser, res.Location()))
	useCache := !l.flags.Enabled(flags.FlagNoDocCache)

	if useCache {
		if docs, ok := l.cache.Get(ctx, key); ok {
			return docs, nil
		}
	}

	sources, err := parser.Parse(name, res)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(sources))
	for _, src := range sources {
		docs = append(docs, New(src, l.environment))
	}

	if useCache {
		l.cache.Set(ctx, key, docs, cachemanager.NoExpiration)
	}
	return docs, nil
}
