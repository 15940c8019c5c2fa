package profile

import (
	"github.com/zjrosen/strata/internal/env"
)

// phase tracks resolution progress through the fixed state sequence.
type phase int

const (
	phaseInitializing phase = iota
	phaseDraining
	phaseNegativePass
	phaseCommitting
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseInitializing:
		return "initializing"
	case phaseDraining:
		return "draining"
	case phaseNegativePass:
		return "negative-pass"
	case phaseCommitting:
		return "committing"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// resolutionState is the per-run working state: the pending queue, the
// processed list, the activation lock and the per-profile source buckets.
// One is created per Run and discarded after commit.
type resolutionState struct {
	phase            phase
	pending          *pendingQueue
	processed        []*Profile
	activationLocked bool
	buckets          *bucketSet
}

func newResolutionState() *resolutionState {
	return &resolutionState{
		phase:   phaseInitializing,
		pending: newPendingQueue(),
		buckets: newBucketSet(),
	}
}

func (s *resolutionState) hasProcessed(p *Profile) bool {
	for _, done := range s.processed {
		if Equal(done, p) {
			return true
		}
	}
	return false
}

// bucketSet accumulates property sources per profile in discovery order.
// The nil base profile keys the first bucket.
type bucketSet struct {
	order []string
	byKey map[string]*env.MutablePropertySources
}

func newBucketSet() *bucketSet {
	return &bucketSet{byKey: make(map[string]*env.MutablePropertySources)}
}

func bucketKey(p *Profile) string {
	if p == nil {
		return ""
	}
	return p.Name()
}

// get returns the bucket for a profile, creating it on first use.
func (b *bucketSet) get(p *Profile) *env.MutablePropertySources {
	key := bucketKey(p)
	bucket, ok := b.byKey[key]
	if !ok {
		bucket = env.NewMutablePropertySources()
		b.byKey[key] = bucket
		b.order = append(b.order, key)
	}
	return bucket
}

// containsSource reports whether any bucket already holds a source with the
// given name. The negative pass uses this to keep catch-all results from
// shadowing sources a positive pass already produced.
func (b *bucketSet) containsSource(name string) bool {
	for _, key := range b.order {
		if b.byKey[key].Contains(name) {
			return true
		}
	}
	return false
}

// reversed returns the buckets most-recently-discovered first, the commit
// order that grants later-processed profiles higher precedence.
func (b *bucketSet) reversed() []*env.MutablePropertySources {
	out := make([]*env.MutablePropertySources, 0, len(b.order))
	for i := len(b.order) - 1; i >= 0; i-- {
		out = append(out, b.byKey[b.order[i]])
	}
	return out
}
