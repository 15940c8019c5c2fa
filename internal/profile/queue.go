package profile

// pendingQueue is the FIFO of profiles awaiting processing, with support for
// mid-run insertion at either end. Resolution runs are single threaded, so
// no locking is needed. Duplicates are allowed; reprocessing a profile is
// harmless because buckets and the environment's active list are idempotent
// per name.
type pendingQueue struct {
	entries []*Profile
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{}
}

// Push appends a profile to the back of the queue.
func (q *pendingQueue) Push(p *Profile) {
	q.entries = append(q.entries, p)
}

// PushAll appends profiles in order.
func (q *pendingQueue) PushAll(profiles []*Profile) {
	q.entries = append(q.entries, profiles...)
}

// Pop removes and returns the front profile. The second return reports
// whether the queue held an entry; the front entry itself may be the nil
// base profile.
func (q *pendingQueue) Pop() (*Profile, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	p := q.entries[0]
	q.entries = q.entries[1:]
	return p, true
}

// Drain removes and returns all queued profiles in order.
func (q *pendingQueue) Drain() []*Profile {
	out := q.entries
	q.entries = nil
	return out
}

// RemoveIf deletes every queued profile matching the predicate.
func (q *pendingQueue) RemoveIf(match func(*Profile) bool) {
	kept := q.entries[:0]
	for _, p := range q.entries {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	q.entries = kept
}

// Len returns the number of queued profiles.
func (q *pendingQueue) Len() int {
	return len(q.entries)
}

// Empty reports whether the queue has no entries.
func (q *pendingQueue) Empty() bool {
	return len(q.entries) == 0
}
