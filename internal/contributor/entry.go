package contributor

// Entry is the immutable per-source selection result: the accepted candidate
// IDs in order and the exclusion set that was applied to produce them.
type Entry struct {
	source   string
	accepted []string
	excluded []string
}

func newEntry(source string, accepted, excluded []string) *Entry {
	return &Entry{source: source, accepted: accepted, excluded: excluded}
}

// Source returns the requesting source name.
func (e *Entry) Source() string {
	return e.source
}

// Accepted returns the accepted candidate IDs in order.
func (e *Entry) Accepted() []string {
	out := make([]string, len(e.accepted))
	copy(out, e.accepted)
	return out
}

// Excluded returns the exclusions applied to this entry.
func (e *Entry) Excluded() []string {
	out := make([]string, len(e.excluded))
	copy(out, e.excluded)
	return out
}
