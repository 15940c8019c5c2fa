// Package profile implements the profile resolution engine: the state
// machine that determines the ordered set of active profiles, drives
// candidate location scans and commits matched configuration documents to
// the environment in precedence order.
package profile

// Profile is a named optional configuration layer. The nil *Profile stands
// for the profile-independent base configuration, which is always processed
// first and carries the lowest precedence.
type Profile struct {
	name           string
	defaultProfile bool
}

// New creates an explicitly requested profile.
func New(name string) *Profile {
	return &Profile{name: name}
}

// NewDefault creates a profile seeded from the environment's default-profile
// list. Default profiles are purged from the pending queue as soon as any
// explicit activation occurs.
func NewDefault(name string) *Profile {
	return &Profile{name: name, defaultProfile: true}
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return p.name
}

// IsDefault reports whether this profile came from the default-profile list.
func (p *Profile) IsDefault() bool {
	return p.defaultProfile
}

// String renders the profile name; the nil base profile renders as "<base>".
func (p *Profile) String() string {
	if p == nil {
		return "<base>"
	}
	return p.name
}

// Equal reports profile equality. Two profiles are equal iff their names
// match; the default flag does not participate.
func Equal(a, b *Profile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.name == b.name
}

// profileSet deduplicates profiles by name while preserving first-seen order.
type profileSet struct {
	seen map[string]struct{}
	list []*Profile
}

func newProfileSet() *profileSet {
	return &profileSet{seen: make(map[string]struct{})}
}

func (s *profileSet) add(p *Profile) {
	if _, ok := s.seen[p.Name()]; ok {
		return
	}
	s.seen[p.Name()] = struct{}{}
	s.list = append(s.list, p)
}

func (s *profileSet) addNames(names []string) {
	for _, name := range names {
		s.add(New(name))
	}
}

func (s *profileSet) contains(p *Profile) bool {
	_, ok := s.seen[p.Name()]
	return ok
}

func (s *profileSet) profiles() []*Profile {
	return s.list
}
