package accumulation

// Set is an unordered collection of item labels.
type Set map[string]struct{}

// NewSet builds a Set from the given labels.
func NewSet(labels ...string) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Add inserts a label into the set.
func (s Set) Add(label string) { s[label] = struct{}{} }

// Contains reports whether the label is present.
func (s Set) Contains(label string) bool {
	_, ok := s[label]
	return ok
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for l := range s {
		c[l] = struct{}{}
	}
	return c
}

// Subtract removes every label of other from s, in place.
func (s Set) Subtract(other Set) {
	for l := range other {
		delete(s, l)
	}
}

// Merge adds every label of other to s, in place.
func (s Set) Merge(other Set) {
	for l := range other {
		s[l] = struct{}{}
	}
}
