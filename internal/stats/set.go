package stats

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Set is a deduplicating collection of keys. Its JSON form is a sorted
// array, so the persisted representation is stable regardless of
// insertion order.
type Set[K cmp.Ordered] struct {
	m map[K]struct{}
}

// NewSet returns a set holding keys.
func NewSet[K cmp.Ordered](keys ...K) Set[K] {
	s := Set[K]{m: make(map[K]struct{}, len(keys))}
	for _, k := range keys {
		s.m[k] = struct{}{}
	}
	return s
}

// Add inserts k and reports whether the set grew.
func (s *Set[K]) Add(k K) bool {
	if s.m == nil {
		s.m = make(map[K]struct{})
	}
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = struct{}{}
	return true
}

// Has reports membership.
func (s Set[K]) Has(k K) bool {
	_, ok := s.m[k]
	return ok
}

// Len returns the number of members.
func (s Set[K]) Len() int {
	return len(s.m)
}

// Sorted returns the members in ascending order.
func (s Set[K]) Sorted() []K {
	out := make([]K, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s Set[K]) Equal(o Set[K]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s.m {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s Set[K]) Clone() Set[K] {
	c := Set[K]{m: make(map[K]struct{}, len(s.m))}
	for k := range s.m {
		c.m[k] = struct{}{}
	}
	return c
}

func (s Set[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set[K]) UnmarshalJSON(b []byte) error {
	var keys []K
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	*s = NewSet(keys...)
	return nil
}
