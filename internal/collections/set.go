// Package collections holds small generic containers
package collections

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of distinct values. Members reports them
// in ascending order so output is stable.
type Set[T cmp.Ordered] map[T]struct{}

// NewSet creates a Set holding vs
func NewSet[T cmp.Ordered](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

// Add adds one or more values to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has checks if the set contains v
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Members returns the values in ascending order
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	slices.Sort(r)
	return r
}
