package ecs

import (
	"strings"

	"golang.org/x/tools/container/intsets"
)

// KindSet is a set of component kinds. The zero value is an empty set.
// A KindSet must not be copied after first use; use Clone.
type KindSet struct {
	bits intsets.Sparse
}

// NewKindSet returns a set holding the given kinds.
func NewKindSet(kinds ...Kind) *KindSet {
	s := &KindSet{}
	for _, k := range kinds {
		s.bits.Insert(int(k))
	}
	return s
}

// Has reports whether k is in the set.
func (s *KindSet) Has(k Kind) bool {
	return s.bits.Has(int(k))
}

// Len returns the number of kinds in the set.
func (s *KindSet) Len() int {
	return s.bits.Len()
}

// IsEmpty reports whether the set has no kinds.
func (s *KindSet) IsEmpty() bool {
	return s.bits.IsEmpty()
}

// Contains reports whether every kind in other is also in s.
func (s *KindSet) Contains(other *KindSet) bool {
	return other.bits.SubsetOf(&s.bits)
}

// Kinds returns the kinds in ascending order.
func (s *KindSet) Kinds() []Kind {
	ints := s.bits.AppendTo(nil)
	out := make([]Kind, len(ints))
	for i, k := range ints {
		out[i] = Kind(k)
	}
	return out
}

// Clone returns an independent copy of the set.
func (s *KindSet) Clone() *KindSet {
	c := &KindSet{}
	c.bits.Copy(&s.bits)
	return c
}

func (s *KindSet) insert(k Kind) bool {
	return s.bits.Insert(int(k))
}

func (s *KindSet) remove(k Kind) bool {
	return s.bits.Remove(int(k))
}

func (s *KindSet) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}
