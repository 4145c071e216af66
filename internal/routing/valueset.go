// Package routing decides which shard-routing values a search request can
// safely be narrowed to, given a set of query filters.
//
// Routing values are opaque strings drawn from an unbounded universe, so a
// value set is represented one of three ways:
//
//   - Inclusive: exactly these values
//   - Exclusive: every value except these
//   - UnboundedWithExclusions: unbounded, excluding an unknowable set
//     (arises from range or pattern predicates on a routing field)
//
// Every operation preserves the safety invariant: the values ultimately
// handed to the store are a superset of the routing values any matching
// document could have. Ambiguity always resolves toward searching more
// shards, never fewer.
package routing

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type kind int

const (
	kindInclusive kind = iota
	kindExclusive
	kindUnbounded
)

// ValueSet is an immutable algebraic set of routing values.
type ValueSet struct {
	kind   kind
	values map[string]struct{}
}

// Of returns the inclusive set of exactly the given values.
func Of(values ...string) ValueSet {
	return ValueSet{kind: kindInclusive, values: toSet(values)}
}

// Excluding returns the set of every value except the given ones.
func Excluding(values ...string) ValueSet {
	return ValueSet{kind: kindExclusive, values: toSet(values)}
}

// All is the set of every routing value.
func All() ValueSet {
	return Excluding()
}

// UnboundedWithExclusions is the set arising from predicates that cannot be
// enumerated over opaque strings (ranges, pattern matches): unbounded, but
// excluding values we cannot know. Operations involving it follow explicit
// widening rules rather than the exact algebra.
func UnboundedWithExclusions() ValueSet {
	return ValueSet{kind: kindUnbounded}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Intersection returns a set covering no more than the values in both sets.
//
// Inclusive/Exclusive pairings are exact. When either operand is unbounded
// its exclusions are unknown, so intersecting with it must not narrow the
// result below what is provably safe: the other operand is returned
// unchanged.
func (s ValueSet) Intersection(o ValueSet) ValueSet {
	if s.kind == kindUnbounded {
		return o
	}
	if o.kind == kindUnbounded {
		return s
	}

	switch {
	case s.kind == kindInclusive && o.kind == kindInclusive:
		return ValueSet{kind: kindInclusive, values: setIntersect(s.values, o.values)}
	case s.kind == kindExclusive && o.kind == kindExclusive:
		return ValueSet{kind: kindExclusive, values: setUnion(s.values, o.values)}
	case s.kind == kindInclusive:
		// Inclusive(A) intersect Exclusive(B) = Inclusive(A minus B)
		return ValueSet{kind: kindInclusive, values: setDifference(s.values, o.values)}
	default:
		return o.Intersection(s)
	}
}

// Union returns a set covering at least the values in either set.
// A union involving the unbounded set can only grow it, so it stays
// unbounded.
func (s ValueSet) Union(o ValueSet) ValueSet {
	if s.kind == kindUnbounded || o.kind == kindUnbounded {
		return UnboundedWithExclusions()
	}

	switch {
	case s.kind == kindInclusive && o.kind == kindInclusive:
		return ValueSet{kind: kindInclusive, values: setUnion(s.values, o.values)}
	case s.kind == kindExclusive && o.kind == kindExclusive:
		return ValueSet{kind: kindExclusive, values: setIntersect(s.values, o.values)}
	case s.kind == kindInclusive:
		// Inclusive(A) union Exclusive(B) = Exclusive(B minus A)
		return ValueSet{kind: kindExclusive, values: setDifference(o.values, s.values)}
	default:
		return o.Union(s)
	}
}

// Negate returns the complement of the set. Negating the unbounded set is a
// no-op: its complement is equally unbounded with unknown exclusions.
func (s ValueSet) Negate() ValueSet {
	switch s.kind {
	case kindInclusive:
		return ValueSet{kind: kindExclusive, values: s.values}
	case kindExclusive:
		return ValueSet{kind: kindInclusive, values: s.values}
	default:
		return s
	}
}

// ToReturnValue renders the set as the routing constraint to pass to the
// store: a sorted value list for an inclusive set, or nil for the others.
// The store cannot express "everything except these", and searching all
// shards is always safe, so non-enumerable sets drop the constraint.
func (s ValueSet) ToReturnValue() []string {
	if s.kind != kindInclusive {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether two sets are representationally identical.
func (s ValueSet) Equal(o ValueSet) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind == kindUnbounded {
		return true
	}
	return maps.Equal(s.values, o.values)
}

func (s ValueSet) String() string {
	switch s.kind {
	case kindUnbounded:
		return "unbounded-with-exclusions"
	case kindExclusive:
		if len(s.values) == 0 {
			return "all"
		}
		return fmt.Sprintf("all-except{%s}", strings.Join(sortedKeys(s.values), ", "))
	default:
		return fmt.Sprintf("{%s}", strings.Join(sortedKeys(s.values), ", "))
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func setIntersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for v := range a {
		if _, ok := b[v]; ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func setUnion(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

func setDifference(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a))
	for v := range a {
		if _, ok := b[v]; !ok {
			out[v] = struct{}{}
		}
	}
	return out
}
