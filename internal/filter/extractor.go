package filter

import "fmt"

// Reducer builds and combines value sets of one element type during
// extraction. Implementations exist for shard-routing value sets and for
// timestamp interval sets.
//
// All combinators must be safe under the over-inclusion invariant: when a
// predicate cannot be represented exactly, the reducer must return a set
// that is at least as large as the exact one, never smaller.
type Reducer[T any] interface {
	// EqualToAnyOf builds the set for an equal_to_any_of operand.
	// Null values in the operand list must be discarded.
	EqualToAnyOf(values []any) T

	// Range builds the set for a gt/gte/lt/lte/matches operand.
	Range(op string, value any) T

	// All returns the unconstrained set.
	All() T

	Intersection(a, b T) T
	Union(a, b T) T
	Negate(v T) T
}

// Extractor reduces filter trees to a single value set for one field path.
//
// Extraction follows the combination rules of the tree shape: sibling
// predicates intersect, any_of branches union, not negates. Predicates on
// other field paths contribute nothing. The boolean result reports whether
// any predicate on the target path was seen at all; callers use it to
// distinguish "unconstrained" from "never mentioned".
type Extractor[T any] struct {
	reducer Reducer[T]
	target  string
}

// NewExtractor returns an extractor for the given field path.
func NewExtractor[T any](reducer Reducer[T], targetPath string) *Extractor[T] {
	return &Extractor[T]{reducer: reducer, target: targetPath}
}

// ExtractValueSet reduces a list of top-level filters to one value set.
//
// The filters in the list are ANDed for document matching, so the exact
// value set would be their intersection. The extractor instead unions the
// sets of the filters that mention the target path and skips the rest.
// That yields a superset of the exact answer: a wider set can only search
// more than necessary, never miss a match.
func (e *Extractor[T]) ExtractValueSet(filters []Filter) (T, bool) {
	var result T
	present := false
	for _, f := range filters {
		v, ok := e.extractFilter(f, "")
		if !ok {
			continue
		}
		if present {
			result = e.reducer.Union(result, v)
		} else {
			result, present = v, true
		}
	}
	return result, present
}

// extractFilter walks one filter object at the given path, intersecting
// the sets contributed by its sibling keys.
func (e *Extractor[T]) extractFilter(f Filter, path string) (T, bool) {
	var result T
	present := false

	merge := func(v T) {
		if present {
			result = e.reducer.Intersection(result, v)
		} else {
			result, present = v, true
		}
	}

	for key, value := range f {
		switch {
		case key == OpNot:
			if sub, ok := asFilter(value); ok {
				if v, ok := e.extractFilter(sub, path); ok {
					merge(e.reducer.Negate(v))
				}
			}

		case key == OpAnyOf:
			if branches, ok := asFilterList(value); ok {
				if v, ok := e.extractAnyOf(branches, path); ok {
					merge(v)
				}
			}

		case path == e.target:
			merge(e.reduceOperator(key, value))

		default:
			child := JoinPath(path, key)
			if !pathOnRouteTo(child, e.target) {
				continue
			}
			if sub, ok := asFilter(value); ok {
				if v, ok := e.extractFilter(sub, child); ok {
					merge(v)
				}
			}
		}
	}

	return result, present
}

// extractAnyOf unions the sets of the branches. A branch that does not
// mention the target path matches documents with any value there, so it
// widens the union to the unconstrained set.
func (e *Extractor[T]) extractAnyOf(branches []Filter, path string) (T, bool) {
	if len(branches) == 0 {
		// An empty any_of matches no documents. Treating it as "no
		// constraint" keeps extraction over-inclusive.
		var zero T
		return zero, false
	}

	var result T
	present := false
	for _, branch := range branches {
		v, ok := e.extractFilter(branch, path)
		if !ok {
			v = e.reducer.All()
		}
		if present {
			result = e.reducer.Union(result, v)
		} else {
			result, present = v, true
		}
	}
	return result, present
}

// reduceOperator reduces one leaf predicate at the target path.
// An operator the reducer has no reduction for is a programmer error:
// silently ignoring it could only be proven safe per-operator, so it
// panics instead of risking an under-inclusive set.
func (e *Extractor[T]) reduceOperator(op string, operand any) T {
	switch {
	case op == OpEqualToAnyOf:
		values, ok := asValueList(operand)
		if !ok {
			return e.reducer.All()
		}
		return e.reducer.EqualToAnyOf(values)
	case rangeOps[op]:
		return e.reducer.Range(op, operand)
	default:
		panic(fmt.Sprintf("filter: no value-set reduction defined for operator %q on path %q", op, e.target))
	}
}
