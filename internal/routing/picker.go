package routing

import (
	"fmt"

	"searchgraph/internal/filter"
)

// valueSetReducer adapts the ValueSet algebra to the filter extractor.
type valueSetReducer struct{}

// EqualToAnyOf discards nulls and stringifies every other value: documents
// route by the string form of the field, and dropping a non-string operand
// would narrow the set below what matching documents can have.
func (valueSetReducer) EqualToAnyOf(values []any) ValueSet {
	strs := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			strs = append(strs, s)
		} else {
			strs = append(strs, fmt.Sprint(v))
		}
	}
	return Of(strs...)
}

// Range covers gt/gte/lt/lte/matches. Routing values are opaque strings
// with no ordering the planner can reason about, so all of these reduce to
// the unbounded set.
func (valueSetReducer) Range(string, any) ValueSet { return UnboundedWithExclusions() }

// All is the widened set for predicates the extractor cannot represent,
// such as an any_of branch that never mentions the routing path. It must
// be the unbounded set, not Exclusive(nothing): an enclosing not negates
// whatever comes back, and only the unbounded set survives negation
// without collapsing into an empty inclusive set.
func (valueSetReducer) All() ValueSet { return UnboundedWithExclusions() }

func (valueSetReducer) Intersection(a, b ValueSet) ValueSet { return a.Intersection(b) }

func (valueSetReducer) Union(a, b ValueSet) ValueSet { return a.Union(b) }

func (valueSetReducer) Negate(v ValueSet) ValueSet { return v.Negate() }

// Picker extracts the shard-routing values a query can safely be limited to.
type Picker struct{}

// NewPicker returns a Picker.
func NewPicker() *Picker {
	return &Picker{}
}

// ExtractEligibleRoutingValues reduces the filters to the routing values the
// search request may be constrained to.
//
// The returned slice is nil in two distinct situations, which the boolean
// separates for the caller's observability:
//
//   - constrained == false: no filter references any routing field path at
//     all, so no routing constraint was even attempted
//   - constrained == true with a nil slice: the filters were considered but
//     reduced to a non-enumerable set, so the constraint is dropped and all
//     shards are searched
//
// When the slice is non-nil it is a superset of the routing values of every
// document matching the filters.
func (p *Picker) ExtractEligibleRoutingValues(filters []filter.Filter, routingFieldPaths []string) (values []string, constrained bool) {
	combined := ValueSet{}
	for _, path := range routingFieldPaths {
		extractor := filter.NewExtractor[ValueSet](valueSetReducer{}, path)
		set, ok := extractor.ExtractValueSet(filters)
		if !ok {
			continue
		}
		if constrained {
			combined = combined.Union(set)
		} else {
			combined, constrained = set, true
		}
	}
	if !constrained {
		return nil, false
	}
	return combined.ToReturnValue(), true
}
