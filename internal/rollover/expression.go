// Package rollover builds the index-wildcard expression a search request
// should target, given query filters and the known time-partitioned
// (rollover) indices.
//
// A rollover group is a set of physical sub-indices unified under one
// wildcard search expression; new sub-indices appear as time advances. The
// builder prunes sub-indices whose covered time range provably cannot
// intersect the query's time filters, and never prunes anything it cannot
// prove safe to prune: the produced expression may search more indices than
// necessary, never fewer.
package rollover

import (
	"maps"
	"slices"
	"strings"
)

// IndexExpression is a set of index names or wildcard patterns to search,
// minus a set to exclude.
type IndexExpression struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// EmptyExpression is the expression naming no indices.
func EmptyExpression() IndexExpression {
	return IndexExpression{}
}

// Only returns the expression naming a single index or pattern.
func Only(name string) IndexExpression {
	return IndexExpression{include: map[string]struct{}{name: {}}}
}

// NewExpression returns the expression with the given inclusions and
// exclusions.
func NewExpression(include, exclude []string) IndexExpression {
	e := IndexExpression{}
	for _, n := range include {
		e.include = setAdd(e.include, n)
	}
	for _, n := range exclude {
		e.exclude = setAdd(e.exclude, n)
	}
	return e
}

func setAdd(set map[string]struct{}, name string) map[string]struct{} {
	if set == nil {
		set = make(map[string]struct{})
	}
	set[name] = struct{}{}
	return set
}

// Union combines two expressions by unioning their inclusion and exclusion
// sets.
func (e IndexExpression) Union(o IndexExpression) IndexExpression {
	out := IndexExpression{}
	if len(e.include)+len(o.include) > 0 {
		out.include = make(map[string]struct{}, len(e.include)+len(o.include))
		maps.Copy(out.include, e.include)
		maps.Copy(out.include, o.include)
	}
	if len(e.exclude)+len(o.exclude) > 0 {
		out.exclude = make(map[string]struct{}, len(e.exclude)+len(o.exclude))
		maps.Copy(out.exclude, e.exclude)
		maps.Copy(out.exclude, o.exclude)
	}
	return out
}

// IsEmpty reports whether the expression names no indices at all.
func (e IndexExpression) IsEmpty() bool {
	return len(e.include) == 0
}

// Includes returns the sorted inclusion names.
func (e IndexExpression) Includes() []string {
	return sortedKeys(e.include)
}

// Excludes returns the sorted exclusion names.
func (e IndexExpression) Excludes() []string {
	return sortedKeys(e.exclude)
}

// String renders the canonical comma-joined form: sorted inclusions first,
// then sorted exclusions each prefixed with "-". The store's wildcard
// grammar requires inclusions before exclusions.
func (e IndexExpression) String() string {
	parts := make([]string, 0, len(e.include)+len(e.exclude))
	parts = append(parts, sortedKeys(e.include)...)
	for _, name := range sortedKeys(e.exclude) {
		parts = append(parts, "-"+name)
	}
	return strings.Join(parts, ",")
}

// MarshalText renders the canonical string form, so expressions embed in
// JSON plan output as strings rather than opaque structs.
func (e IndexExpression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
