// Package filter defines the filter-tree boundary shape shared by the
// planning components, and a generic extractor that reduces a filter tree
// to a single value set for one field path.
//
// A filter is a nested map keyed by field name, where each leaf is an
// operator map. Sibling keys combine via implicit AND, any_of branches via
// OR, and not negates its sub-filter:
//
//	{"currency": {"equal_to_any_of": ["USD", "CAD"]}}
//	{"cost": {"amount": {"gte": 100}}}
//	{"any_of": [{...}, {...}]}
//	{"not": {...}}
//
// The planner does not validate filter shape; trees are validated upstream
// against the schema before they reach this layer.
package filter

import "strings"

// Filter is one filter object. Values are sub-filters (map[string]any or
// Filter), operator operands, or lists of branches for any_of.
type Filter = map[string]any

// Operator names recognized at a target field path.
const (
	OpEqualToAnyOf = "equal_to_any_of"
	OpGt           = "gt"
	OpGte          = "gte"
	OpLt           = "lt"
	OpLte          = "lte"
	OpMatches      = "matches"

	// Combinators, valid at any level of the tree.
	OpAnyOf = "any_of"
	OpNot   = "not"
)

// rangeOps are the operators handed to Reducer.Range.
var rangeOps = map[string]bool{
	OpGt:      true,
	OpGte:     true,
	OpLt:      true,
	OpLte:     true,
	OpMatches: true,
}

// PathSeparator joins nested field names into a field path.
const PathSeparator = "."

// JoinPath appends a field name to a path.
func JoinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + PathSeparator + field
}

// pathOnRouteTo reports whether descending into candidate can still reach
// target (candidate is target itself or a strict prefix of it).
func pathOnRouteTo(candidate, target string) bool {
	if candidate == target {
		return true
	}
	return strings.HasPrefix(target, candidate+PathSeparator)
}

// asFilter converts a raw subtree value to a Filter.
func asFilter(v any) (Filter, bool) {
	f, ok := v.(map[string]any)
	return f, ok
}

// asFilterList converts an any_of operand to its branch filters.
func asFilterList(v any) ([]Filter, bool) {
	switch list := v.(type) {
	case []Filter:
		return list, true
	case []any:
		out := make([]Filter, 0, len(list))
		for _, item := range list {
			f, ok := asFilter(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	default:
		return nil, false
	}
}

// asValueList converts an equal_to_any_of operand to its values.
func asValueList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}
