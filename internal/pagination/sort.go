package pagination

import (
	"fmt"
	"time"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortClause is one clause of a sort: a field and a direction.
type SortClause struct {
	Field     string
	Direction Direction
}

// Reversed flips the clause's direction. The missing-value placement flips
// with it (see Missing), so reversing a sort exactly reverses the resulting
// document order.
func (c SortClause) Reversed() SortClause {
	if c.Direction == Desc {
		return SortClause{Field: c.Field, Direction: Asc}
	}
	return SortClause{Field: c.Field, Direction: Desc}
}

// Missing returns the store's missing-value placement for the clause:
// ascending sorts place documents lacking the field first, descending
// places them last. The naive store default of "always last" would break
// the symmetry that reversing a sort reverses the order; with this policy
// a missing value behaves as "smaller than every present value" in both
// directions, and document sorting matches aggregation-bucket ordering.
func (c SortClause) Missing() string {
	if c.Direction == Desc {
		return "_last"
	}
	return "_first"
}

// RequestField renders the clause as a search-request sort entry.
func (c SortClause) RequestField() map[string]any {
	return map[string]any{
		c.Field: map[string]any{
			"order":   string(c.Direction),
			"missing": c.Missing(),
		},
	}
}

// ReverseSort flips every clause.
func ReverseSort(sort []SortClause) []SortClause {
	out := make([]SortClause, len(sort))
	for i, c := range sort {
		out[i] = c.Reversed()
	}
	return out
}

// SortFields returns the field names of the clauses in order.
func SortFields(sort []SortClause) []string {
	out := make([]string, len(sort))
	for i, c := range sort {
		out[i] = c.Field
	}
	return out
}

// compareUnder compares an item value to a cursor value under one clause:
// negative when the item sorts before the cursor position, positive when
// after, zero when tied. A missing (nil) value sorts as smaller than every
// present value, mirroring the Missing policy above.
func (c SortClause) compareUnder(itemValue, cursorValue any) int {
	cmp := compareValues(itemValue, cursorValue)
	if c.Direction == Desc {
		return -cmp
	}
	return cmp
}

// compareValues orders two scalar sort values. Nil sorts first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Compare(bt)
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			default:
				return 1
			}
		}
	}

	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// asFloat widens any numeric sort value to float64 for comparison.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
