package routing_test

import (
	"slices"
	"testing"

	"searchgraph/internal/filter"
	"searchgraph/internal/routing"
)

func eq(values ...any) filter.Filter {
	return filter.Filter{filter.OpEqualToAnyOf: values}
}

func extract(t *testing.T, filters []filter.Filter, paths ...string) ([]string, bool) {
	t.Helper()
	if len(paths) == 0 {
		paths = []string{"workspace_id"}
	}
	return routing.NewPicker().ExtractEligibleRoutingValues(filters, paths)
}

func TestPickerSimpleEquality(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq("w1", "w2")},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1", "w2"}) {
		t.Errorf("values = %v", values)
	}
}

func TestPickerDiscardsNulls(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq("w1", nil, "w2")},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1", "w2"}) {
		t.Errorf("nulls should be discarded, got %v", values)
	}
}

func TestPickerNoRoutingFieldMentioned(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"name": eq("foo")},
	})
	if constrained {
		t.Error("filters never mention the routing path, constraint should be absent")
	}
	if values != nil {
		t.Errorf("values = %v, want nil", values)
	}
}

func TestPickerInequalityDropsConstraint(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": filter.Filter{"gt": "w1"}},
	})
	if !constrained {
		t.Error("the routing path was referenced, constraint should be tracked as attempted")
	}
	if values != nil {
		t.Errorf("inequality on an opaque routing value must search all shards, got %v", values)
	}
}

func TestPickerSiblingPredicatesIntersect(t *testing.T) {
	// Same field, two predicates: equality and a range. The range widens to
	// unbounded, and intersecting with unbounded returns the equality set.
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": filter.Filter{
			filter.OpEqualToAnyOf: []any{"w1", "w2"},
			"lt":                  "w9",
		}},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1", "w2"}) {
		t.Errorf("values = %v, want equality set preserved", values)
	}
}

func TestPickerAnyOfUnions(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"any_of": []filter.Filter{
			{"workspace_id": eq("w1")},
			{"workspace_id": eq("w2")},
		}},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1", "w2"}) {
		t.Errorf("values = %v", values)
	}
}

func TestPickerAnyOfWithUnconstrainedBranch(t *testing.T) {
	// One branch doesn't mention routing: a matching document can have any
	// routing value, so the constraint must be dropped.
	values, constrained := extract(t, []filter.Filter{
		{"any_of": []filter.Filter{
			{"workspace_id": eq("w1")},
			{"name": eq("foo")},
		}},
	})
	if !constrained {
		t.Fatal("the routing path was referenced in one branch")
	}
	if values != nil {
		t.Errorf("unconstrained branch must drop the routing constraint, got %v", values)
	}
}

func TestPickerStringifiesNonStringValues(t *testing.T) {
	// Decoded JSON can carry numbers or booleans; documents route by the
	// string form, so the values must be kept, not dropped.
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq(float64(123), "w1")},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"123", "w1"}) {
		t.Errorf("values = %v, want the number kept as a string", values)
	}
}

func TestPickerNegatedAnyOfWithUnconstrainedBranch(t *testing.T) {
	// One any_of branch never mentions routing, so the any_of covers every
	// routing value and its negation cannot be narrowed either: a document
	// with workspace w2 and a blue color matches the filter.
	values, constrained := extract(t, []filter.Filter{
		{"not": filter.Filter{"any_of": []filter.Filter{
			{"workspace_id": eq("w1")},
			{"color": eq("red")},
		}}},
	})
	if !constrained {
		t.Fatal("expected the routing path to be referenced")
	}
	if values != nil {
		t.Errorf("negated widened any_of must search all shards, got %v", values)
	}
}

func TestPickerNegation(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"not": filter.Filter{"workspace_id": eq("w1")}},
	})
	if !constrained {
		t.Fatal("expected the routing path to be referenced")
	}
	// Exclusive sets cannot be expressed as a routing constraint.
	if values != nil {
		t.Errorf("negated equality must search all shards, got %v", values)
	}
}

func TestPickerDoubleNegation(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"not": filter.Filter{"not": filter.Filter{"workspace_id": eq("w1")}}},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1"}) {
		t.Errorf("double negation should restore the equality set, got %v", values)
	}
}

func TestPickerNestedFieldPath(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"organization": filter.Filter{"id": eq("o1")}},
	}, "organization.id")
	if !constrained {
		t.Fatal("expected a routing constraint on the nested path")
	}
	if !slices.Equal(values, []string{"o1"}) {
		t.Errorf("values = %v", values)
	}
}

func TestPickerMultipleTopLevelFilters(t *testing.T) {
	// Top-level filters are ANDed for matching; extraction unions them,
	// which is the over-inclusive (safe) direction.
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq("w1")},
		{"workspace_id": eq("w2")},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1", "w2"}) {
		t.Errorf("values = %v", values)
	}
}

func TestPickerMultipleRoutingPaths(t *testing.T) {
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq("w1"), "tenant_id": eq("t1")},
	}, "workspace_id", "tenant_id")
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"t1", "w1"}) {
		t.Errorf("values across paths should union, got %v", values)
	}
}

func TestPickerIgnoresUnrelatedFilters(t *testing.T) {
	// A second filter on an unrelated field imposes no routing constraint
	// and must not widen the result.
	values, constrained := extract(t, []filter.Filter{
		{"workspace_id": eq("w1")},
		{"name": eq("foo")},
	})
	if !constrained {
		t.Fatal("expected a routing constraint")
	}
	if !slices.Equal(values, []string{"w1"}) {
		t.Errorf("values = %v", values)
	}
}
