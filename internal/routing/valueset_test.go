package routing_test

import (
	"slices"
	"testing"

	"searchgraph/internal/routing"
)

func TestIntersectionExactCases(t *testing.T) {
	tests := []struct {
		name string
		a, b routing.ValueSet
		want routing.ValueSet
	}{
		{
			"inclusive intersect inclusive",
			routing.Of("a", "b", "c"), routing.Of("b", "c", "d"),
			routing.Of("b", "c"),
		},
		{
			"exclusive intersect exclusive",
			routing.Excluding("a"), routing.Excluding("b"),
			routing.Excluding("a", "b"),
		},
		{
			"inclusive intersect exclusive",
			routing.Of("a", "b"), routing.Excluding("b", "c"),
			routing.Of("a"),
		},
		{
			"all is the identity",
			routing.Of("a"), routing.All(),
			routing.Of("a"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersection(tt.b); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			// Commutative for all enumerable combinations.
			if got := tt.b.Intersection(tt.a); !got.Equal(tt.want) {
				t.Errorf("reversed: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnionExactCases(t *testing.T) {
	tests := []struct {
		name string
		a, b routing.ValueSet
		want routing.ValueSet
	}{
		{
			"inclusive union inclusive",
			routing.Of("a", "b"), routing.Of("b", "c"),
			routing.Of("a", "b", "c"),
		},
		{
			"exclusive union exclusive",
			routing.Excluding("a", "b"), routing.Excluding("b", "c"),
			routing.Excluding("b"),
		},
		{
			"inclusive union exclusive",
			routing.Of("a"), routing.Excluding("a", "b"),
			routing.Excluding("b"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got := tt.b.Union(tt.a); !got.Equal(tt.want) {
				t.Errorf("reversed: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssociativity(t *testing.T) {
	sets := []routing.ValueSet{
		routing.Of("a", "b"),
		routing.Of("b", "c"),
		routing.Excluding("a"),
		routing.Excluding("c", "d"),
		routing.All(),
		routing.Of(),
	}
	for _, a := range sets {
		for _, b := range sets {
			for _, c := range sets {
				left := a.Intersection(b).Intersection(c)
				right := a.Intersection(b.Intersection(c))
				if !left.Equal(right) {
					t.Errorf("intersection not associative for %v, %v, %v: %v vs %v", a, b, c, left, right)
				}
				left = a.Union(b).Union(c)
				right = a.Union(b.Union(c))
				if !left.Equal(right) {
					t.Errorf("union not associative for %v, %v, %v: %v vs %v", a, b, c, left, right)
				}
			}
		}
	}
}

func TestDoubleNegation(t *testing.T) {
	sets := []routing.ValueSet{
		routing.Of("a", "b"),
		routing.Excluding("c"),
		routing.All(),
		routing.Of(),
	}
	for _, s := range sets {
		if got := s.Negate().Negate(); !got.Equal(s) {
			t.Errorf("double negation of %v = %v", s, got)
		}
	}
}

func TestUnboundedWidening(t *testing.T) {
	unbounded := routing.UnboundedWithExclusions()
	known := routing.Of("a", "b")

	// Intersection returns the known operand unchanged, in both orders.
	if got := unbounded.Intersection(known); !got.Equal(known) {
		t.Errorf("unbounded intersect known = %v, want %v", got, known)
	}
	if got := known.Intersection(unbounded); !got.Equal(known) {
		t.Errorf("known intersect unbounded = %v, want %v", got, known)
	}

	// Union stays unbounded, in both orders.
	if got := unbounded.Union(known); !got.Equal(unbounded) {
		t.Errorf("unbounded union known = %v", got)
	}
	if got := known.Union(unbounded); !got.Equal(unbounded) {
		t.Errorf("known union unbounded = %v", got)
	}

	// Negation is a no-op.
	if got := unbounded.Negate(); !got.Equal(unbounded) {
		t.Errorf("negated unbounded = %v", got)
	}
}

func TestToReturnValue(t *testing.T) {
	if got := routing.Of("b", "a").ToReturnValue(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("inclusive set should return sorted values, got %v", got)
	}
	if got := routing.Of().ToReturnValue(); got == nil || len(got) != 0 {
		t.Errorf("empty inclusive set should return an empty non-nil list, got %v", got)
	}
	if got := routing.All().ToReturnValue(); got != nil {
		t.Errorf("all should return nil, got %v", got)
	}
	if got := routing.Excluding("a").ToReturnValue(); got != nil {
		t.Errorf("exclusive set should return nil, got %v", got)
	}
	if got := routing.UnboundedWithExclusions().ToReturnValue(); got != nil {
		t.Errorf("unbounded set should return nil, got %v", got)
	}
}
