package rollover_test

import (
	"slices"
	"testing"

	"searchgraph/internal/rollover"
)

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name string
		expr rollover.IndexExpression
		want string
	}{
		{"empty", rollover.EmptyExpression(), ""},
		{"single", rollover.Only("widgets"), "widgets"},
		{
			"inclusions sorted before exclusions",
			rollover.NewExpression(
				[]string{"widgets__*", "components"},
				[]string{"widgets__2024-03", "widgets__2024-01"},
			),
			"components,widgets__*,-widgets__2024-01,-widgets__2024-03",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpressionUnion(t *testing.T) {
	a := rollover.NewExpression([]string{"widgets__*"}, []string{"widgets__2024-01"})
	b := rollover.NewExpression([]string{"components"}, nil)

	got := a.Union(b)
	if want := "components,widgets__*,-widgets__2024-01"; got.String() != want {
		t.Errorf("union = %q, want %q", got.String(), want)
	}

	// Union with empty is the identity.
	if got := a.Union(rollover.EmptyExpression()); got.String() != a.String() {
		t.Errorf("union with empty = %q", got.String())
	}

	// Duplicate names collapse.
	if got := a.Union(a); got.String() != a.String() {
		t.Errorf("self union = %q", got.String())
	}
}

func TestExpressionIsEmpty(t *testing.T) {
	if !rollover.EmptyExpression().IsEmpty() {
		t.Error("EmptyExpression should be empty")
	}
	if rollover.Only("x").IsEmpty() {
		t.Error("Only should not be empty")
	}
}

func TestExpressionAccessors(t *testing.T) {
	e := rollover.NewExpression([]string{"b", "a"}, []string{"d", "c"})
	if got := e.Includes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Includes() = %v", got)
	}
	if got := e.Excludes(); !slices.Equal(got, []string{"c", "d"}) {
		t.Errorf("Excludes() = %v", got)
	}
}
