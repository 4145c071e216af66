package planner

import (
	"fmt"
	"strings"

	"searchgraph/internal/datastore"
	"searchgraph/internal/pagination"
	"searchgraph/internal/rollover"

	"github.com/google/uuid"
)

// Plan describes how a query will be executed, without executing it.
type Plan struct {
	ID      uuid.UUID
	Request datastore.SearchRequest

	Routing    RoutingPlan
	Indices    []rollover.Decision // per-candidate decisions, name order
	Pagination PaginationPlan

	paginator *pagination.DocumentPaginator
}

// RoutingPlan describes the shard-routing decision.
type RoutingPlan struct {
	Values      []string // nil when the request fans out to all shards
	Constrained bool     // whether any filter referenced a routing field
}

// PaginationPlan describes the pagination decisions.
type PaginationPlan struct {
	DesiredPageSize   int
	RequestedPageSize int
	SearchInReverse   bool
}

// Describe renders the plan as human-readable text for explain output.
func (p *Plan) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "query %s\n", p.ID)
	fmt.Fprintf(&b, "index: %s\n", p.Request.Index)

	switch {
	case p.Routing.Values != nil:
		fmt.Fprintf(&b, "routing: %s\n", strings.Join(p.Routing.Values, ","))
	case p.Routing.Constrained:
		b.WriteString("routing: all shards (filters reduce to a non-enumerable set)\n")
	default:
		b.WriteString("routing: all shards (no filter references a routing field)\n")
	}

	direction := "forward"
	if p.Pagination.SearchInReverse {
		direction = "reverse"
	}
	fmt.Fprintf(&b, "pagination: size %d (%d + detection row), %s\n",
		p.Request.Body.Size, p.Pagination.DesiredPageSize, direction)

	for _, d := range p.Indices {
		fmt.Fprintf(&b, "  %s: %s", d.Index, describeExpression(d.Expression))
		if d.TimeSet != "" {
			fmt.Fprintf(&b, " (timestamps %s)", d.TimeSet)
		}
		if d.EmptyTimeSet {
			b.WriteString(" [no timestamp can match]")
		}
		if len(d.Excluded) > 0 {
			fmt.Fprintf(&b, " [pruned %s]", strings.Join(d.Excluded, ","))
		}
		if d.RelaxedExclusion != "" {
			fmt.Fprintf(&b, " [kept %s to name at least one index]", d.RelaxedExclusion)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func describeExpression(expr rollover.IndexExpression) string {
	if expr.IsEmpty() {
		return "skipped"
	}
	return expr.String()
}
