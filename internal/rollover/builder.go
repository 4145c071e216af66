package rollover

import (
	"cmp"
	"slices"

	"searchgraph/internal/filter"
	"searchgraph/internal/timeset"
)

// timeWindow is a TimeSet plus whether it is exact. A widened (inexact)
// window is an over-approximation of the instants the predicate allows;
// negating an over-approximation would produce an under-approximation, so
// negation of an inexact window widens to the unconstrained set instead of
// taking the complement.
type timeWindow struct {
	set   timeset.TimeSet
	exact bool
}

func widened() timeWindow {
	return timeWindow{set: timeset.All()}
}

// timeSetReducer reduces timestamp predicates to a timeWindow.
//
// Values that cannot be parsed as timestamps reduce to the unconstrained
// window: a malformed filter may search more indices than necessary, but
// must never exclude one that could hold a match.
type timeSetReducer struct{}

func (timeSetReducer) EqualToAnyOf(values []any) timeWindow {
	out := timeset.Empty()
	for _, v := range values {
		if v == nil {
			continue
		}
		set, err := timeset.OfEqualValue(v)
		if err != nil {
			return widened()
		}
		out = out.Union(set)
	}
	return timeWindow{set: out, exact: true}
}

func (timeSetReducer) Range(op string, value any) timeWindow {
	var kind timeset.BoundKind
	switch op {
	case filter.OpGt:
		kind = timeset.BoundGt
	case filter.OpGte:
		kind = timeset.BoundGte
	case filter.OpLt:
		kind = timeset.BoundLt
	case filter.OpLte:
		kind = timeset.BoundLte
	default:
		// A pattern match gives no usable time bound.
		return widened()
	}
	set, err := timeset.OfBoundValue(kind, value)
	if err != nil {
		return widened()
	}
	return timeWindow{set: set, exact: true}
}

func (timeSetReducer) All() timeWindow { return widened() }

func (timeSetReducer) Intersection(a, b timeWindow) timeWindow {
	return timeWindow{set: a.set.Intersection(b.set), exact: a.exact && b.exact}
}

func (timeSetReducer) Union(a, b timeWindow) timeWindow {
	return timeWindow{set: a.set.Union(b.set), exact: a.exact && b.exact}
}

func (timeSetReducer) Negate(v timeWindow) timeWindow {
	if !v.exact {
		return widened()
	}
	return timeWindow{set: v.set.Negate(), exact: true}
}

// Decision records what the builder decided for one candidate index, for
// plan explanation.
type Decision struct {
	Index      string
	Expression IndexExpression

	// Rollover-only fields.
	TimeSet          string   // derived filter time set, rendered
	EmptyTimeSet     bool     // filters provably exclude every timestamp
	Excluded         []string // sub-indices pruned because their range cannot match
	RelaxedExclusion string   // exclusion dropped to satisfy requireIndices, if any
}

// Builder determines the index expression a search request should target.
// It is pure and safe for concurrent use.
type Builder struct{}

// NewBuilder returns a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// DetermineSearchIndexExpression builds the minimal index expression
// covering every index that could contain a document matching the filters.
//
// When requireIndices is true the result always names at least one index,
// even when the filters provably match nothing; the store's API rejects
// requests that name no index at all.
func (b *Builder) DetermineSearchIndexExpression(filters []filter.Filter, candidates []Index, requireIndices bool) IndexExpression {
	expr := EmptyExpression()
	for _, d := range b.Decide(filters, candidates, requireIndices) {
		expr = expr.Union(d.Expression)
	}
	return expr
}

// Decide returns the per-candidate decisions in index-name order.
func (b *Builder) Decide(filters []filter.Filter, candidates []Index, requireIndices bool) []Decision {
	sorted := make([]Index, len(candidates))
	copy(sorted, candidates)
	slices.SortFunc(sorted, func(a, b Index) int {
		return cmp.Compare(a.Name, b.Name)
	})

	decisions := make([]Decision, 0, len(sorted))
	for _, idx := range sorted {
		decisions = append(decisions, b.decideOne(filters, idx, requireIndices))
	}
	return decisions
}

func (b *Builder) decideOne(filters []filter.Filter, idx Index, requireIndices bool) Decision {
	d := Decision{Index: idx.Name}

	if !idx.IsRollover() {
		d.Expression = Only(idx.Expression())
		return d
	}

	set, ok := TimeSetForFilters(filters, idx.Rollover.TimestampPath)
	if !ok {
		set = timeset.All()
	}
	d.TimeSet = set.String()

	known := idx.Rollover.KnownIndices

	if set.IsEmpty() {
		d.EmptyTimeSet = true
		if !requireIndices {
			d.Expression = EmptyExpression()
			return d
		}
		// No document can match, but the store requires at least one index
		// to be named. Pick the alphabetically smallest known sub-index as
		// a deterministic placeholder, falling back to the group wildcard
		// when none are known.
		if len(known) > 0 {
			d.Expression = Only(known[0].Name)
		} else {
			d.Expression = Only(idx.Expression())
		}
		return d
	}

	var excluded []string
	for _, sub := range known {
		if !sub.Covers.Intersects(set) {
			excluded = append(excluded, sub.Name)
		}
	}

	// If exclusion would leave zero named indices, drop exactly one
	// exclusion (the first) rather than all of them. A not-yet-known
	// sub-index could still match through the wildcard, so no single index
	// can be named outright; keeping all but one exclusion preserves as
	// much pruning as the "name at least one index" constraint allows.
	if requireIndices && len(known) > 0 && len(excluded) == len(known) {
		d.RelaxedExclusion = excluded[0]
		excluded = excluded[1:]
	}

	d.Excluded = excluded
	d.Expression = NewExpression([]string{idx.Expression()}, excluded)
	return d
}

// TimeSetForFilters extracts the set of timestamps the filters allow at the
// given field path. The boolean reports whether the path was mentioned at
// all.
func TimeSetForFilters(filters []filter.Filter, timestampPath string) (timeset.TimeSet, bool) {
	window, ok := filter.NewExtractor[timeWindow](timeSetReducer{}, timestampPath).ExtractValueSet(filters)
	if !ok {
		return timeset.Empty(), false
	}
	return window.set, true
}
