// Package timeset implements an immutable set of time intervals.
//
// A TimeSet is stored as a sorted list of non-overlapping half-open spans
// [start, end). A zero start means "unbounded below" and a zero end means
// "unbounded above", following the convention used for query time bounds
// elsewhere in the system. Spans are merged on construction, so two TimeSets
// covering the same instants always have the same representation.
//
// The store indexes timestamps at millisecond precision, so exclusive bounds
// are converted to inclusive ones by shifting one millisecond.
package timeset

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the finest timestamp resolution the store distinguishes.
const Granularity = time.Millisecond

// BoundKind identifies one of the four range operators a time bound can
// originate from.
type BoundKind int

const (
	BoundGt BoundKind = iota
	BoundGte
	BoundLt
	BoundLte
)

func (k BoundKind) String() string {
	switch k {
	case BoundGt:
		return "gt"
	case BoundGte:
		return "gte"
	case BoundLt:
		return "lt"
	case BoundLte:
		return "lte"
	}
	return fmt.Sprintf("BoundKind(%d)", int(k))
}

// span is a half-open interval [start, end). Zero start/end mean unbounded.
type span struct {
	start time.Time
	end   time.Time
}

// empty reports whether the span contains no instants.
// An unbounded side is never empty.
func (s span) empty() bool {
	if s.start.IsZero() || s.end.IsZero() {
		return false
	}
	return !s.start.Before(s.end)
}

// intersect returns the overlap of two spans.
func (s span) intersect(o span) span {
	out := s
	if startLess(out.start, o.start) {
		out.start = o.start
	}
	if endLess(o.end, out.end) {
		out.end = o.end
	}
	return out
}

// startLess compares two start bounds where zero means -infinity.
func startLess(a, b time.Time) bool {
	if a.IsZero() {
		return !b.IsZero()
	}
	if b.IsZero() {
		return false
	}
	return a.Before(b)
}

// endLess compares two end bounds where zero means +infinity.
func endLess(a, b time.Time) bool {
	if b.IsZero() {
		return !a.IsZero()
	}
	if a.IsZero() {
		return false
	}
	return a.Before(b)
}

// TimeSet is an immutable set of instants.
type TimeSet struct {
	spans []span
}

// Empty returns the set containing no instants.
func Empty() TimeSet {
	return TimeSet{}
}

// All returns the set containing every instant.
func All() TimeSet {
	return TimeSet{spans: []span{{}}}
}

// OfSpan returns the set covering the half-open interval [start, end).
// A zero start or end means unbounded on that side.
func OfSpan(start, end time.Time) TimeSet {
	s := span{start: start, end: end}
	if s.empty() {
		return Empty()
	}
	return TimeSet{spans: []span{s}}
}

// OfBound returns the set of instants satisfying a single range operator.
func OfBound(kind BoundKind, t time.Time) TimeSet {
	switch kind {
	case BoundGt:
		return OfSpan(t.Add(Granularity), time.Time{})
	case BoundGte:
		return OfSpan(t, time.Time{})
	case BoundLt:
		return OfSpan(time.Time{}, t)
	case BoundLte:
		return OfSpan(time.Time{}, t.Add(Granularity))
	}
	panic(fmt.Sprintf("timeset: unknown bound kind %d", int(kind)))
}

// Of returns the normalized union of the given sets.
func Of(sets ...TimeSet) TimeSet {
	out := Empty()
	for _, s := range sets {
		out = out.Union(s)
	}
	return out
}

// IsEmpty reports whether the set contains no instants.
func (ts TimeSet) IsEmpty() bool {
	return len(ts.spans) == 0
}

// IsAll reports whether the set contains every instant.
func (ts TimeSet) IsAll() bool {
	return len(ts.spans) == 1 && ts.spans[0].start.IsZero() && ts.spans[0].end.IsZero()
}

// Contains reports whether the set includes the given instant.
func (ts TimeSet) Contains(t time.Time) bool {
	for _, s := range ts.spans {
		if !s.start.IsZero() && t.Before(s.start) {
			continue
		}
		if !s.end.IsZero() && !t.Before(s.end) {
			continue
		}
		return true
	}
	return false
}

// Union returns the set of instants in either set.
func (ts TimeSet) Union(o TimeSet) TimeSet {
	merged := make([]span, 0, len(ts.spans)+len(o.spans))
	merged = append(merged, ts.spans...)
	merged = append(merged, o.spans...)
	return normalize(merged)
}

// Intersection returns the set of instants in both sets.
func (ts TimeSet) Intersection(o TimeSet) TimeSet {
	var out []span
	for _, a := range ts.spans {
		for _, b := range o.spans {
			if iv := a.intersect(b); !iv.empty() {
				out = append(out, iv)
			}
		}
	}
	return normalize(out)
}

// Intersects reports whether the two sets share at least one instant.
func (ts TimeSet) Intersects(o TimeSet) bool {
	for _, a := range ts.spans {
		for _, b := range o.spans {
			if !a.intersect(b).empty() {
				return true
			}
		}
	}
	return false
}

// Negate returns the complement of the set.
func (ts TimeSet) Negate() TimeSet {
	if ts.IsEmpty() {
		return All()
	}

	// Spans are sorted and disjoint, so the complement is the gaps
	// between them plus the unbounded tails.
	var out []span
	first := ts.spans[0]
	if !first.start.IsZero() {
		out = append(out, span{end: first.start})
	}
	for i := 0; i < len(ts.spans)-1; i++ {
		out = append(out, span{start: ts.spans[i].end, end: ts.spans[i+1].start})
	}
	last := ts.spans[len(ts.spans)-1]
	if !last.end.IsZero() {
		out = append(out, span{start: last.end})
	}
	return normalize(out)
}

// Equal reports whether the two sets cover exactly the same instants.
func (ts TimeSet) Equal(o TimeSet) bool {
	if len(ts.spans) != len(o.spans) {
		return false
	}
	for i := range ts.spans {
		if !ts.spans[i].start.Equal(o.spans[i].start) || !ts.spans[i].end.Equal(o.spans[i].end) {
			return false
		}
	}
	return true
}

// String renders the set for logs and plan output.
func (ts TimeSet) String() string {
	if ts.IsEmpty() {
		return "(empty)"
	}
	if ts.IsAll() {
		return "(all)"
	}
	parts := make([]string, 0, len(ts.spans))
	for _, s := range ts.spans {
		start, end := "-inf", "+inf"
		if !s.start.IsZero() {
			start = s.start.UTC().Format(time.RFC3339Nano)
		}
		if !s.end.IsZero() {
			end = s.end.UTC().Format(time.RFC3339Nano)
		}
		parts = append(parts, "["+start+", "+end+")")
	}
	return strings.Join(parts, " u ")
}

// normalize sorts spans by start and merges overlapping or adjacent ones.
func normalize(spans []span) TimeSet {
	kept := spans[:0]
	for _, s := range spans {
		if !s.empty() {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return Empty()
	}

	sorted := make([]span, len(kept))
	copy(sorted, kept)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && startLess(sorted[j].start, sorted[j-1].start); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	out := sorted[:1]
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if spansTouch(*last, s) {
			if endLess(last.end, s.end) {
				last.end = s.end
			}
			continue
		}
		out = append(out, s)
	}
	return TimeSet{spans: out}
}

// spansTouch reports whether b overlaps or is adjacent to a, assuming
// a.start <= b.start.
func spansTouch(a, b span) bool {
	if a.end.IsZero() {
		return true
	}
	if b.start.IsZero() {
		return true
	}
	return !a.end.Before(b.start)
}
