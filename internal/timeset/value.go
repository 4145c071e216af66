package timeset

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// endOfDayOffset is the last store-representable instant of a day,
// relative to midnight.
const endOfDayOffset = 24*time.Hour - Granularity

// ParsePoint interprets a filter operand as the instant a range bound refers
// to. Operands may be time.Time values, RFC 3339 strings, or date-only
// strings.
//
// Date-only values are widened to whole-day bounds: for gt and lte the value
// means the last instant of that day (23:59:59.999), for gte and lt it means
// midnight. This keeps ascending and descending range semantics symmetric:
// gt "2024-04-01" starts just after end-of-day, lt "2024-04-01" ends just
// before start-of-day.
func ParsePoint(kind BoundKind, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse(dateLayout, v); err == nil {
			return widenDate(kind, t), nil
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp value %q for %s", v, kind)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp value %v (%T) for %s", value, value, kind)
	}
}

// widenDate maps a date-only value to the day edge appropriate for the
// bound kind.
func widenDate(kind BoundKind, midnight time.Time) time.Time {
	switch kind {
	case BoundGt, BoundLte:
		return midnight.Add(endOfDayOffset)
	default:
		return midnight
	}
}

// OfBoundValue parses a filter operand and returns the set of instants
// satisfying the range operator.
func OfBoundValue(kind BoundKind, value any) (TimeSet, error) {
	t, err := ParsePoint(kind, value)
	if err != nil {
		return Empty(), err
	}
	return OfBound(kind, t), nil
}

// OfEqualValue returns the set of instants an equality operand refers to.
// A timestamp value covers one store granule; a date-only value covers the
// whole day.
func OfEqualValue(value any) (TimeSet, error) {
	if s, ok := value.(string); ok {
		if midnight, err := time.Parse(dateLayout, s); err == nil {
			return OfSpan(midnight, midnight.AddDate(0, 0, 1)), nil
		}
	}
	t, err := ParsePoint(BoundGte, value)
	if err != nil {
		return Empty(), err
	}
	return OfSpan(t, t.Add(Granularity)), nil
}
