package rollover

import (
	"fmt"
	"time"

	"searchgraph/internal/timeset"
)

// Frequency is how often a rollover group creates a new sub-index.
type Frequency string

const (
	Yearly  Frequency = "yearly"
	Monthly Frequency = "monthly"
	Daily   Frequency = "daily"
	Hourly  Frequency = "hourly"
)

// suffixLayout returns the time layout of sub-index name suffixes for the
// frequency.
func (f Frequency) suffixLayout() (string, error) {
	switch f {
	case Yearly:
		return "2006", nil
	case Monthly:
		return "2006-01", nil
	case Daily:
		return "2006-01-02", nil
	case Hourly:
		return "2006-01-02-15", nil
	default:
		return "", fmt.Errorf("unknown rollover frequency %q", string(f))
	}
}

// advance returns the start of the period after t.
func (f Frequency) advance(t time.Time) time.Time {
	switch f {
	case Yearly:
		return t.AddDate(1, 0, 0)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Daily:
		return t.AddDate(0, 0, 1)
	default:
		return t.Add(time.Hour)
	}
}

// TimeSetForSuffix returns the time range a sub-index with the given name
// suffix covers.
func (f Frequency) TimeSetForSuffix(suffix string) (timeset.TimeSet, error) {
	layout, err := f.suffixLayout()
	if err != nil {
		return timeset.Empty(), err
	}
	start, err := time.ParseInLocation(layout, suffix, time.UTC)
	if err != nil {
		return timeset.Empty(), fmt.Errorf("sub-index suffix %q does not match %s rollover: %w", suffix, f, err)
	}
	return timeset.OfSpan(start, f.advance(start)), nil
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	_, err := f.suffixLayout()
	return err == nil
}
