package rollover

import (
	"strings"

	"searchgraph/internal/timeset"
)

// SuffixSeparator separates a rollover group's base name from a sub-index's
// time suffix, e.g. "widgets__2024-04".
const SuffixSeparator = "__"

// SubIndex is one known concrete sub-index of a rollover group.
type SubIndex struct {
	Name   string
	Covers timeset.TimeSet
}

// Rollover describes the time partitioning of a rollover index group.
type Rollover struct {
	// Frequency at which new sub-indices are created.
	Frequency Frequency

	// TimestampPath is the document field path the group is partitioned by.
	TimestampPath string

	// KnownIndices is the snapshot of concrete sub-indices known to exist,
	// sorted by name. The snapshot may be stale: a sub-index created after
	// it was taken is still reachable through the group's wildcard search
	// expression, so completeness is never relied upon.
	KnownIndices []SubIndex
}

// Index is one candidate index a query may need to search: either a plain
// index or a rollover group.
type Index struct {
	// Name of the index (or of the rollover group).
	Name string

	// SearchExpression is the wildcard expression that searches the whole
	// index or group in one request. Empty means the name itself.
	SearchExpression string

	// Rollover is nil for a plain index.
	Rollover *Rollover
}

// Expression returns the search expression, defaulting to the index name.
func (i Index) Expression() string {
	if i.SearchExpression != "" {
		return i.SearchExpression
	}
	return i.Name
}

// IsRollover reports whether the index is a rollover group.
func (i Index) IsRollover() bool {
	return i.Rollover != nil
}

// SubIndexFor builds the SubIndex for a concrete index name, deriving its
// covered time range from the name's suffix and the group's frequency.
func (r *Rollover) SubIndexFor(name string) (SubIndex, error) {
	suffix := name
	if i := strings.LastIndex(name, SuffixSeparator); i >= 0 {
		suffix = name[i+len(SuffixSeparator):]
	}
	covers, err := r.Frequency.TimeSetForSuffix(suffix)
	if err != nil {
		return SubIndex{}, err
	}
	return SubIndex{Name: name, Covers: covers}, nil
}
