package pagination

// PaginatorConfig carries the pagination arguments of one query.
type PaginatorConfig struct {
	DefaultPageSize int
	MaxPageSize     int

	First  *int
	Last   *int
	After  *Cursor
	Before *Cursor

	// Display names for the first/last arguments in user-facing errors.
	// Empty defaults to "first"/"last".
	FirstArgName string
	LastArgName  string
}

// Paginator is the pure pagination-argument logic of the Relay Cursor
// Connections algorithm: apply after, then before, then first, then last.
// It decides page size and search direction up front, and reconciles the
// fetched rows afterwards.
type Paginator struct {
	cfg PaginatorConfig
}

// NewPaginator validates the arguments and returns a Paginator.
// Negative first or last is rejected with a user-facing error naming the
// argument and its value.
func NewPaginator(cfg PaginatorConfig) (*Paginator, error) {
	if cfg.FirstArgName == "" {
		cfg.FirstArgName = "first"
	}
	if cfg.LastArgName == "" {
		cfg.LastArgName = "last"
	}
	if cfg.First != nil && *cfg.First < 0 {
		return nil, &ArgumentError{Name: cfg.FirstArgName, Value: *cfg.First}
	}
	if cfg.Last != nil && *cfg.Last < 0 {
		return nil, &ArgumentError{Name: cfg.LastArgName, Value: *cfg.Last}
	}
	return &Paginator{cfg: cfg}, nil
}

// DesiredPageSize is the number of items the caller will receive at most.
func (p *Paginator) DesiredPageSize() int {
	size := p.cfg.DefaultPageSize
	switch {
	case p.cfg.First != nil:
		size = *p.cfg.First
	case p.cfg.Last != nil:
		size = *p.cfg.Last
	}
	return min(size, p.cfg.MaxPageSize)
}

// RequestedPageSize is the number of rows to fetch from the store: one more
// than desired, so the presence of a further page is detectable without a
// second round trip.
func (p *Paginator) RequestedPageSize() int {
	desired := p.DesiredPageSize()
	if desired == 0 {
		return 0
	}
	return desired + 1
}

// SearchInReverse reports whether the store should be searched with the
// sort reversed and the results flipped back afterwards.
//
// first must be honored by scanning forward from the start (or from
// after), so the search is never reversed when first is supplied. Without
// that constraint, last and before are naturally satisfied by fetching
// from the far end in reverse order.
func (p *Paginator) SearchInReverse() bool {
	if p.cfg.First != nil {
		return false
	}
	return p.cfg.Last != nil || p.cfg.Before != nil
}

// SearchAfter returns the cursor to resume the search from: always the one
// nearest the edge being approached.
func (p *Paginator) SearchAfter() *Cursor {
	if p.SearchInReverse() {
		return p.cfg.Before
	}
	return p.cfg.After
}

// RestoreIntendedItemOrder flips the fetched rows back into the originally
// requested order when the search ran in reverse.
func RestoreIntendedItemOrder[T any](p *Paginator, items []T) []T {
	if !p.SearchInReverse() {
		return items
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
