package pagination

// Page is one window of results plus the connection-level page info.
type Page[T any] struct {
	Items           []T
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *Cursor
	EndCursor       *Cursor
}

// BuildPage reconciles the rows fetched from the store into the page the
// caller asked for. Rows must be in search order; they are flipped back to
// the intended order first when the search ran in reverse.
//
// The trims run in a fixed order: the extra detection row, then rows at or
// before the after cursor, then rows at or past the before cursor, then
// surplus leading rows when last is smaller than what remains. Each trim
// also feeds the page-info flags, so a dropped row is never silently lost.
func BuildPage[T any](p *Paginator, items []T, sorts []SortClause, cursorOf func(T) Cursor) *Page[T] {
	items = RestoreIntendedItemOrder(p, items)

	desired := p.DesiredPageSize()
	reversed := p.SearchInReverse()

	var extraDropped, afterTrimmed, beforeTrimmed, lastTrimmed bool

	if len(items) > desired {
		// The detection row sits at the far edge of the search, which
		// after reordering is the front for a reverse search.
		extraDropped = true
		if reversed {
			items = items[1:]
		} else {
			items = items[:len(items)-1]
		}
	}

	if p.cfg.After != nil {
		for len(items) > 0 && compareCursors(cursorOf(items[0]), *p.cfg.After, sorts) <= 0 {
			items = items[1:]
			afterTrimmed = true
		}
	}

	if p.cfg.Before != nil {
		for len(items) > 0 && compareCursors(cursorOf(items[len(items)-1]), *p.cfg.Before, sorts) >= 0 {
			items = items[:len(items)-1]
			beforeTrimmed = true
		}
	}

	if p.cfg.Last != nil && len(items) > *p.cfg.Last {
		items = items[len(items)-*p.cfg.Last:]
		lastTrimmed = true
	}

	page := &Page[T]{
		Items:           items,
		HasPreviousPage: p.cfg.After != nil || afterTrimmed || lastTrimmed || (reversed && extraDropped),
		HasNextPage:     p.cfg.Before != nil || beforeTrimmed || (!reversed && extraDropped),
	}
	if len(items) > 0 {
		start := cursorOf(items[0])
		end := cursorOf(items[len(items)-1])
		page.StartCursor = &start
		page.EndCursor = &end
	}
	return page
}

// compareCursors orders two cursors under the given sort clauses. Fields
// absent from either cursor are treated as null.
func compareCursors(a, b Cursor, sorts []SortClause) int {
	for _, clause := range sorts {
		av, _ := a.Value(clause.Field)
		bv, _ := b.Value(clause.Field)
		if c := clause.compareUnder(av, bv); c != 0 {
			return c
		}
	}
	return 0
}
