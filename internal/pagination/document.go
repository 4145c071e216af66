package pagination

// DocumentPaginator adapts a Paginator's decisions to the pagination
// fields of a document search request: size, sort, search_after, and
// track_total_hits.
type DocumentPaginator struct {
	*Paginator

	// Sort is the caller's intended sort, before any reversal.
	Sort []SortClause

	// SortArgName is the display name of the sort argument, used in
	// cursor errors. Empty defaults to "sort".
	SortArgName string

	// DocsNeeded reports whether the caller wants the documents
	// themselves. When false the request fetches nothing (size 0),
	// serving queries that only want page info or a total count.
	DocsNeeded bool

	// TotalCountNeeded reports whether the caller wants an exact total
	// hit count, which the store only computes on request.
	TotalCountNeeded bool
}

// NewDocumentPaginator validates the pagination arguments and pairs them
// with the intended sort.
func NewDocumentPaginator(cfg PaginatorConfig, sort []SortClause, sortArgName string) (*DocumentPaginator, error) {
	p, err := NewPaginator(cfg)
	if err != nil {
		return nil, err
	}
	if sortArgName == "" {
		sortArgName = "sort"
	}
	return &DocumentPaginator{Paginator: p, Sort: sort, SortArgName: sortArgName, DocsNeeded: true}, nil
}

// Size is the request size: the desired page plus the detection row, or
// zero when no documents are needed.
func (d *DocumentPaginator) Size() int {
	if !d.DocsNeeded {
		return 0
	}
	return d.RequestedPageSize()
}

// EffectiveSort is the sort to send with the request: the intended sort,
// reversed when the search runs in reverse. Empty when nothing is fetched;
// sorting zero rows is wasted work for the store.
func (d *DocumentPaginator) EffectiveSort() []SortClause {
	if d.Size() == 0 {
		return nil
	}
	if d.SearchInReverse() {
		return ReverseSort(d.Sort)
	}
	return d.Sort
}

// SearchAfterValues is the search_after tuple for the request: the resume
// cursor's values for the sort fields, or nil when the page starts at an
// edge. The cursor must carry a value for every sort field; a cursor
// minted under a different sort is a user error.
func (d *DocumentPaginator) SearchAfterValues() ([]any, error) {
	cursor := d.SearchAfter()
	if cursor == nil {
		return nil, nil
	}
	return cursor.SortValues(SortFields(d.Sort), d.SortArgName)
}

// RequestFields renders the pagination portion of a search request.
// Empty and false values are omitted rather than emitted as zero values.
func (d *DocumentPaginator) RequestFields() (map[string]any, error) {
	fields := map[string]any{"size": d.Size()}
	if sort := d.EffectiveSort(); len(sort) > 0 {
		entries := make([]map[string]any, len(sort))
		for i, c := range sort {
			entries[i] = c.RequestField()
		}
		fields["sort"] = entries
	}
	after, err := d.SearchAfterValues()
	if err != nil {
		return nil, err
	}
	if len(after) > 0 {
		fields["search_after"] = after
	}
	if d.TotalCountNeeded {
		fields["track_total_hits"] = true
	}
	return fields, nil
}

// CursorFor builds the cursor for one fetched document from its sort
// values, aligned with the intended sort.
func (d *DocumentPaginator) CursorFor(values []any) Cursor {
	return NewCursor(SortFields(d.Sort), values)
}
