// Package planner assembles search requests: routing values, index
// expression, and pagination fields, derived from a query's filters and
// pagination arguments against a catalog and a known-index snapshot.
package planner

import (
	"fmt"
	"log/slog"

	"searchgraph/internal/datastore"
	"searchgraph/internal/filter"
	"searchgraph/internal/logging"
	"searchgraph/internal/pagination"
	"searchgraph/internal/rollover"
	"searchgraph/internal/routing"

	"github.com/google/uuid"
)

// Config carries the schema-level planning knobs.
type Config struct {
	// RoutingFieldPaths are the document field paths whose values decide
	// shard routing.
	RoutingFieldPaths []string

	DefaultPageSize int
	MaxPageSize     int

	// RequireIndices makes every plan name at least one index, for stores
	// that reject requests with an empty index expression.
	RequireIndices bool
}

// Query is one query to plan.
type Query struct {
	// Filters are the query's top-level filter trees.
	Filters []filter.Filter

	// StoreQuery is the store query fragment built by the caller; the
	// planner assigns it to the request body untouched.
	StoreQuery map[string]any

	Sort []pagination.SortClause

	First  *int
	Last   *int
	After  string // encoded cursor, empty for none
	Before string // encoded cursor, empty for none

	// DocsNeeded and TotalCountNeeded mirror which connection fields the
	// caller resolved; both false plans a request that fetches nothing.
	DocsNeeded       bool
	TotalCountNeeded bool

	// Display names for user-facing errors. Empty falls back to the
	// canonical argument names.
	FirstArgName string
	LastArgName  string
	SortArgName  string
}

// Planner plans search requests. It is safe for concurrent use; all state
// is configuration.
type Planner struct {
	catalog *datastore.Catalog
	picker  *routing.Picker
	builder *rollover.Builder
	cfg     Config
	logger  *slog.Logger
}

// New returns a Planner over the given catalog.
func New(catalog *datastore.Catalog, cfg Config, logger *slog.Logger) *Planner {
	return &Planner{
		catalog: catalog,
		picker:  routing.NewPicker(),
		builder: rollover.NewBuilder(),
		cfg:     cfg,
		logger:  logging.Component(logger, "planner"),
	}
}

// Plan derives the search request for a query against one known-index
// snapshot. Errors are user errors: invalid pagination arguments or
// cursors.
func (p *Planner) Plan(query Query, snapshot *datastore.Snapshot) (*Plan, error) {
	paginator, err := p.paginator(query)
	if err != nil {
		return nil, err
	}

	routingValues, constrained := p.picker.ExtractEligibleRoutingValues(query.Filters, p.cfg.RoutingFieldPaths)

	candidates := snapshot.Candidates(p.catalog)
	decisions := p.builder.Decide(query.Filters, candidates, p.cfg.RequireIndices)
	expression := rollover.EmptyExpression()
	for _, d := range decisions {
		expression = expression.Union(d.Expression)
	}

	searchAfter, err := paginator.SearchAfterValues()
	if err != nil {
		return nil, err
	}
	sort := paginator.EffectiveSort()
	sortFields := make([]map[string]any, len(sort))
	for i, clause := range sort {
		sortFields[i] = clause.RequestField()
	}

	plan := &Plan{
		ID: uuid.New(),
		Request: datastore.SearchRequest{
			Index:   expression.String(),
			Routing: routingValues,
			Body: datastore.SearchBody{
				Query:          query.StoreQuery,
				Size:           paginator.Size(),
				Sort:           sortFields,
				SearchAfter:    searchAfter,
				TrackTotalHits: query.TotalCountNeeded,
			},
		},
		Routing: RoutingPlan{
			Values:      routingValues,
			Constrained: constrained,
		},
		Indices: decisions,
		Pagination: PaginationPlan{
			DesiredPageSize:   paginator.DesiredPageSize(),
			RequestedPageSize: paginator.RequestedPageSize(),
			SearchInReverse:   paginator.SearchInReverse(),
		},
		paginator: paginator,
	}

	p.logger.Debug("query planned",
		"query_id", plan.ID,
		"index", plan.Request.Index,
		"routed", plan.Routing.Values != nil,
		"size", plan.Request.Body.Size,
	)
	return plan, nil
}

// paginator builds the DocumentPaginator for the query, decoding cursors.
func (p *Planner) paginator(query Query) (*pagination.DocumentPaginator, error) {
	cfg := pagination.PaginatorConfig{
		DefaultPageSize: p.cfg.DefaultPageSize,
		MaxPageSize:     p.cfg.MaxPageSize,
		First:           query.First,
		Last:            query.Last,
		FirstArgName:    query.FirstArgName,
		LastArgName:     query.LastArgName,
	}
	if query.After != "" {
		cursor, err := pagination.DecodeCursor(query.After)
		if err != nil {
			return nil, err
		}
		cfg.After = &cursor
	}
	if query.Before != "" {
		cursor, err := pagination.DecodeCursor(query.Before)
		if err != nil {
			return nil, err
		}
		cfg.Before = &cursor
	}

	paginator, err := pagination.NewDocumentPaginator(cfg, query.Sort, query.SortArgName)
	if err != nil {
		return nil, err
	}
	paginator.DocsNeeded = query.DocsNeeded
	paginator.TotalCountNeeded = query.TotalCountNeeded
	return paginator, nil
}

// BuildPage reconciles the rows fetched for a plan into the final page.
// Rows must be in the order the store returned them; sortValues extracts
// one row's values for the intended sort fields.
func BuildPage[T any](plan *Plan, rows []T, sortValues func(T) []any) *Page[T] {
	page := pagination.BuildPage(plan.paginator.Paginator, rows, plan.paginator.Sort, func(row T) pagination.Cursor {
		return plan.paginator.CursorFor(sortValues(row))
	})
	return &Page[T]{Page: page}
}

// Page is a pagination page with encoded edge cursors.
type Page[T any] struct {
	*pagination.Page[T]
}

// Cursors returns the encoded start and end cursors, empty when the page
// is empty.
func (p *Page[T]) Cursors() (start, end string, err error) {
	if p.StartCursor == nil {
		return "", "", nil
	}
	if start, err = p.StartCursor.Encode(); err != nil {
		return "", "", fmt.Errorf("encode start cursor: %w", err)
	}
	if end, err = p.EndCursor.Encode(); err != nil {
		return "", "", fmt.Errorf("encode end cursor: %w", err)
	}
	return start, end, nil
}
