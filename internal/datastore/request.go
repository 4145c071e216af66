// Package datastore models the boundary to the search datastore: the
// request fragments the planner produces, the index-definition catalog,
// and the known-sub-index snapshot a query plans against.
//
// It renders request bodies and models collaborator interfaces; it does not
// speak the store's HTTP protocol.
package datastore

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// SearchBody is the body of one search request. Empty and zero fields are
// omitted from the rendered JSON rather than emitted as empty values.
type SearchBody struct {
	Query          map[string]any   `json:"query,omitempty"`
	Size           int              `json:"size,omitempty"`
	Sort           []map[string]any `json:"sort,omitempty"`
	SearchAfter    []any            `json:"search_after,omitempty"`
	TrackTotalHits bool             `json:"track_total_hits,omitempty"`
}

// SearchRequest is one planned search: the index expression and routing to
// address it with, and the body to send.
type SearchRequest struct {
	// Index is the index expression string: inclusions first, then
	// exclusions each prefixed with "-".
	Index string

	// Routing is the set of eligible routing values. Nil means the
	// routing parameter is omitted and the store fans out to all shards.
	Routing []string

	Body SearchBody
}

// header is the msearch header line addressing one request.
type header struct {
	Index   string `json:"index"`
	Routing string `json:"routing,omitempty"`
}

// EncodeMSearch renders the requests in the store's multi-search wire
// shape: alternating header and body lines of newline-delimited JSON.
func EncodeMSearch(w io.Writer, requests []SearchRequest) error {
	enc := json.NewEncoder(w)
	for i, req := range requests {
		h := header{Index: req.Index, Routing: strings.Join(req.Routing, ",")}
		if err := enc.Encode(h); err != nil {
			return fmt.Errorf("encode msearch header %d: %w", i, err)
		}
		if err := enc.Encode(req.Body); err != nil {
			return fmt.Errorf("encode msearch body %d: %w", i, err)
		}
	}
	return nil
}
