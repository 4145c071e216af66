// Package pagination implements Relay-style cursor pagination on top of a
// store whose only pagination primitive is a single forward cursor
// (search_after).
//
// The Paginator turns first/after/last/before arguments into a page size,
// a search direction, and a search_after cursor, and post-processes the
// fetched rows (one more than requested, to detect further pages) back into
// the originally requested order. DocumentPaginator adapts those decisions
// into the pagination fields of a document search request.
//
// Everything here is pure and safe for concurrent use.
package pagination

import "fmt"

// ArgumentError is a user-facing error for an invalid pagination argument.
// Name is the caller-supplied display name of the argument, so schemas that
// rename first/last surface the name the user actually wrote.
type ArgumentError struct {
	Name  string
	Value int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("`%s` cannot be negative, but was %d", e.Name, e.Value)
}

// CursorError is a user-facing error for a cursor that cannot be decoded or
// does not carry a value for every active sort field.
type CursorError struct {
	// Encoded is the cursor as the user supplied it.
	Encoded string

	// SortArg is the display name of the sort argument whose fields the
	// cursor must cover; empty for decode failures.
	SortArg string

	// MissingField is the sort field the cursor lacks; empty for decode
	// failures.
	MissingField string

	Cause error
}

func (e *CursorError) Error() string {
	if e.MissingField != "" {
		return fmt.Sprintf("cursor %q is missing a value for %q from `%s`", e.Encoded, e.MissingField, e.SortArg)
	}
	return fmt.Sprintf("cursor %q is invalid", e.Encoded)
}

func (e *CursorError) Unwrap() error { return e.Cause }
