package pagination

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Cursor is an opaque pagination marker: one item's values for the active
// sort fields, in sort-clause order.
type Cursor struct {
	fields  []string
	values  []any
	single  bool
	encoded string // original encoded form, when decoded from user input
}

// cursorPayload is the wire form of a cursor: msgpack, then URL-safe
// base64. Msgpack keeps cursors compact and type-preserving without
// exposing their structure to clients.
type cursorPayload struct {
	Fields []string `msgpack:"f"`
	Values []any    `msgpack:"v"`
	Single bool     `msgpack:"s,omitempty"`
}

// NewCursor builds a cursor from parallel field/value slices.
// It panics if the slices differ in length; cursors are built from sort
// clauses and item values that are aligned by construction.
func NewCursor(fields []string, values []any) Cursor {
	if len(fields) != len(values) {
		panic(fmt.Sprintf("pagination: cursor fields (%d) and values (%d) are misaligned", len(fields), len(values)))
	}
	return Cursor{fields: slices.Clone(fields), values: slices.Clone(values)}
}

// SingletonCursor is the cursor used when there are no sort fields to pair
// values with, such as paginating a single aggregation bucket.
func SingletonCursor() Cursor {
	return Cursor{single: true}
}

// IsSingleton reports whether this is the singleton cursor.
func (c Cursor) IsSingleton() bool { return c.single }

// Encode renders the cursor in its opaque wire form.
func (c Cursor) Encode() (string, error) {
	raw, err := msgpack.Marshal(cursorPayload{Fields: c.fields, Values: c.values, Single: c.single})
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor parses a cursor from its wire form. Failures are user
// errors: cursors arrive from clients and may be corrupt or forged.
func DecodeCursor(encoded string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Cursor{}, &CursorError{Encoded: encoded, Cause: err}
	}
	var payload cursorPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return Cursor{}, &CursorError{Encoded: encoded, Cause: err}
	}
	if !payload.Single && len(payload.Fields) != len(payload.Values) {
		return Cursor{}, &CursorError{Encoded: encoded, Cause: fmt.Errorf("misaligned cursor payload")}
	}
	return Cursor{
		fields:  payload.Fields,
		values:  payload.Values,
		single:  payload.Single,
		encoded: encoded,
	}, nil
}

// Value returns the cursor's value for the given sort field.
func (c Cursor) Value(field string) (any, bool) {
	for i, f := range c.fields {
		if f == field {
			return c.values[i], true
		}
	}
	return nil, false
}

// SortValues returns the cursor's values for the given sort fields in
// order, for use as a search_after tuple. A missing field is a user error:
// the cursor was produced under a different sort than the current request.
func (c Cursor) SortValues(sortFields []string, sortArg string) ([]any, error) {
	out := make([]any, 0, len(sortFields))
	for _, field := range sortFields {
		v, ok := c.Value(field)
		if !ok {
			return nil, &CursorError{Encoded: c.encodedForm(), SortArg: sortArg, MissingField: field}
		}
		out = append(out, v)
	}
	return out, nil
}

// encodedForm returns the original wire form, encoding on demand for
// cursors built locally.
func (c Cursor) encodedForm() string {
	if c.encoded != "" {
		return c.encoded
	}
	encoded, err := c.Encode()
	if err != nil {
		return "<unencodable cursor>"
	}
	return encoded
}
