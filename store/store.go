// Package store adapts a document database into a uniform
// list/filter/create/update/delete contract shared by every collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored record with its store-assigned "id" merged into the
// field set on every read.
type Document map[string]any

// Criteria is an equality-only filter. Entries with a nil value are skipped,
// they do not mean "field is absent".
type Criteria map[string]any

// Order is an explicit ordering specification. The zero value means
// created_date descending.
type Order struct {
	Field string
	Desc  bool
}

// ParseOrder decodes the "-field" sign convention: a leading '-' means
// descending, anything else ascending. Empty input yields the default order.
func ParseOrder(s string) Order {
	if s == "" {
		return Order{Field: "created_date", Desc: true}
	}
	desc := strings.HasPrefix(s, "-")
	field := strings.TrimLeft(s, "+-")
	if field == "" {
		return Order{Field: "created_date", Desc: true}
	}
	return Order{Field: field, Desc: desc}
}

// Backend is the minimal surface a document store has to provide. Ordering
// and limits are pushed down so each backend can apply them natively.
type Backend interface {
	Find(ctx context.Context, collection string, criteria Criteria, order Order, limit int64) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, fields Document) error
	Delete(ctx context.Context, collection, id string) error
}

// Timestamp returns the current time as the ISO-8601 string format the
// documents use (millisecond precision, UTC).
func Timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Decode converts a Document into a typed record via JSON.
func Decode(doc Document, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// ToDocument converts a typed record into a Document via JSON.
func ToDocument(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
