package store

import (
	"context"
	"errors"
	"fmt"
)

// Entity exposes one named collection through the uniform contract.
type Entity struct {
	name    string
	backend Backend
}

// NewEntity binds a collection name to a backend.
func NewEntity(backend Backend, collection string) *Entity {
	return &Entity{name: collection, backend: backend}
}

// Collection returns the collection name the entity is bound to.
func (e *Entity) Collection() string {
	return e.name
}

// List returns every document ordered by the given spec. limit <= 0 means
// no cap. There is no offset/cursor paging; callers that need it must cap
// with limit and aggregate client-side.
func (e *Entity) List(ctx context.Context, orderSpec string, limit int64) ([]Document, error) {
	docs, err := e.backend.Find(ctx, e.name, nil, ParseOrder(orderSpec), limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.name, err)
	}
	return docs, nil
}

// Filter returns documents matching every criteria entry, ordered and
// capped like List. A criteria of exactly {"id": x} resolves by direct
// lookup and bypasses ordering; an id alongside other criteria is applied
// as a client-side double check on the query result.
func (e *Entity) Filter(ctx context.Context, criteria Criteria, orderSpec string, limit int64) ([]Document, error) {
	id, hasID := criteria["id"]
	idStr, _ := id.(string)

	if hasID && len(criteria) == 1 {
		doc, err := e.backend.Get(ctx, e.name, idStr)
		if errors.Is(err, ErrNotFound) {
			return []Document{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("filter %s by id: %w", e.name, err)
		}
		return []Document{doc}, nil
	}

	query := Criteria{}
	for k, v := range criteria {
		if k == "id" || v == nil {
			continue
		}
		query[k] = v
	}

	docs, err := e.backend.Find(ctx, e.name, query, ParseOrder(orderSpec), limit)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", e.name, err)
	}

	if hasID {
		matched := docs[:0]
		for _, d := range docs {
			if d["id"] == idStr {
				matched = append(matched, d)
			}
		}
		docs = matched
	}
	return docs, nil
}

// Create persists a new document and returns it with the assigned id.
// created_date is defaulted only when the caller did not supply one;
// updated_date is always overwritten. Unknown fields pass through untouched.
func (e *Entity) Create(ctx context.Context, data Document) (Document, error) {
	now := Timestamp()
	payload := Document{}
	for k, v := range data {
		payload[k] = v
	}
	if created, ok := payload["created_date"].(string); !ok || created == "" {
		payload["created_date"] = now
	}
	payload["updated_date"] = now

	id, err := e.backend.Insert(ctx, e.name, payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", e.name, err)
	}

	out := Document{"id": id}
	for k, v := range payload {
		out[k] = v
	}
	return out, nil
}

// Update writes the given fields onto an existing document (partial update,
// unmentioned fields are preserved) with a refreshed updated_date, and
// returns the resulting full document. Returns ErrNotFound for unknown ids.
func (e *Entity) Update(ctx context.Context, id string, data Document) (Document, error) {
	fields := Document{}
	for k, v := range data {
		fields[k] = v
	}
	fields["updated_date"] = Timestamp()

	if err := e.backend.Update(ctx, e.name, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update %s: %w", e.name, err)
	}

	doc, err := e.backend.Get(ctx, e.name, id)
	if err != nil {
		return nil, fmt.Errorf("update %s: reread: %w", e.name, err)
	}
	return doc, nil
}

// Delete removes a document. Not idempotent: deleting an unknown id
// returns ErrNotFound.
func (e *Entity) Delete(ctx context.Context, id string) error {
	if err := e.backend.Delete(ctx, e.name, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete %s: %w", e.name, err)
	}
	return nil
}
