package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memoryBackend keeps collections in process memory. It carries the same
// contract as the Mongo backend so tests and storage-less deployments run
// against identical semantics. Ties in sort order preserve insertion order.
type memoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

type memoryDoc struct {
	id     string
	fields Document
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() Backend {
	return &memoryBackend{collections: map[string][]memoryDoc{}}
}

func (m *memoryBackend) Find(_ context.Context, collection string, criteria Criteria, order Order, limit int64) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []memoryDoc{}
	for _, d := range m.collections[collection] {
		if matches(d.fields, criteria) {
			matched = append(matched, d)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i].fields[order.Field], matched[j].fields[order.Field])
		if order.Desc {
			return c > 0
		}
		return c < 0
	})

	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	docs := make([]Document, 0, len(matched))
	for _, d := range matched {
		docs = append(docs, withID(d))
	}
	return docs, nil
}

func (m *memoryBackend) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.collections[collection] {
		if d.id == id {
			return withID(d), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryBackend) Insert(_ context.Context, collection string, doc Document) (string, error) {
	clone, err := cloneDocument(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.collections[collection] = append(m.collections[collection], memoryDoc{id: id, fields: clone})
	return id, nil
}

func (m *memoryBackend) Update(_ context.Context, collection, id string, fields Document) error {
	clone, err := cloneDocument(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i := range docs {
		if docs[i].id == id {
			for k, v := range clone {
				docs[i].fields[k] = v
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryBackend) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	for i := range docs {
		if docs[i].id == id {
			m.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func withID(d memoryDoc) Document {
	out := Document{"id": d.id}
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

func cloneDocument(doc Document) (Document, error) {
	clone, err := ToDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	if clone == nil {
		clone = Document{}
	}
	return clone, nil
}

func matches(fields Document, criteria Criteria) bool {
	for k, want := range criteria {
		if compareEq(fields[k], want) {
			continue
		}
		return false
	}
	return true
}

// compareEq treats all numeric types as one domain, matching how a
// JSON-backed store would compare them.
func compareEq(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func compare(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as := fmt.Sprint(a)
	bs := fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
