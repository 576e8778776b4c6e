// Package resourcetest provides an in-memory resource.Store for tests.
package resourcetest

import (
	"context"
	"sort"
	"sync"

	"spaceapp/internal/resource"
	"spaceapp/internal/shared/errors"
)

// MemoryStore keeps rows in a map and assigns ids from a counter, mirroring
// the Postgres repository's contract.
type MemoryStore[T any] struct {
	schema *resource.Schema[T]

	mu     sync.Mutex
	nextID int64
	rows   map[int64]T

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryStore[T any](schema *resource.Schema[T]) *MemoryStore[T] {
	return &MemoryStore[T]{
		schema: schema,
		nextID: 1,
		rows:   make(map[int64]T),
	}
}

func (m *MemoryStore[T]) List(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.rows[id])
	}
	return items, nil
}

func (m *MemoryStore[T]) Get(_ context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	row, ok := m.rows[id]
	if !ok {
		return nil, m.notFound(id)
	}
	return &row, nil
}

func (m *MemoryStore[T]) Create(_ context.Context, row *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	created := *row
	*m.schema.ID(&created) = m.nextID
	m.rows[m.nextID] = created
	m.nextID++
	return &created, nil
}

func (m *MemoryStore[T]) Update(_ context.Context, id int64, row *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	if _, ok := m.rows[id]; !ok {
		return nil, m.notFound(id)
	}
	updated := *row
	*m.schema.ID(&updated) = id
	m.rows[id] = updated
	return &updated, nil
}

func (m *MemoryStore[T]) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.rows[id]; !ok {
		return m.notFound(id)
	}
	delete(m.rows, id)
	return nil
}

// Len reports how many rows are stored.
func (m *MemoryStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemoryStore[T]) notFound(id int64) error {
	return errors.NotFoundf("%s not found with id: %d", m.schema.Entity, id)
}
