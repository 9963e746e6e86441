package employee

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps employees in a map guarded by a RWMutex. It backs the
// memory store driver and the package tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Employee
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]Employee)}
}

func (m *MemoryStore) snapshot() []Employee {
	out := make([]Employee, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out
}

func (m *MemoryStore) Search(ctx context.Context, q Query) (PagedResult, error) {
	if err := ctx.Err(); err != nil {
		return PagedResult{}, err
	}
	m.mu.RLock()
	records := m.snapshot()
	m.mu.RUnlock()
	return q.Apply(records), nil
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	records := m.snapshot()
	m.mu.RUnlock()

	bySurname := Query{SortColumn: FieldSurname, SortDirection: SortAsc}
	sort.SliceStable(records, func(i, j int) bool { return bySurname.Less(records[i], records[j]) })
	return records, nil
}

func (m *MemoryStore) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return &e, nil
}

func (m *MemoryStore) CreateEmployee(ctx context.Context, e Employee) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.rows[e.ID] = e
	return e.ID, nil
}

func (m *MemoryStore) UpdateEmployee(ctx context.Context, e Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[e.ID]; !ok {
		return &NotFoundError{ID: e.ID}
	}
	m.rows[e.ID] = e
	return nil
}

func (m *MemoryStore) DeleteEmployee(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryStore) BulkInsert(ctx context.Context, records []Employee) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range records {
		m.nextID++
		e.ID = m.nextID
		m.rows[e.ID] = e
	}
	return len(records), nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}
