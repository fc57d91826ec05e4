package core

import (
	"context"
	"sync"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu      sync.Mutex
	persons []Person
	nextID  int64

	// failSave, when set, is returned by Save.
	failSave error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) GetByID(_ context.Context, id int64) (Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.persons {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, ErrNotFound
}

func (m *memStore) ListByColor(_ context.Context, color Color) ([]Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Person
	for _, p := range m.persons {
		if p.Color == color {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, offset, limit int) ([]Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.persons) {
		return nil, nil
	}
	end := min(offset+limit, len(m.persons))
	return append([]Person(nil), m.persons[offset:end]...), nil
}

func (m *memStore) ExistsByKey(_ context.Context, key BusinessKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.persons {
		if p.FirstName == key.FirstName && p.LastName == key.LastName && p.Address == key.Address {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Save(_ context.Context, pm PersonCreateModel) (Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failSave != nil {
		return Person{}, m.failSave
	}
	p := Person{ID: m.nextID, FirstName: pm.FirstName, LastName: pm.LastName, Address: pm.Address, Color: pm.Color}
	m.nextID++
	m.persons = append(m.persons, p)
	return p, nil
}
