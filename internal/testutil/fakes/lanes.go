package fakes

import (
	"context"
	"sync"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

// StaticLanes serves a fixed lane list.
type StaticLanes []domain.Lane

var _ repository.LaneRepo = StaticLanes(nil)

func (l StaticLanes) ListLanes(context.Context) ([]domain.Lane, error) {
	out := make([]domain.Lane, len(l))
	copy(out, l)
	return out, nil
}

// MemoryLibrary is an in-memory LibraryRepo.
type MemoryLibrary struct {
	mu    sync.Mutex
	items map[string]domain.LibraryTactic
}

var _ repository.LibraryRepo = (*MemoryLibrary)(nil)

func NewMemoryLibrary(seed ...domain.LibraryTactic) *MemoryLibrary {
	m := &MemoryLibrary{items: make(map[string]domain.LibraryTactic)}
	for _, l := range seed {
		m.items[l.ID] = l
	}
	return m
}

func (m *MemoryLibrary) List(_ context.Context, category string) ([]*domain.LibraryTactic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LibraryTactic
	for _, l := range m.items {
		if category != "" && l.Category != category {
			continue
		}
		cp := l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryLibrary) GetByID(_ context.Context, id string) (*domain.LibraryTactic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (m *MemoryLibrary) Create(_ context.Context, l *domain.LibraryTactic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[l.ID]; ok {
		return repository.ErrConflict
	}
	m.items[l.ID] = *l
	return nil
}

func (m *MemoryLibrary) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}
