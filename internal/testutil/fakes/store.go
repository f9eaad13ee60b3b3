// Package fakes holds in-memory collaborators for service-level tests.
package fakes

import (
	"context"
	"sync"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

// StoreCall records one RemoteStore invocation.
type StoreCall struct {
	Method string
	ID     string
	LaneID string
	Rank   float64
	Tactic domain.Tactic
	Fields repository.TacticFields
}

// RecordingStore is an in-memory RemoteStore that records every call. Set
// Err to make every mutating call fail, or Block to hold calls until released.
type RecordingStore struct {
	mu      sync.Mutex
	items   map[string]domain.Tactic
	calls   []StoreCall
	Err     error
	Block   chan struct{}
	Entered chan struct{}
}

var _ repository.RemoteStore = (*RecordingStore)(nil)

func NewRecordingStore(seed ...domain.Tactic) *RecordingStore {
	s := &RecordingStore{items: make(map[string]domain.Tactic)}
	for _, t := range seed {
		s.items[t.ID] = t
	}
	return s
}

// Calls returns a copy of the recorded mutating calls.
func (s *RecordingStore) Calls() []StoreCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StoreCall(nil), s.calls...)
}

// CallsTo returns recorded calls for one method.
func (s *RecordingStore) CallsTo(method string) []StoreCall {
	var out []StoreCall
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Item returns the stored copy of a tactic.
func (s *RecordingStore) Item(id string) (domain.Tactic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	return t, ok
}

func (s *RecordingStore) ListItems(context.Context) ([]domain.Tactic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Tactic, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t)
	}
	return out, nil
}

func (s *RecordingStore) InsertItem(_ context.Context, t domain.Tactic) error {
	return s.record(StoreCall{Method: "InsertItem", ID: t.ID, Tactic: t}, func() {
		s.items[t.ID] = t
	})
}

func (s *RecordingStore) UpdateItem(_ context.Context, id string, fields repository.TacticFields) error {
	return s.record(StoreCall{Method: "UpdateItem", ID: id, Fields: fields}, func() {
		t := s.items[id]
		t.Title, t.Budget, t.Content = fields.Title, fields.Budget, fields.Content
		s.items[id] = t
	})
}

func (s *RecordingStore) DeleteItem(_ context.Context, id string) error {
	return s.record(StoreCall{Method: "DeleteItem", ID: id}, func() {
		delete(s.items, id)
	})
}

func (s *RecordingStore) MoveItem(_ context.Context, id, laneID string, rank float64) error {
	return s.record(StoreCall{Method: "MoveItem", ID: id, LaneID: laneID, Rank: rank}, func() {
		t := s.items[id]
		t.LaneID, t.Rank = laneID, rank
		s.items[id] = t
	})
}

func (s *RecordingStore) record(call StoreCall, apply func()) error {
	if s.Entered != nil {
		s.Entered <- struct{}{}
	}
	if s.Block != nil {
		<-s.Block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.Err != nil {
		return s.Err
	}
	apply()
	return nil
}
