package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alexanderramin/planboard/internal/repository"
)

// DefaultCallTimeout bounds a single remote store call.
const DefaultCallTimeout = 10 * time.Second

// Syncer issues remote store calls without blocking the caller. Calls are
// never retried and local state is never rolled back on failure.
type Syncer struct {
	store     repository.RemoteStore
	indicator *Indicator
	logger    *slog.Logger
	timeout   time.Duration

	wg       sync.WaitGroup
	mu       sync.Mutex
	failures []Failure
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithLogger sets the logger used for call outcomes.
func WithLogger(l *slog.Logger) SyncerOption {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCallTimeout bounds each remote call. Zero or negative disables the bound.
func WithCallTimeout(d time.Duration) SyncerOption {
	return func(s *Syncer) { s.timeout = d }
}

// NewSyncer wires a store to an indicator.
func NewSyncer(store repository.RemoteStore, indicator *Indicator, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:     store,
		indicator: indicator,
		logger:    slog.Default(),
		timeout:   DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Indicator returns the status badge driven by this syncer.
func (s *Syncer) Indicator() *Indicator { return s.indicator }

// Submit issues m in the background and returns its correlation id. The
// indicator switches to saving before Submit returns.
func (s *Syncer) Submit(m Mutation) string {
	id := ulid.Make().String()
	s.indicator.Begin()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(id, m)
	}()
	return id
}

func (s *Syncer) run(id string, m Mutation) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := m.apply(ctx, s.store)
	attrs := []any{
		"correlation_id", id,
		"op", m.Kind(),
		"item_id", m.ItemID(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.mu.Lock()
		s.failures = append(s.failures, Failure{CorrelationID: id, Mutation: m, Err: err})
		s.mu.Unlock()
		s.indicator.Fail()
		s.logger.Warn("remote store call failed", append(attrs, "error", err.Error())...)
		return
	}
	s.indicator.Succeed()
	s.logger.Debug("remote store call", attrs...)
}

// Wait blocks until every submitted call has finished.
func (s *Syncer) Wait() { s.wg.Wait() }

// Failures returns the failed mutations since the last ClearFailures.
func (s *Syncer) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Failure(nil), s.failures...)
}

// ClearFailures forgets recorded failures, typically after a reload.
func (s *Syncer) ClearFailures() {
	s.mu.Lock()
	s.failures = nil
	s.mu.Unlock()
}
