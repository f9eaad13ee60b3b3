// Package persist pairs board mutations with remote store calls and tracks
// their outcome in a three-state sync indicator.
package persist

import (
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// DefaultSettleDelay is how long a successful save waits before the
// indicator reports synced, so bursts of edits do not flicker.
const DefaultSettleDelay = 600 * time.Millisecond

// Indicator is the synced/saving/error badge. It is safe for concurrent use.
type Indicator struct {
	mu          sync.Mutex
	status      domain.SyncStatus
	inFlight    int
	generation  uint64
	settleDelay time.Duration
	subscribers []func(domain.SyncStatus)
	afterFunc   func(time.Duration, func()) *time.Timer
}

// NewIndicator returns an indicator in the synced state.
func NewIndicator(settleDelay time.Duration) *Indicator {
	if settleDelay < 0 {
		settleDelay = 0
	}
	return &Indicator{
		status:      domain.SyncSynced,
		settleDelay: settleDelay,
		afterFunc:   time.AfterFunc,
	}
}

// Status returns the current state.
func (i *Indicator) Status() domain.SyncStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Subscribe registers fn to be called on every state change. fn runs on the
// goroutine that caused the change and must not block.
func (i *Indicator) Subscribe(fn func(domain.SyncStatus)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.subscribers = append(i.subscribers, fn)
}

// Begin marks a call as issued.
func (i *Indicator) Begin() {
	i.mu.Lock()
	i.inFlight++
	i.generation++
	changed := i.set(domain.SyncSaving)
	i.mu.Unlock()
	changed()
}

// Succeed marks a call as finished. The indicator flips to synced after the
// settle delay, provided no call started or failed in the meantime.
func (i *Indicator) Succeed() {
	i.mu.Lock()
	i.inFlight--
	if i.inFlight > 0 || i.status == domain.SyncError {
		i.mu.Unlock()
		return
	}
	gen := i.generation
	delay := i.settleDelay
	i.mu.Unlock()

	settle := func() {
		i.mu.Lock()
		if i.generation != gen || i.inFlight > 0 || i.status == domain.SyncError {
			i.mu.Unlock()
			return
		}
		changed := i.set(domain.SyncSynced)
		i.mu.Unlock()
		changed()
	}
	if delay == 0 {
		settle()
		return
	}
	i.afterFunc(delay, settle)
}

// Fail marks a call as failed. The error state sticks until the next call
// begins.
func (i *Indicator) Fail() {
	i.mu.Lock()
	i.inFlight--
	i.generation++
	changed := i.set(domain.SyncError)
	i.mu.Unlock()
	changed()
}

// set updates the status and returns a func that notifies subscribers; it
// must be called after the lock is released.
func (i *Indicator) set(s domain.SyncStatus) func() {
	if i.status == s {
		return func() {}
	}
	i.status = s
	subs := make([]func(domain.SyncStatus), len(i.subscribers))
	copy(subs, i.subscribers)
	return func() {
		for _, fn := range subs {
			fn(s)
		}
	}
}
