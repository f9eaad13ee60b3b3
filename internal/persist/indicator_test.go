package persist

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/domain"
)

// manualTimers captures scheduled settle callbacks so tests fire them explicitly.
type manualTimers struct {
	mu    sync.Mutex
	funcs []func()
}

func (m *manualTimers) afterFunc(_ time.Duration, fn func()) *time.Timer {
	m.mu.Lock()
	m.funcs = append(m.funcs, fn)
	m.mu.Unlock()
	return nil
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	funcs := m.funcs
	m.funcs = nil
	m.mu.Unlock()
	for _, fn := range funcs {
		fn()
	}
}

func newManualIndicator() (*Indicator, *manualTimers) {
	timers := &manualTimers{}
	ind := NewIndicator(time.Second)
	ind.afterFunc = timers.afterFunc
	return ind, timers
}

func TestIndicator_StartsSynced(t *testing.T) {
	assert.Equal(t, domain.SyncSynced, NewIndicator(0).Status())
}

func TestIndicator_SavingUntilSettleDelayElapses(t *testing.T) {
	ind, timers := newManualIndicator()

	ind.Begin()
	assert.Equal(t, domain.SyncSaving, ind.Status())

	ind.Succeed()
	assert.Equal(t, domain.SyncSaving, ind.Status(), "synced is deferred by the settle delay")

	timers.fireAll()
	assert.Equal(t, domain.SyncSynced, ind.Status())
}

func TestIndicator_NewSaveSupersedesPendingSettle(t *testing.T) {
	ind, timers := newManualIndicator()

	ind.Begin()
	ind.Succeed()
	ind.Begin()

	timers.fireAll()
	assert.Equal(t, domain.SyncSaving, ind.Status())

	ind.Succeed()
	timers.fireAll()
	assert.Equal(t, domain.SyncSynced, ind.Status())
}

func TestIndicator_FailureSticksWhileOthersSucceed(t *testing.T) {
	ind, timers := newManualIndicator()

	ind.Begin()
	ind.Begin()
	ind.Fail()
	assert.Equal(t, domain.SyncError, ind.Status())

	ind.Succeed()
	timers.fireAll()
	assert.Equal(t, domain.SyncError, ind.Status())
}

func TestIndicator_FailureCancelsPendingSettle(t *testing.T) {
	ind, timers := newManualIndicator()

	ind.Begin()
	ind.Succeed()
	ind.Begin()
	ind.Fail()

	timers.fireAll()
	assert.Equal(t, domain.SyncError, ind.Status())
}

func TestIndicator_NextSaveClearsError(t *testing.T) {
	ind := NewIndicator(0)

	ind.Begin()
	ind.Fail()
	require.Equal(t, domain.SyncError, ind.Status())

	ind.Begin()
	assert.Equal(t, domain.SyncSaving, ind.Status())
	ind.Succeed()
	assert.Equal(t, domain.SyncSynced, ind.Status())
}

func TestIndicator_SubscribersSeeEachTransition(t *testing.T) {
	ind := NewIndicator(0)
	var seen []domain.SyncStatus
	ind.Subscribe(func(s domain.SyncStatus) { seen = append(seen, s) })

	ind.Begin()
	ind.Succeed()
	ind.Begin()
	ind.Fail()

	assert.Equal(t, []domain.SyncStatus{
		domain.SyncSaving, domain.SyncSynced, domain.SyncSaving, domain.SyncError,
	}, seen)
}

func TestIndicator_RealTimerSettles(t *testing.T) {
	ind := NewIndicator(5 * time.Millisecond)
	ind.Begin()
	ind.Succeed()

	assert.Eventually(t, func() bool {
		return ind.Status() == domain.SyncSynced
	}, time.Second, time.Millisecond)
}
