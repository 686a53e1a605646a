package govftp

import (
	"sync"
	"time"
)

// Scheduler is the collaborator this package uses to arm and cancel a
// single-shot timeout, mirroring MAVSDK's register_timeout_handler /
// unregister_timeout_handler pair. A production embedder backs this with
// the outer messaging runtime's own timer wheel; [NewRealTimeScheduler]
// backs it with the standard library for callers that don't have one.
type Scheduler interface {
	// Schedule arms a one-shot timer that invokes cb after d elapses and
	// returns a cookie that can later be passed to Cancel.
	Schedule(d time.Duration, cb func()) (cookie any)
	// Cancel disarms a previously scheduled timer. Canceling an already
	// fired or already canceled cookie is a no-op.
	Cancel(cookie any)
}

// realTimeScheduler backs [Scheduler] with time.AfterFunc, for embedders
// that don't already run their own timer wheel.
type realTimeScheduler struct{}

// NewRealTimeScheduler returns a [Scheduler] backed by the standard
// library's time.AfterFunc.
func NewRealTimeScheduler() Scheduler { return realTimeScheduler{} }

func (realTimeScheduler) Schedule(d time.Duration, cb func()) any {
	return time.AfterFunc(d, cb)
}

func (realTimeScheduler) Cancel(cookie any) {
	if t, ok := cookie.(*time.Timer); ok {
		t.Stop()
	}
}

// Timer is a single-shot, cancelable, restartable timeout registered
// against an external [Scheduler]. Every call to Start first cancels any
// previously registered timer for this client, then arms a fresh one —
// there is never more than one cookie outstanding (C2).
type Timer struct {
	mu        sync.Mutex
	scheduler Scheduler
	timeout   time.Duration
	cookie    any
	onFire    func()
}

// NewTimer constructs a Timer that invokes onFire, on the scheduler's own
// goroutine, each time it fires.
func NewTimer(scheduler Scheduler, timeout time.Duration, onFire func()) *Timer {
	return &Timer{scheduler: scheduler, timeout: timeout, onFire: onFire}
}

// Start cancels any previously registered timer and arms a fresh one.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cookie != nil {
		t.scheduler.Cancel(t.cookie)
	}
	t.cookie = t.scheduler.Schedule(t.timeout, t.onFire)
}

// Stop cancels the outstanding timer, if any.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cookie != nil {
		t.scheduler.Cancel(t.cookie)
		t.cookie = nil
	}
}

// SetTimeout changes the duration used by future calls to Start.
func (t *Timer) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = d
}
