package timekeeper

import (
	"sync"
	"time"
)

// Handle cancels a periodic callback started by a Scheduler.
type Handle interface {
	Cancel()
}

// Scheduler invokes callback once per period until the returned handle is
// cancelled.
type Scheduler interface {
	Start(callback func(), period time.Duration) Handle
}

// TickerScheduler drives callbacks from a time.Ticker goroutine.
type TickerScheduler struct{}

// Start launches the ticking loop.
func (TickerScheduler) Start(callback func(), period time.Duration) Handle {
	if period <= 0 {
		period = time.Second
	}
	handle := &tickerHandle{stopCh: make(chan struct{})}
	go handle.run(callback, period)
	return handle
}

type tickerHandle struct {
	stopCh chan struct{}
	once   sync.Once
}

func (handle *tickerHandle) run(callback func(), period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			select {
			case <-handle.stopCh:
				return
			default:
			}
			callback()
		}
	}
}

func (handle *tickerHandle) Cancel() {
	handle.once.Do(func() {
		close(handle.stopCh)
	})
}

// ManualScheduler fires callbacks only when Fire is called. It lets tests and
// replay tools drive the clock deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	entries []*manualHandle
}

type manualHandle struct {
	scheduler *ManualScheduler
	callback  func()
	period    time.Duration
	cancelled bool
}

// Start registers callback.
func (scheduler *ManualScheduler) Start(callback func(), period time.Duration) Handle {
	handle := &manualHandle{scheduler: scheduler, callback: callback, period: period}
	scheduler.mu.Lock()
	scheduler.entries = append(scheduler.entries, handle)
	scheduler.mu.Unlock()
	return handle
}

func (handle *manualHandle) Cancel() {
	handle.scheduler.mu.Lock()
	handle.cancelled = true
	handle.scheduler.mu.Unlock()
}

// Fire invokes every live callback once, as if one period elapsed.
func (scheduler *ManualScheduler) Fire() {
	for _, handle := range scheduler.live() {
		handle.callback()
	}
}

// FireStale invokes the callbacks of cancelled handles, simulating a tick that
// was already in flight when the timer was stopped.
func (scheduler *ManualScheduler) FireStale() {
	scheduler.mu.Lock()
	var stale []*manualHandle
	for _, handle := range scheduler.entries {
		if handle.cancelled {
			stale = append(stale, handle)
		}
	}
	scheduler.mu.Unlock()
	for _, handle := range stale {
		handle.callback()
	}
}

// Active returns the number of uncancelled callbacks.
func (scheduler *ManualScheduler) Active() int {
	return len(scheduler.live())
}

func (scheduler *ManualScheduler) live() []*manualHandle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	live := make([]*manualHandle, 0, len(scheduler.entries))
	for _, handle := range scheduler.entries {
		if !handle.cancelled {
			live = append(live, handle)
		}
	}
	return live
}
