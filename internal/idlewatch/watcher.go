// Package idlewatch pauses a running work interval once the user has been
// away from the keyboard for longer than a threshold.
package idlewatch

import (
	"errors"
	"sync"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/logging"
	"focustimer/internal/platform"
)

var logger = logging.For("idle")

const defaultPollInterval = 15 * time.Second

// Timer is the part of the timekeeper the watcher drives.
type Timer interface {
	Snapshot() timekeeper.Snapshot
	Pause(reason string) bool
}

// Config controls the watcher. A zero Threshold disables it.
type Config struct {
	Threshold    time.Duration
	PollInterval time.Duration
	Scheduler    timekeeper.Scheduler
}

// Watcher polls an IdleProvider on a schedule.
type Watcher struct {
	provider platform.IdleProvider
	timer    Timer
	config   Config

	mu     sync.Mutex
	handle timekeeper.Handle
}

// New creates a stopped watcher.
func New(provider platform.IdleProvider, timer Timer, config Config) *Watcher {
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.Scheduler == nil {
		config.Scheduler = timekeeper.TickerScheduler{}
	}
	return &Watcher{provider: provider, timer: timer, config: config}
}

// Start begins polling. It does nothing when disabled or already started.
func (watcher *Watcher) Start() {
	if watcher.config.Threshold <= 0 || watcher.provider == nil {
		return
	}
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.handle != nil {
		return
	}
	watcher.handle = watcher.config.Scheduler.Start(watcher.Check, watcher.config.PollInterval)
	logger.Debugf("watcher started: threshold %s", watcher.config.Threshold)
}

// Stop ends polling.
func (watcher *Watcher) Stop() {
	watcher.mu.Lock()
	handle := watcher.handle
	watcher.handle = nil
	watcher.mu.Unlock()
	if handle != nil {
		handle.Cancel()
	}
}

// Check polls once and pauses the timer when a running work interval has
// seen no input for at least the threshold. Breaks are never paused.
func (watcher *Watcher) Check() {
	snapshot := watcher.timer.Snapshot()
	if !snapshot.Running || snapshot.Mode != model.ModeWork {
		return
	}

	idle, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			logger.Infof("idle detection unavailable, auto-pause disabled")
			watcher.Stop()
			return
		}
		logger.Warnf("idle check: %v", err)
		return
	}
	if idle < watcher.config.Threshold {
		return
	}
	watcher.timer.Pause("no input for " + idle.Truncate(time.Second).String())
}
