package timekeeper

import (
	"sync"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/logging"
)

var logger = logging.For("timer")

// Notifier is told when an interval runs out. Errors are logged and never
// affect the state transition.
type Notifier interface {
	NotifyIntervalComplete(completed, next model.Mode) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(completed, next model.Mode) error

func (fn NotifierFunc) NotifyIntervalComplete(completed, next model.Mode) error {
	return fn(completed, next)
}

// CycleCounter persists the completed work cycle count.
type CycleCounter interface {
	SaveCompletedCycles(count int)
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Scheduler    Scheduler
	Notifier     Notifier
	Counter      CycleCounter
	Now          func() time.Time
}

// TimeKeeper is the pomodoro state machine. All operations are serialized by
// a single mutex and run to completion.
type TimeKeeper struct {
	mu         sync.Mutex
	durations  model.Durations
	options    Config
	mode       model.Mode
	remaining  int
	total      int
	running    bool
	completed  int
	generation uint64
	handle     Handle
	events     []chan Event
	closed     bool
}

// New creates an idle TimeKeeper in work mode.
func New(durations model.Durations, completedCycles int, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Scheduler == nil {
		options.Scheduler = TickerScheduler{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if completedCycles < 0 {
		completedCycles = 0
	}

	keeper := &TimeKeeper{
		durations: durations,
		options:   options,
		mode:      model.ModeWork,
		completed: completedCycles,
	}
	keeper.resetRemainingLocked()
	return keeper
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// Close cancels any pending tick and closes observers.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.stopLocked()
	keeper.closed = true
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns a copy of the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Durations returns the durations the timer currently uses.
func (keeper *TimeKeeper) Durations() model.Durations {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.durations
}

// ToggleRun starts or pauses the countdown. Resuming at zero restarts the
// current mode from its full duration.
func (keeper *TimeKeeper) ToggleRun() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.closed {
		return
	}
	if keeper.running {
		keeper.stopLocked()
		logger.Debugf("paused in %s at %s", keeper.mode, model.FormatClock(keeper.remaining))
	} else {
		if keeper.remaining <= 0 {
			keeper.resetRemainingLocked()
		}
		keeper.startLocked()
		logger.Debugf("started in %s at %s", keeper.mode, model.FormatClock(keeper.remaining))
	}
	keeper.emitLocked(EventStateChange, "")
}

// Pause stops a running countdown and reports whether it was running.
func (keeper *TimeKeeper) Pause(reason string) bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if !keeper.running {
		return false
	}
	keeper.stopLocked()
	logger.Infof("paused in %s at %s: %s", keeper.mode, model.FormatClock(keeper.remaining), reason)
	keeper.emitLocked(EventStateChange, reason)
	return true
}

// ResetCurrent stops the timer and restores the full duration of the current
// mode.
func (keeper *TimeKeeper) ResetCurrent() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.closed {
		return
	}
	keeper.stopLocked()
	keeper.resetRemainingLocked()
	keeper.emitLocked(EventStateChange, "")
}

// SwitchMode stops the timer and enters target fresh. Switching to the mode
// the idle timer is already in does nothing.
func (keeper *TimeKeeper) SwitchMode(target model.Mode) {
	if !target.Valid() {
		logger.Warnf("ignoring switch to unknown mode %q", target)
		return
	}

	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.closed || (target == keeper.mode && !keeper.running) {
		return
	}
	keeper.stopLocked()
	keeper.mode = target
	keeper.resetRemainingLocked()
	keeper.emitLocked(EventStateChange, "")
}

// ResetCompletedCycles zeroes the completed work cycle count.
func (keeper *TimeKeeper) ResetCompletedCycles() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.closed {
		return
	}
	keeper.completed = 0
	keeper.saveCountLocked()
	keeper.emitLocked(EventCyclesReset, "")
}

// OnDurationsChanged installs new durations. An idle timer sitting in a mode
// whose duration changed picks up the new value at once; a running interval
// keeps its length and the change applies the next time the mode is entered.
func (keeper *TimeKeeper) OnDurationsChanged(durations model.Durations) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.closed {
		return
	}
	previous := keeper.durations
	keeper.durations = durations
	if !keeper.running && previous.For(keeper.mode) != durations.For(keeper.mode) {
		keeper.resetRemainingLocked()
	}
	keeper.emitLocked(EventDurationsChanged, "")
}

// Tick advances the countdown by one second. It does nothing while the timer
// is not running.
func (keeper *TimeKeeper) Tick() {
	keeper.advance(0, false)
}

func (keeper *TimeKeeper) scheduledTick(generation uint64) {
	keeper.advance(generation, true)
}

type completion struct {
	completed model.Mode
	next      model.Mode
}

func (keeper *TimeKeeper) advance(generation uint64, scheduled bool) {
	keeper.mu.Lock()
	if !keeper.running || (scheduled && generation != keeper.generation) {
		keeper.mu.Unlock()
		return
	}

	if keeper.remaining > 1 {
		keeper.remaining--
		keeper.emitLocked(EventProgress, "")
		keeper.mu.Unlock()
		return
	}

	keeper.remaining = 0
	done := keeper.completeLocked()
	keeper.mu.Unlock()

	keeper.notify(done)
}

func (keeper *TimeKeeper) completeLocked() completion {
	keeper.stopLocked()

	done := completion{completed: keeper.mode}
	if keeper.mode == model.ModeWork {
		keeper.completed++
		keeper.saveCountLocked()
	}
	done.next = NextMode(keeper.mode, keeper.completed, LongBreakInterval)

	keeper.mode = done.next
	keeper.resetRemainingLocked()
	logger.Infof("%s interval complete, next %s (%d completed)", done.completed, done.next, keeper.completed)

	event := keeper.newEventLocked(EventIntervalComplete, "")
	event.Completed = done.completed
	keeper.sendLocked(event)
	return done
}

func (keeper *TimeKeeper) notify(done completion) {
	if keeper.options.Notifier == nil {
		return
	}
	if err := keeper.options.Notifier.NotifyIntervalComplete(done.completed, done.next); err != nil {
		logger.Errorf("interval notification failed: %v", err)
		keeper.emit(EventNotifyError, err.Error())
	}
}

func (keeper *TimeKeeper) startLocked() {
	keeper.running = true
	keeper.generation++
	generation := keeper.generation
	keeper.handle = keeper.options.Scheduler.Start(func() {
		keeper.scheduledTick(generation)
	}, keeper.options.TickInterval)
}

func (keeper *TimeKeeper) stopLocked() {
	keeper.running = false
	keeper.generation++
	if keeper.handle != nil {
		keeper.handle.Cancel()
		keeper.handle = nil
	}
}

func (keeper *TimeKeeper) resetRemainingLocked() {
	keeper.total = keeper.durations.For(keeper.mode)
	if keeper.total < 0 {
		keeper.total = 0
	}
	keeper.remaining = keeper.total
}

func (keeper *TimeKeeper) saveCountLocked() {
	if keeper.options.Counter != nil {
		keeper.options.Counter.SaveCompletedCycles(keeper.completed)
	}
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	remaining := keeper.remaining
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		Mode:                keeper.mode,
		RemainingSeconds:    remaining,
		Running:             keeper.running,
		CompletedWorkCycles: keeper.completed,
		TotalSeconds:        keeper.total,
	}
}

func (keeper *TimeKeeper) newEventLocked(eventType EventType, message string) Event {
	return Event{
		Type:     eventType,
		Snapshot: keeper.snapshotLocked(),
		Message:  message,
		At:       keeper.options.Now(),
	}
}

func (keeper *TimeKeeper) emit(eventType EventType, message string) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(eventType, message)
}

func (keeper *TimeKeeper) emitLocked(eventType EventType, message string) {
	keeper.sendLocked(keeper.newEventLocked(eventType, message))
}

func (keeper *TimeKeeper) sendLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
