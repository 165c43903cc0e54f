package timekeeper

import (
	"time"

	"focustimer/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange      EventType = "state_change"
	EventProgress         EventType = "progress"
	EventIntervalComplete EventType = "interval_complete"
	EventDurationsChanged EventType = "durations_changed"
	EventCyclesReset      EventType = "cycles_reset"
	EventNotifyError      EventType = "notify_error"
)

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	Mode                model.Mode
	RemainingSeconds    int
	Running             bool
	CompletedWorkCycles int
	// TotalSeconds is the length of the interval being counted down.
	TotalSeconds int
}

// Clock renders the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return model.FormatClock(snapshot.RemainingSeconds)
}

// Fresh reports whether the interval has not started counting yet.
func (snapshot Snapshot) Fresh() bool {
	return !snapshot.Running && snapshot.RemainingSeconds == snapshot.TotalSeconds
}

// Progress returns the elapsed fraction of the current interval in [0, 1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.TotalSeconds <= 0 {
		return 0
	}
	progress := float64(snapshot.TotalSeconds-snapshot.RemainingSeconds) / float64(snapshot.TotalSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Completed is set on EventIntervalComplete to the mode that just ended.
	Completed model.Mode
	Message   string
	At        time.Time
}
