package timekeeper

import "focustimer/internal/core/model"

// LongBreakInterval is the number of completed work intervals after which a
// long break replaces the short one.
const LongBreakInterval = 4

// NextMode decides which mode follows a completed interval. For Work the
// count must already include the interval that just finished.
func NextMode(current model.Mode, completedWorkCycles, longBreakInterval int) model.Mode {
	if current != model.ModeWork {
		return model.ModeWork
	}
	if longBreakInterval <= 0 {
		longBreakInterval = LongBreakInterval
	}
	if completedWorkCycles > 0 && completedWorkCycles%longBreakInterval == 0 {
		return model.ModeLongBreak
	}
	return model.ModeShortBreak
}
