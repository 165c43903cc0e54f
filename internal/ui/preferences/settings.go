package preferences

import (
	"focustimer/internal/core/model"
)

// Minutes holds the three durations in whole minutes, the unit the window
// edits.
type Minutes struct {
	Work       int
	ShortBreak int
	LongBreak  int
}

// Per-mode minute limits shown to the user. They are narrower than the core
// bounds for the breaks.
var maxMinutes = Minutes{Work: 120, ShortBreak: 30, LongBreak: 60}

const minMinutes = 1

// For returns the minutes for mode.
func (minutes Minutes) For(mode model.Mode) int {
	switch mode {
	case model.ModeShortBreak:
		return minutes.ShortBreak
	case model.ModeLongBreak:
		return minutes.LongBreak
	default:
		return minutes.Work
	}
}

// Durations converts to seconds.
func (minutes Minutes) Durations() model.Durations {
	return model.Durations{
		Work:       minutes.Work * 60,
		ShortBreak: minutes.ShortBreak * 60,
		LongBreak:  minutes.LongBreak * 60,
	}
}

// MinutesOf converts stored seconds for display. Partial minutes round to
// the nearest whole minute, never below one.
func MinutesOf(durations model.Durations) Minutes {
	return Minutes{
		Work:       toMinutes(durations.Work),
		ShortBreak: toMinutes(durations.ShortBreak),
		LongBreak:  toMinutes(durations.LongBreak),
	}
}

// Bounds returns the limits the window enforces, in seconds.
func Bounds() model.Bounds {
	return model.Bounds{
		Min: Minutes{Work: minMinutes, ShortBreak: minMinutes, LongBreak: minMinutes}.Durations(),
		Max: maxMinutes.Durations(),
	}
}

func toMinutes(seconds int) int {
	minutes := (seconds + 30) / 60
	if minutes < minMinutes {
		return minMinutes
	}
	return minutes
}
