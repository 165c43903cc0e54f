package model

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which duration governs the countdown.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeWork, ModeShortBreak, ModeLongBreak}

// Valid reports whether mode is one of the known modes.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeWork, ModeShortBreak, ModeLongBreak:
		return true
	default:
		return false
	}
}

// IsBreak reports whether mode is a short or long break.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// ParseMode accepts the canonical names plus a few short aliases.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "work", "pomodoro", "focus":
		return ModeWork, nil
	case "short_break", "short-break", "shortbreak", "short":
		return ModeShortBreak, nil
	case "long_break", "long-break", "longbreak", "long":
		return ModeLongBreak, nil
	default:
		return "", fmt.Errorf("unknown mode %q", value)
	}
}

const (
	DefaultWorkSeconds       = 25 * 60
	DefaultShortBreakSeconds = 5 * 60
	DefaultLongBreakSeconds  = 15 * 60

	// MinDurationSeconds and MaxDurationSeconds bound every mode.
	MinDurationSeconds = 60
	MaxDurationSeconds = 120 * 60
)

// Durations maps each mode to its interval length in seconds.
type Durations struct {
	Work       int
	ShortBreak int
	LongBreak  int
}

// DefaultDurations returns the built-in 25/5/15 minute schedule.
func DefaultDurations() Durations {
	return Durations{
		Work:       DefaultWorkSeconds,
		ShortBreak: DefaultShortBreakSeconds,
		LongBreak:  DefaultLongBreakSeconds,
	}
}

// For returns the configured seconds for mode. Unknown modes fall back to Work.
func (durations Durations) For(mode Mode) int {
	switch mode {
	case ModeShortBreak:
		return durations.ShortBreak
	case ModeLongBreak:
		return durations.LongBreak
	default:
		return durations.Work
	}
}

// With returns a copy with mode set to seconds.
func (durations Durations) With(mode Mode, seconds int) Durations {
	switch mode {
	case ModeShortBreak:
		durations.ShortBreak = seconds
	case ModeLongBreak:
		durations.LongBreak = seconds
	default:
		durations.Work = seconds
	}
	return durations
}

// Changed lists the modes whose duration differs between durations and other.
func (durations Durations) Changed(other Durations) []Mode {
	var changed []Mode
	for _, mode := range Modes {
		if durations.For(mode) != other.For(mode) {
			changed = append(changed, mode)
		}
	}
	return changed
}

// ErrInvalidDuration is the kind of every duration validation failure.
var ErrInvalidDuration = errors.New("invalid duration")

// FieldError describes one out-of-range duration.
type FieldError struct {
	Mode    Mode
	Seconds int
	Min     int
	Max     int
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %ds is outside %d..%d seconds", e.Mode, e.Seconds, e.Min, e.Max)
}

// ValidationError lists every invalid field of a Durations value.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidDuration.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDuration.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDuration }

// Has reports whether mode is among the invalid fields.
func (e *ValidationError) Has(mode Mode) bool {
	if e == nil {
		return false
	}
	for _, field := range e.Fields {
		if field.Mode == mode {
			return true
		}
	}
	return false
}

// Bounds holds an inclusive seconds range per mode.
type Bounds struct {
	Min Durations
	Max Durations
}

// CoreBounds applies [MinDurationSeconds, MaxDurationSeconds] to every mode.
func CoreBounds() Bounds {
	return Bounds{
		Min: Durations{Work: MinDurationSeconds, ShortBreak: MinDurationSeconds, LongBreak: MinDurationSeconds},
		Max: Durations{Work: MaxDurationSeconds, ShortBreak: MaxDurationSeconds, LongBreak: MaxDurationSeconds},
	}
}

// Validate checks durations against the core bounds.
func (durations Durations) Validate() error {
	return durations.ValidateWithin(CoreBounds())
}

// ValidateWithin checks every field and reports all failures at once.
func (durations Durations) ValidateWithin(bounds Bounds) error {
	var failures []FieldError
	for _, mode := range Modes {
		seconds := durations.For(mode)
		minimum := bounds.Min.For(mode)
		maximum := bounds.Max.For(mode)
		if seconds < minimum || seconds > maximum {
			failures = append(failures, FieldError{Mode: mode, Seconds: seconds, Min: minimum, Max: maximum})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &ValidationError{Fields: failures}
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes grow past two
// digits rather than wrapping, so the value stays recoverable.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
