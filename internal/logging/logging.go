// Package logging writes levelled lines through the standard logger. Lines
// from a component logger carry its name after the level tag.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// Level represents logging severity. Lower is more severe.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var (
	levelNames = [...]string{"error", "warn", "info", "debug", "trace"}
	levelTags  = [...]string{"ERR", "WARN", "INFO", "DBG", "TRC"}
)

var current atomic.Int32

func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	current.Store(int32(LevelWarn))
}

// SetOutput redirects log output, e.g. to a file or io.Discard in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetLevel applies a level name such as "info" or "debug".
func SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	current.Store(int32(level))
	return nil
}

// SetVerbosity maps a count of -v flags to a level: none is warn, then
// info, debug and trace.
func SetVerbosity(count int) {
	count = max(0, min(count, int(LevelTrace-LevelWarn)))
	current.Store(int32(LevelWarn) + int32(count))
}

// Verbosity is the -v count that selects the current level. Error and warn
// both read as zero.
func Verbosity() int {
	return max(0, int(currentLevel()-LevelWarn))
}

// LevelName returns the current level label.
func LevelName() string {
	return LevelToString(currentLevel())
}

// LevelToString converts a Level to its name.
func LevelToString(l Level) string {
	if l < LevelError || l > LevelTrace {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel reads a level name. "warning" is accepted for warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	for i, known := range levelNames {
		if name == known {
			return Level(i), nil
		}
	}
	return LevelWarn, fmt.Errorf("unknown level %q", s)
}

func currentLevel() Level {
	return Level(current.Load())
}

// Logger tags every line with a component name.
type Logger struct {
	component string
}

// For returns the logger for component, e.g. For("timer").
func For(component string) Logger {
	return Logger{component: component}
}

func (logger Logger) Errorf(format string, args ...any) { logger.logf(LevelError, format, args...) }
func (logger Logger) Warnf(format string, args ...any)  { logger.logf(LevelWarn, format, args...) }
func (logger Logger) Infof(format string, args ...any)  { logger.logf(LevelInfo, format, args...) }
func (logger Logger) Debugf(format string, args ...any) { logger.logf(LevelDebug, format, args...) }
func (logger Logger) Tracef(format string, args ...any) { logger.logf(LevelTrace, format, args...) }

func (logger Logger) logf(level Level, format string, args ...any) {
	if level > currentLevel() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if logger.component != "" {
		msg = logger.component + ": " + msg
	}
	log.Printf("[%s] %s", levelTags[level], msg)
}

var untagged Logger

// Errorf always prints.
func Errorf(format string, args ...any) {
	untagged.logf(LevelError, format, args...)
}

func Warnf(format string, args ...any) {
	untagged.logf(LevelWarn, format, args...)
}

func Infof(format string, args ...any) {
	untagged.logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...any) {
	untagged.logf(LevelDebug, format, args...)
}

func Tracef(format string, args ...any) {
	untagged.logf(LevelTrace, format, args...)
}
