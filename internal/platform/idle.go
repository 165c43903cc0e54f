package platform

import (
	"errors"
	"time"
)

// ErrIdleUnsupported is returned when the desktop cannot report input idle time.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// IdleFunc adapts a function to IdleProvider.
type IdleFunc func() (time.Duration, error)

func (fn IdleFunc) IdleDuration() (time.Duration, error) {
	return fn()
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
