// Package durations owns the configured interval lengths: loading them from
// persistence, validating edits and telling the timer about changes.
package durations

import (
	"fmt"
	"sync"

	"focustimer/internal/core/model"
	"focustimer/internal/logging"
)

var logger = logging.For("durations")

// Persister reads and writes the three durations. storage.Adapter satisfies it.
type Persister interface {
	LoadDurations() model.Durations
	SaveDurations(model.Durations)
}

// Listener receives the new durations after a successful Save.
type Listener func(model.Durations)

// Store holds the current durations in memory in front of a Persister.
type Store struct {
	persister Persister

	mu        sync.RWMutex
	current   model.Durations
	listeners []Listener
}

// New creates a store seeded with the defaults. Call Load to read persisted values.
func New(persister Persister) *Store {
	return &Store{persister: persister, current: model.DefaultDurations()}
}

// Load reads the persisted durations, replacing the in-memory copy.
// Listeners are not notified.
func (store *Store) Load() model.Durations {
	loaded := model.DefaultDurations()
	if store.persister != nil {
		loaded = store.persister.LoadDurations()
	}
	store.mu.Lock()
	store.current = loaded
	store.mu.Unlock()
	return loaded
}

// Current returns the in-memory durations.
func (store *Store) Current() model.Durations {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.current
}

// OnChange registers listener for successful saves.
func (store *Store) OnChange(listener Listener) {
	if listener == nil {
		return
	}
	store.mu.Lock()
	store.listeners = append(store.listeners, listener)
	store.mu.Unlock()
}

// Save validates all three values and, only if every one is in range,
// persists them and notifies listeners. On failure nothing is written and
// the returned *model.ValidationError names every invalid field.
func (store *Store) Save(next model.Durations) error {
	return store.SaveWithin(next, model.CoreBounds())
}

// SaveWithin is Save with caller-supplied bounds. Bounds narrower than the
// core range are honored; wider ones are still capped by the core range.
func (store *Store) SaveWithin(next model.Durations, bounds model.Bounds) error {
	if err := next.ValidateWithin(bounds); err != nil {
		return fmt.Errorf("save durations: %w", err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("save durations: %w", err)
	}

	store.mu.Lock()
	previous := store.current
	if store.persister != nil {
		store.persister.SaveDurations(next)
	}
	store.current = next
	listeners := append([]Listener(nil), store.listeners...)
	store.mu.Unlock()

	logger.Debugf("durations saved: work=%ds short=%ds long=%ds (changed %v)",
		next.Work, next.ShortBreak, next.LongBreak, previous.Changed(next))
	for _, listener := range listeners {
		listener(next)
	}
	return nil
}

// Set changes one mode's duration and saves the result.
func (store *Store) Set(mode model.Mode, seconds int) error {
	if !mode.Valid() {
		return fmt.Errorf("set duration: unknown mode %q", mode)
	}
	return store.Save(store.Current().With(mode, seconds))
}
