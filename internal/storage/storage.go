package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/logging"
	boltstore "focustimer/internal/storage/bbolt"
	sqlitestore "focustimer/internal/storage/sqlite"
)

var logger = logging.For("storage")

// Persisted keys. Values are decimal strings unless noted.
const (
	KeyWorkDuration       = "pomodoroWorkDuration"
	KeyShortBreakDuration = "pomodoroShortBreakDuration"
	KeyLongBreakDuration  = "pomodoroLongBreakDuration"
	KeyCompletedCycles    = "pomodoroCount"
	// KeyTasks holds the task list as a JSON array.
	KeyTasks = "pomodoroTasks"
	// KeyPalette holds the colour palette name.
	KeyPalette = "pomodoroTheme"
)

// Backend names accepted by OpenBackend.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendBolt   = "bbolt"
	BackendMemory = "memory"
)

var (
	// ErrUnknownBackend is returned by OpenBackend for unsupported names.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrNotListable is returned by Adapter.Entries for backends without Keys.
	ErrNotListable = errors.New("storage backend cannot list keys")
)

// Backend is a durable string key-value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// KeyLister is implemented by backends that can enumerate their keys.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// OpenBackend opens the named backend with its files under dir.
func OpenBackend(kind, dir string) (Backend, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == BackendMemory {
		return NewMemory(), nil
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("open %s backend: data dir is required", kind)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var (
		backend Backend
		err     error
	)
	switch kind {
	case "", BackendYAML:
		var file *YAMLFile
		file, err = NewYAMLFile(filepath.Join(dir, settingsFileName))
		backend = file
	case BackendSQLite:
		var db *sqlitestore.Store
		db, err = sqlitestore.Open(filepath.Join(dir, "focustimer.db"))
		backend = db
	case BackendBolt:
		var db *boltstore.Store
		db, err = boltstore.Open(filepath.Join(dir, "focustimer.bolt"))
		backend = db
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", kind, err)
	}
	return backend, nil
}

const defaultTimeout = 5 * time.Second

// Adapter gives the core an infallible view of a Backend: reads return a
// value or "absent", writes never fail. Backend errors are logged here.
type Adapter struct {
	backend Backend
	timeout time.Duration
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend, timeout: defaultTimeout}
}

// Backend returns the wrapped backend.
func (adapter *Adapter) Backend() Backend {
	return adapter.backend
}

// Close closes the wrapped backend.
func (adapter *Adapter) Close() error {
	if adapter == nil || adapter.backend == nil {
		return nil
	}
	return adapter.backend.Close()
}

// GetString returns the stored value for key.
func (adapter *Adapter) GetString(key string) (string, bool) {
	if adapter == nil || adapter.backend == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), adapter.timeout)
	defer cancel()

	value, ok, err := adapter.backend.Get(ctx, key)
	if err != nil {
		logger.Errorf("get %s: %v", key, err)
		return "", false
	}
	return value, ok
}

// SetString stores value under key.
func (adapter *Adapter) SetString(key, value string) {
	if adapter == nil || adapter.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), adapter.timeout)
	defer cancel()

	if err := adapter.backend.Set(ctx, key, value); err != nil {
		logger.Errorf("set %s: %v", key, err)
	}
}

// Remove deletes key.
func (adapter *Adapter) Remove(key string) {
	if adapter == nil || adapter.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), adapter.timeout)
	defer cancel()

	if err := adapter.backend.Delete(ctx, key); err != nil {
		logger.Errorf("delete %s: %v", key, err)
	}
}

// Entry is one stored key and its value.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entries returns every stored value ordered by key. Unlike the other
// adapter methods it reports backend errors.
func (adapter *Adapter) Entries(ctx context.Context) ([]Entry, error) {
	if adapter == nil || adapter.backend == nil {
		return nil, nil
	}
	lister, ok := adapter.backend.(KeyLister)
	if !ok {
		return nil, ErrNotListable
	}
	ctx, cancel := context.WithTimeout(ctx, adapter.timeout)
	defer cancel()

	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value, found, err := adapter.backend.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if found {
			entries = append(entries, Entry{Key: key, Value: value})
		}
	}
	return entries, nil
}

// LoadDurations reads the three durations. Each field that is absent,
// unparsable or out of range falls back to its default on its own.
func (adapter *Adapter) LoadDurations() model.Durations {
	defaults := model.DefaultDurations()
	return model.Durations{
		Work:       adapter.loadSeconds(KeyWorkDuration, defaults.Work),
		ShortBreak: adapter.loadSeconds(KeyShortBreakDuration, defaults.ShortBreak),
		LongBreak:  adapter.loadSeconds(KeyLongBreakDuration, defaults.LongBreak),
	}
}

// SaveDurations writes the three durations.
func (adapter *Adapter) SaveDurations(durations model.Durations) {
	adapter.SetString(KeyWorkDuration, strconv.Itoa(durations.Work))
	adapter.SetString(KeyShortBreakDuration, strconv.Itoa(durations.ShortBreak))
	adapter.SetString(KeyLongBreakDuration, strconv.Itoa(durations.LongBreak))
}

// LoadCompletedCycles reads the completed work cycle count, 0 when missing.
func (adapter *Adapter) LoadCompletedCycles() int {
	raw, ok := adapter.GetString(KeyCompletedCycles)
	if !ok {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		logger.Warnf("ignoring malformed %s value %q", KeyCompletedCycles, raw)
		return 0
	}
	return count
}

// SaveCompletedCycles writes the completed work cycle count.
func (adapter *Adapter) SaveCompletedCycles(count int) {
	if count < 0 {
		count = 0
	}
	adapter.SetString(KeyCompletedCycles, strconv.Itoa(count))
}

// LoadPalette returns the stored palette name, empty when unset.
func (adapter *Adapter) LoadPalette() string {
	name, _ := adapter.GetString(KeyPalette)
	return strings.TrimSpace(name)
}

// SavePalette writes the palette name.
func (adapter *Adapter) SavePalette(name string) {
	adapter.SetString(KeyPalette, name)
}

func (adapter *Adapter) loadSeconds(key string, fallback int) int {
	raw, ok := adapter.GetString(key)
	if !ok {
		return fallback
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger.Warnf("ignoring malformed %s value %q", key, raw)
		return fallback
	}
	if seconds < model.MinDurationSeconds || seconds > model.MaxDurationSeconds {
		logger.Warnf("ignoring out of range %s value %d", key, seconds)
		return fallback
	}
	return seconds
}
