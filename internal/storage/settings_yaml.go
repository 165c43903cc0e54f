package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

var errCorruptSettings = errors.New("settings file is corrupt")

// YAMLFile keeps every key in one flat YAML mapping on disk.
type YAMLFile struct {
	path string
	mu   sync.Mutex
}

// NewYAMLFile creates a store at path. Parent directories are created
// automatically; the file itself is written on first Set.
func NewYAMLFile(path string) (*YAMLFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("settings path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return &YAMLFile{path: filepath.Clean(path)}, nil
}

// DefaultSettingsPath returns <user config dir>/<appName>/settings.yaml.
func DefaultSettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Path returns the backing file path.
func (store *YAMLFile) Path() string {
	return store.path
}

// Get reads one key.
func (store *YAMLFile) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readLocked()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Keys lists the keys in the file in order.
func (store *YAMLFile) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readLocked()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Set writes one key, rewriting the file atomically.
func (store *YAMLFile) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("settings key is required")
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readForWriteLocked()
	if err != nil {
		return err
	}
	values[key] = value
	return store.writeLocked(values)
}

// Delete removes one key.
func (store *YAMLFile) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	values, err := store.readForWriteLocked()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return store.writeLocked(values)
}

// Close is a no-op; the file is not held open.
func (store *YAMLFile) Close() error {
	return nil
}

func (store *YAMLFile) readLocked() (map[string]string, error) {
	values := map[string]string{}
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(rawData, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptSettings, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// readForWriteLocked lets a write replace a file that no longer parses.
func (store *YAMLFile) readForWriteLocked() (map[string]string, error) {
	values, err := store.readLocked()
	if errors.Is(err, errCorruptSettings) {
		logger.Warnf("replacing %s: %v", store.path, err)
		return map[string]string{}, nil
	}
	return values, err
}

func (store *YAMLFile) writeLocked(values map[string]string) error {
	serialized, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
