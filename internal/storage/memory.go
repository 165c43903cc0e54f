package storage

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Backend. Nothing survives the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (memory *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	memory.mu.RLock()
	defer memory.mu.RUnlock()
	value, ok := memory.values[key]
	return value, ok, nil
}

func (memory *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.values[key] = value
	return nil
}

func (memory *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	memory.mu.Lock()
	defer memory.mu.Unlock()
	delete(memory.values, key)
	return nil
}

// Keys lists the stored keys in order.
func (memory *Memory) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	memory.mu.RLock()
	defer memory.mu.RUnlock()
	keys := make([]string, 0, len(memory.values))
	for key := range memory.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (memory *Memory) Close() error {
	return nil
}
