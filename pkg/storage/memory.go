package storage

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

type memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	logger *slog.Logger
}

// NewMemory creates a process-local store. Values are lost on exit.
func NewMemory(logger *slog.Logger) System {
	return &memory{
		values: make(map[string][]byte),
		logger: logger.With("system", "storage", "backend", BackendMemory),
	}
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting storage system")
	return nil
}

func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *memory) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = slices.Clone(value)
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.values[key]; !ok {
		return ErrNotFound
	}
	delete(m.values, key)
	return nil
}

// Keys is used by tests to inspect a memory store.
func Keys(s System) []string {
	m, ok := s.(*memory)
	if !ok {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.values))
}
