package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

type file struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// NewFile creates a store that keeps one file per key under dir.
func NewFile(dir string, logger *slog.Logger) System {
	return &file{
		dir:    dir,
		logger: logger.With("system", "storage", "backend", BackendFile),
	}
}

func (f *file) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "directory", f.dir)

	lc.OnStartup(func(context.Context) error {
		if err := os.MkdirAll(f.dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
		f.logger.Info("storage directory ready", "directory", f.dir)
		return nil
	})

	return nil
}

func (f *file) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes through a temporary file so a crash never leaves a partial value.
func (f *file) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (f *file) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (f *file) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
