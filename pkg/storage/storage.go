// Package storage provides the key-value store behind persisted settings such as
// presets. Values are opaque bytes; callers own their encoding.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

// System stores values by key.
type System interface {
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// New creates the backend named by cfg.Backend. db is only used by the
// postgres backend and may be nil otherwise.
func New(cfg *Config, db *sql.DB, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(logger), nil
	case BackendFile:
		return NewFile(cfg.Directory, logger), nil
	case BackendAzure:
		return NewAzure(cfg, logger)
	case BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend requires a database connection")
		}
		return NewPostgres(db, cfg.Table, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
