// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage) that domain systems require.
package infrastructure

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/pkg/database"
	"github.com/JaimeStill/promptdj/pkg/lifecycle"
	"github.com/JaimeStill/promptdj/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless the storage backend is postgres.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure that logs to stderr.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogOutput(cfg, os.Stderr)
}

// NewWithLogOutput creates an Infrastructure whose logger writes to w.
func NewWithLogOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Log, w)

	var (
		db   database.System
		conn *sql.DB
	)
	if cfg.UsesDatabase() {
		var err error
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		conn = db.Connection()
	}

	store, err := storage.New(&cfg.Storage, conn, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// NewLogger builds the text logger for cfg. Debug level adds source locations.
func NewLogger(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: cfg.Debug(),
	}))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
