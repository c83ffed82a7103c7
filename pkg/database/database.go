// Package database owns the Postgres pool behind the postgres preset backend.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

// pingInterval spaces connection attempts while the server comes up.
const pingInterval = 250 * time.Millisecond

// System manages the connection pool and its lifecycle hooks.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB
	// Start registers the connect and close hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens a pool for cfg without connecting. The first connection is made
// by the startup hook registered in Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

// Start pings until the server answers or the connection timeout passes.
// A timeout is reported to the coordinator wrapped in ErrNotReady.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
		defer cancel()

		attempts, err := d.waitReady(ctx)
		if err != nil {
			d.logger.Error("database unreachable", "attempts", attempts, "error", err)
			return fmt.Errorf("%w: %w", ErrNotReady, err)
		}

		d.logger.Info("database connection established", "attempts", attempts)
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) waitReady(ctx context.Context) (int, error) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for attempts := 1; ; attempts++ {
		err := d.conn.PingContext(ctx)
		if err == nil {
			return attempts, nil
		}

		select {
		case <-ctx.Done():
			return attempts, err
		case <-ticker.C:
		}
	}
}
