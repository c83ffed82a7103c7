package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/JaimeStill/promptdj/pkg/lifecycle"
)

type postgres struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// NewPostgres creates a store backed by a key/value table. The table is created
// by cmd/migrate.
func NewPostgres(db *sql.DB, table string, logger *slog.Logger) System {
	return &postgres{
		db:     db,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logger.With("system", "storage", "backend", BackendPostgres),
	}
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting storage system", "table", p.table)
	return nil
}

func (p *postgres) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", p.table)

	var value []byte
	if err := p.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (p *postgres) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, p.table)

	if _, err := p.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *postgres) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE key = $1", p.table)

	result, err := p.db.ExecContext(ctx, q, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
