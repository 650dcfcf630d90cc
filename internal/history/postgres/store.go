// Package postgres provides the Postgres-backed search history store.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborlight/ipsearch/internal/history"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for search rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Close()
}

// Store writes search rows into Postgres. Expected schema:
//
//	CREATE TABLE searches (
//		id TEXT PRIMARY KEY,
//		kind TEXT NOT NULL,
//		query TEXT NOT NULL,
//		source_used TEXT NOT NULL,
//		record_count INT NOT NULL,
//		elapsed_ms BIGINT NOT NULL,
//		created_at TIMESTAMPTZ NOT NULL
//	);
type Store struct {
	pool  pgxPool
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("history.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "searches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(pool pgxPool, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "searches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// SaveSearch inserts one search row.
func (s *Store) SaveSearch(ctx context.Context, rec history.SearchRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("history store is not configured")
	}
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	kind,
	query,
	source_used,
	record_count,
	elapsed_ms,
	created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7
)`, s.table)

	args := []any{
		rec.ID,
		rec.Kind,
		rec.Query,
		rec.SourceUsed,
		rec.RecordCount,
		rec.ElapsedMS,
		rec.CreatedAt,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// RecentSearches returns the newest rows first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]history.SearchRecord, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("history store is not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
SELECT id, kind, query, source_used, record_count, elapsed_ms, created_at
FROM %s
ORDER BY created_at DESC
LIMIT $1`, s.table)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var out []history.SearchRecord
	for rows.Next() {
		var rec history.SearchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Kind,
			&rec.Query,
			&rec.SourceUsed,
			&rec.RecordCount,
			&rec.ElapsedMS,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return out, nil
}
