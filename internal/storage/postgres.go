package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"

	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/models"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgreSQLStorage implements Storage interface using PostgreSQL
type PostgreSQLStorage struct {
	db    *sql.DB
	table string
}

// NewPostgreSQLStorage opens cfg.PostgresURI and creates the refresh table if needed
func NewPostgreSQLStorage(cfg config.StorageConfig) (*PostgreSQLStorage, error) {
	if cfg.PostgresURI == "" {
		return nil, fmt.Errorf("POSTGRES_URI is required for postgresql storage")
	}
	if !tableNamePattern.MatchString(cfg.TableName) {
		return nil, fmt.Errorf("invalid table name: %q", cfg.TableName)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	storage := &PostgreSQLStorage{db: db, table: cfg.TableName}
	if err := storage.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure table exists: %w", err)
	}

	return storage, nil
}

func (p *PostgreSQLStorage) ensureTable() error {
	_, err := p.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          TEXT PRIMARY KEY,
			user_id     INTEGER NOT NULL,
			generation  BIGINT NOT NULL,
			articles    INTEGER NOT NULL,
			stale       BOOLEAN NOT NULL DEFAULT FALSE,
			error       TEXT NOT NULL DEFAULT '',
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`, p.table))
	return err
}

// RecordRefresh stores one refresh record
func (p *PostgreSQLStorage) RecordRefresh(ctx context.Context, record models.RefreshRecord) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, user_id, generation, articles, stale, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, p.table),
		record.ID, record.UserID, int64(record.Generation), record.Articles,
		record.Stale, record.Error, record.StartedAt, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh %s: %w", record.ID, err)
	}
	return nil
}

// RecentRefreshes returns up to limit records, newest first
func (p *PostgreSQLStorage) RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, generation, articles, stale, error, started_at, finished_at
		FROM %s
		ORDER BY started_at DESC
		LIMIT $1`, p.table), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query refreshes: %w", err)
	}
	defer rows.Close()

	var records []models.RefreshRecord
	for rows.Next() {
		var (
			rec        models.RefreshRecord
			generation int64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &generation, &rec.Articles,
			&rec.Stale, &rec.Error, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan refresh: %w", err)
		}
		rec.Generation = uint64(generation)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the database handle
func (p *PostgreSQLStorage) Close() error {
	return p.db.Close()
}
