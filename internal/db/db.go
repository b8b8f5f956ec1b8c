// Package db provides PostgreSQL storage for runs and their artifacts.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const runColumns = `id, kind, source_name, mime_type, content_hash, client_id, status, created_at, completed_at`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and checks that the server answers.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "resume-tailor"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate applies schema.sql. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Schema returns the DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// RecordRun stores a completed run and all of its artifacts in one
// transaction, so a run is never visible without its artifacts.
func (db *DB) RecordRun(ctx context.Context, input RunInput, artifacts []ArtifactInput) (uuid.UUID, error) {
	if err := input.validate(); err != nil {
		return uuid.Nil, err
	}
	for _, a := range artifacts {
		if err := a.validate(); err != nil {
			return uuid.Nil, err
		}
	}

	var runID uuid.UUID
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO runs (kind, source_name, mime_type, content_hash, client_id, status, completed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 RETURNING id`,
			input.Kind, input.SourceName, input.MIMEType, input.ContentHash, nullableUUID(input.ClientID), StatusCompleted,
		).Scan(&runID)
		if err != nil {
			return fmt.Errorf("failed to create run: %w", err)
		}
		for _, a := range artifacts {
			if err := insertArtifact(ctx, tx, runID, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

// GetRun retrieves a run by ID. A missing run yields nil without error.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run, err := pgx.CollectOneRow(rows, scanRun)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns runs matching filter, newest first.
func (db *DB) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query, args := listRunsQuery(filter.normalized())
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return runs, nil
}

func listRunsQuery(f RunFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.ContentHash != "" {
		add("content_hash = $%d", f.ContentHash)
	}
	if f.ClientID != uuid.Nil {
		add("client_id = $%d", f.ClientID)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + runColumns + ` FROM runs`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	args = append(args, f.Limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)))
	return sb.String(), args
}

// DeleteRun removes a run and, by cascade, its artifacts. It reports whether
// a run was deleted.
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, runID)
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRun(row pgx.CollectableRow) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Kind, &run.SourceName, &run.MIMEType, &run.ContentHash,
		&run.ClientID, &run.Status, &run.CreatedAt, &run.CompletedAt)
	return run, err
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
