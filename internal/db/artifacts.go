package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

func insertArtifact(ctx context.Context, q querier, runID uuid.UUID, a ArtifactInput) error {
	var (
		content []byte
		text    *string
	)
	if a.Content != nil {
		data, err := marshalContent(a.Content)
		if err != nil {
			return fmt.Errorf("failed to marshal artifact %s: %w", a.Step, err)
		}
		content = data
	} else {
		text = &a.Text
	}

	_, err := q.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content, text_content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET category = EXCLUDED.category, content = EXCLUDED.content,
		     text_content = EXCLUDED.text_content, created_at = NOW()`,
		runID, a.Step, a.Category, content, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", a.Step, err)
	}
	return nil
}

func marshalContent(content any) ([]byte, error) {
	if raw, ok := content.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("raw content is not valid JSON")
		}
		return raw, nil
	}
	return json.Marshal(content)
}

// GetArtifact returns one artifact of a run, or nil when the run has no
// artifact for step.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) (*Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, category, content, text_content, created_at
		 FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	a, err := pgx.CollectOneRow(rows, scanArtifact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return &a, nil
}

// ListArtifacts returns every artifact of a run in creation order
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, category, content, text_content, created_at
		 FROM artifacts WHERE run_id = $1 ORDER BY created_at, step`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	artifacts, err := pgx.CollectRows(rows, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifacts: %w", err)
	}
	return artifacts, nil
}

func scanArtifact(row pgx.CollectableRow) (Artifact, error) {
	var (
		a       Artifact
		content []byte
		text    *string
	)
	if err := row.Scan(&a.ID, &a.RunID, &a.Step, &a.Category, &content, &text, &a.CreatedAt); err != nil {
		return a, err
	}
	if len(content) > 0 {
		a.Content = json.RawMessage(content)
	}
	if text != nil {
		a.TextContent = *text
	}
	return a, nil
}

// GetParseResponseByRunID loads the parse result stored for a run
func (db *DB) GetParseResponseByRunID(ctx context.Context, runID uuid.UUID) (*types.ParseResponse, error) {
	var resp types.ParseResponse
	found, err := db.decodeArtifact(ctx, runID, StepParsed, &resp)
	if err != nil || !found {
		return nil, err
	}
	resp.RunID = runID.String()
	return &resp, nil
}

// GetSuggestionsByRunID loads the suggestion list stored for a run
func (db *DB) GetSuggestionsByRunID(ctx context.Context, runID uuid.UUID) (*types.SuggestionResponse, error) {
	var resp types.SuggestionResponse
	found, err := db.decodeArtifact(ctx, runID, StepSuggestions, &resp)
	if err != nil || !found {
		return nil, err
	}
	return &resp, nil
}

func (db *DB) decodeArtifact(ctx context.Context, runID uuid.UUID, step string, v any) (bool, error) {
	a, err := db.GetArtifact(ctx, runID, step)
	if err != nil || a == nil {
		return false, err
	}
	if len(a.Content) == 0 {
		return false, fmt.Errorf("artifact %s of run %s holds text, not JSON", step, runID)
	}
	if err := json.Unmarshal(a.Content, v); err != nil {
		return false, fmt.Errorf("failed to decode artifact %s: %w", step, err)
	}
	return true, nil
}
