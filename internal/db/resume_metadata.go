package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/types"
)

const metadataColumns = `id, user_id, file_name, file_size, full_name, email, mobile, linkedin, github,
	portfolio, date_of_birth, address, skills, parsed_text, last_job_ref, last_score,
	analysis_count, model_used, created_at, updated_at`

// UpsertByEmail records an analysis. An existing record with the same email
// (case-insensitive) is merged; without an email a new record is always
// created. Concurrent upserts for one email are last-writer-wins.
func (db *DB) UpsertByEmail(ctx context.Context, u MetadataUpsert) (uuid.UUID, error) {
	now := db.now()
	key := u.emailKey()

	var existing *types.ResumeMetadata
	if key != "" {
		row := db.pool.QueryRow(ctx,
			`SELECT `+metadataColumns+` FROM resume_metadata
			 WHERE lower(email) = $1 ORDER BY updated_at DESC LIMIT 1`, key)
		rec, err := scanMetadata(row)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("failed to look up resume metadata: %w", err)
		}
		existing = rec
	}

	if existing == nil {
		rec := newRecord(u, now)
		if err := db.insertMetadata(ctx, rec); err != nil {
			return uuid.Nil, err
		}
		return rec.ID, nil
	}

	rec := mergeRecord(existing, u, now)
	_, err := db.pool.Exec(ctx,
		`UPDATE resume_metadata SET
			user_id = $2, file_name = $3, file_size = $4, full_name = $5, email = $6, mobile = $7,
			linkedin = $8, github = $9, portfolio = $10, date_of_birth = $11, address = $12,
			skills = $13, parsed_text = $14, last_job_ref = $15, last_score = $16,
			analysis_count = $17, model_used = $18, updated_at = $19
		 WHERE id = $1`,
		rec.ID, rec.UserID, rec.FileName, rec.FileSize, rec.FullName, rec.Email, rec.Mobile,
		rec.LinkedIn, rec.GitHub, rec.Portfolio, rec.DateOfBirth, rec.Address,
		rec.Skills, rec.ParsedText, rec.LastJobRef, rec.LastScore,
		rec.AnalysisCount, rec.ModelUsed, rec.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to update resume metadata: %w", err)
	}
	return rec.ID, nil
}

func (db *DB) insertMetadata(ctx context.Context, rec *types.ResumeMetadata) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_metadata (`+metadataColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		rec.ID, rec.UserID, rec.FileName, rec.FileSize, rec.FullName, rec.Email, rec.Mobile,
		rec.LinkedIn, rec.GitHub, rec.Portfolio, rec.DateOfBirth, rec.Address, rec.Skills,
		rec.ParsedText, rec.LastJobRef, rec.LastScore, rec.AnalysisCount, rec.ModelUsed,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume metadata: %w", err)
	}
	return nil
}

// GetMetadata returns a record by ID, or nil when it does not exist.
func (db *DB) GetMetadata(ctx context.Context, id uuid.UUID) (*types.ResumeMetadata, error) {
	rec, err := scanMetadata(db.pool.QueryRow(ctx,
		`SELECT `+metadataColumns+` FROM resume_metadata WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume metadata: %w", err)
	}
	return rec, nil
}

// LatestMetadataForUser returns the most recently updated record owned by
// userID, or nil when the user has none.
func (db *DB) LatestMetadataForUser(ctx context.Context, userID string) (*types.ResumeMetadata, error) {
	rec, err := scanMetadata(db.pool.QueryRow(ctx,
		`SELECT `+metadataColumns+` FROM resume_metadata
		 WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume metadata for user: %w", err)
	}
	return rec, nil
}

func scanMetadata(row pgx.Row) (*types.ResumeMetadata, error) {
	var r types.ResumeMetadata
	err := row.Scan(&r.ID, &r.UserID, &r.FileName, &r.FileSize, &r.FullName, &r.Email, &r.Mobile,
		&r.LinkedIn, &r.GitHub, &r.Portfolio, &r.DateOfBirth, &r.Address, &r.Skills,
		&r.ParsedText, &r.LastJobRef, &r.LastScore, &r.AnalysisCount, &r.ModelUsed,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
