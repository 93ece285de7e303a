package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// CreateProject inserts p. ID and timestamps are assigned here.
func (db *DB) CreateProject(ctx context.Context, p *types.Project) error {
	p.ID = uuid.New()
	p.CreatedAt = db.now()
	p.UpdatedAt = p.CreatedAt

	info, style, err := encodeProject(p)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_projects (id, user_id, title, personal_info, summary, template_slug, style_override, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.Title, info, p.Summary, p.TemplateSlug, style, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject returns a project with its sections in sort order, or nil.
func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	var p types.Project
	var info, style []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, personal_info, summary, template_slug, style_override, created_at, updated_at
		 FROM resume_projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Title, &info, &p.Summary, &p.TemplateSlug, &style, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if err := json.Unmarshal(info, &p.PersonalInfo); err != nil {
		return nil, fmt.Errorf("failed to decode personal info: %w", err)
	}
	if len(style) > 0 {
		if err := json.Unmarshal(style, &p.StyleOverride); err != nil {
			return nil, fmt.Errorf("failed to decode style override: %w", err)
		}
	}

	p.Sections, err = db.listSections(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject writes the project-level fields of p.
func (db *DB) UpdateProject(ctx context.Context, p *types.Project) error {
	p.UpdatedAt = db.now()
	info, style, err := encodeProject(p)
	if err != nil {
		return err
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE resume_projects SET title = $2, personal_info = $3, summary = $4, template_slug = $5,
			style_override = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Title, info, p.Summary, p.TemplateSlug, style, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "project %s not found", p.ID)
	}
	return nil
}

// DeleteProject deletes a project and its sections (via cascade)
func (db *DB) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resume_projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "project %s not found", id)
	}
	return nil
}

func encodeProject(p *types.Project) (info, style []byte, err error) {
	info, err = json.Marshal(p.PersonalInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode personal info: %w", err)
	}
	if len(p.StyleOverride) > 0 {
		style, err = json.Marshal(p.StyleOverride)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode style override: %w", err)
		}
	}
	return info, style, nil
}
