package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const sectionColumns = `id, project_id, type, title, visible, sort_order, items`

// CreateSection appends s to its project. ID and sort order are assigned here.
func (db *DB) CreateSection(ctx context.Context, s *types.Section) error {
	s.ID = uuid.New()
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resume_sections (id, project_id, type, title, visible, sort_order, items)
		 SELECT $1, $2, $3, $4, $5, COALESCE(MAX(sort_order) + 1, 0), $6
		 FROM resume_sections WHERE project_id = $2
		 RETURNING sort_order`,
		s.ID, s.ProjectID, s.Type, s.Title, s.Visible, []byte(itemsOrEmpty(s.Items)),
	).Scan(&s.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return db.touchProject(ctx, s.ProjectID)
}

// GetSection returns a section by ID, or nil.
func (db *DB) GetSection(ctx context.Context, id uuid.UUID) (*types.Section, error) {
	s, err := scanSection(db.pool.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM resume_sections WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

// UpdateSection writes type, title, visibility and items of s.
func (db *DB) UpdateSection(ctx context.Context, s *types.Section) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resume_sections SET type = $2, title = $3, visible = $4, items = $5 WHERE id = $1`,
		s.ID, s.Type, s.Title, s.Visible, []byte(itemsOrEmpty(s.Items)),
	)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "section %s not found", s.ID)
	}
	return db.touchProject(ctx, s.ProjectID)
}

// DeleteSection removes a section.
func (db *DB) DeleteSection(ctx context.Context, id uuid.UUID) error {
	var projectID uuid.UUID
	err := db.pool.QueryRow(ctx,
		`DELETE FROM resume_sections WHERE id = $1 RETURNING project_id`, id,
	).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.New(apperr.KindNotFound, "section %s not found", id)
		}
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return db.touchProject(ctx, projectID)
}

// ReorderSections sets the sort order of a project's sections to the order
// of ids, which must list every section of the project exactly once.
func (db *DB) ReorderSections(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `SELECT id FROM resume_sections WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to list sections: %w", err)
	}
	current, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("failed to scan sections: %w", err)
	}
	if err := checkPermutation(current, ids); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, id := range ids {
		batch.Queue(`UPDATE resume_sections SET sort_order = $2 WHERE id = $1`, id, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to reorder sections: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE resume_projects SET updated_at = $2 WHERE id = $1`, projectID, db.now()); err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

func (db *DB) listSections(ctx context.Context, projectID uuid.UUID) ([]types.Section, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sectionColumns+` FROM resume_sections WHERE project_id = $1 ORDER BY sort_order, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	sections := []types.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

func (db *DB) touchProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `UPDATE resume_projects SET updated_at = $2 WHERE id = $1`, projectID, db.now()); err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return nil
}

func scanSection(row pgx.Row) (*types.Section, error) {
	var s types.Section
	var items []byte
	if err := row.Scan(&s.ID, &s.ProjectID, &s.Type, &s.Title, &s.Visible, &s.SortOrder, &items); err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}
