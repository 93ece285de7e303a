package db

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Store is everything the service needs from persistence. Getters return
// nil without error for unknown IDs.
type Store interface {
	UpsertByEmail(ctx context.Context, u MetadataUpsert) (uuid.UUID, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*types.ResumeMetadata, error)
	LatestMetadataForUser(ctx context.Context, userID string) (*types.ResumeMetadata, error)

	CreateProject(ctx context.Context, p *types.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
	UpdateProject(ctx context.Context, p *types.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateSection(ctx context.Context, s *types.Section) error
	GetSection(ctx context.Context, id uuid.UUID) (*types.Section, error)
	UpdateSection(ctx context.Context, s *types.Section) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	ReorderSections(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error

	GetJob(ctx context.Context, id string) (*types.JobListing, error)
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*MemoryStore)(nil)
)

func itemsOrEmpty(items json.RawMessage) json.RawMessage {
	if len(items) == 0 || string(items) == "null" {
		return json.RawMessage("[]")
	}
	return items
}

// checkPermutation verifies that ids lists every element of current exactly once.
func checkPermutation(current, ids []uuid.UUID) error {
	if len(ids) != len(current) {
		return apperr.New(apperr.KindValidation, "reorder must list all %d sections of the project", len(current))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return apperr.New(apperr.KindValidation, "section %s is not part of the project or is listed twice", id)
		}
		delete(known, id)
	}
	return nil
}
