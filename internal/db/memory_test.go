package db

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestMemoryStore_UpsertByEmailTwice(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, err := store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{FullName: strPtr("Jane Smith"), Email: strPtr("jane@example.com")},
		Score:     70,
	})
	require.NoError(t, err)

	id2, err := store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{Email: strPtr("JANE@example.com")},
		Score:     80,
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	rec, err := store.GetMetadata(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.AnalysisCount)
	assert.Equal(t, "Jane Smith", *rec.FullName)
	assert.Equal(t, 80, *rec.LastScore)
}

func TestMemoryStore_UpsertWithoutEmailAlwaysInserts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id1, err := store.UpsertByEmail(ctx, MetadataUpsert{Extracted: personal.Data{FullName: strPtr("Jane Smith")}})
	require.NoError(t, err)
	id2, err := store.UpsertByEmail(ctx, MetadataUpsert{Extracted: personal.Data{FullName: strPtr("Jane Smith")}})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestMemoryStore_MetadataIsNotShared(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	name := "Jane Smith"
	size := int64(2048)
	id, err := store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{FullName: &name, Email: strPtr("jane@example.com")},
		FileSize:  &size,
	})
	require.NoError(t, err)

	name = "Mallory"
	size = 1
	rec, err := store.GetMetadata(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", *rec.FullName)
	assert.Equal(t, int64(2048), *rec.FileSize)

	*rec.FullName = "Changed"
	*rec.LastScore = 99
	again, err := store.GetMetadata(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", *again.FullName)
	assert.Equal(t, 0, *again.LastScore)
}

func TestMemoryStore_LatestMetadataForUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	_, err := store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{Email: strPtr("old@example.com")},
		UserID:    strPtr("user-1"),
	})
	require.NoError(t, err)
	newest, err := store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{Email: strPtr("new@example.com")},
		UserID:    strPtr("user-1"),
	})
	require.NoError(t, err)
	_, err = store.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{Email: strPtr("other@example.com")},
		UserID:    strPtr("user-2"),
	})
	require.NoError(t, err)

	rec, err := store.LatestMetadataForUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, newest, rec.ID)

	rec, err = store.LatestMetadataForUser(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec, err := store.GetMetadata(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, rec)

	job, err := store.GetJob(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, job)

	profile, err := store.GetProfile(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestMemoryStore_ProjectAndSections(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	project := &types.Project{UserID: "u1", Title: "Backend CV", TemplateSlug: "classic"}
	require.NoError(t, store.CreateProject(ctx, project))
	require.NotEqual(t, uuid.Nil, project.ID)

	exp := &types.Section{ProjectID: project.ID, Type: types.SectionExperience, Title: "Experience", Visible: true,
		Items: json.RawMessage(`[{"company":"Acme","role":"Engineer"}]`)}
	skills := &types.Section{ProjectID: project.ID, Type: types.SectionSkills, Title: "Skills", Visible: true}
	require.NoError(t, store.CreateSection(ctx, exp))
	require.NoError(t, store.CreateSection(ctx, skills))
	assert.Equal(t, 0, exp.SortOrder)
	assert.Equal(t, 1, skills.SortOrder)

	require.NoError(t, store.ReorderSections(ctx, project.ID, []uuid.UUID{skills.ID, exp.ID}))

	got, err := store.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, skills.ID, got.Sections[0].ID)
	assert.JSONEq(t, `[]`, string(got.Sections[0].Items))
	assert.Equal(t, exp.ID, got.Sections[1].ID)

	require.NoError(t, store.DeleteProject(ctx, project.ID))
	sec, err := store.GetSection(ctx, exp.ID)
	require.NoError(t, err)
	assert.Nil(t, sec)
}

func TestMemoryStore_ReorderRejectsPartialList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	project := &types.Project{UserID: "u1", Title: "CV"}
	require.NoError(t, store.CreateProject(ctx, project))
	a := &types.Section{ProjectID: project.ID, Type: types.SectionCustom, Title: "A"}
	b := &types.Section{ProjectID: project.ID, Type: types.SectionCustom, Title: "B"}
	require.NoError(t, store.CreateSection(ctx, a))
	require.NoError(t, store.CreateSection(ctx, b))

	err := store.ReorderSections(ctx, project.ID, []uuid.UUID{a.ID})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = store.ReorderSections(ctx, project.ID, []uuid.UUID{a.ID, a.ID})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMemoryStore_MissingRowsAreNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(store.DeleteProject(ctx, uuid.New())))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(store.UpdateProject(ctx, &types.Project{ID: uuid.New()})))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(store.DeleteSection(ctx, uuid.New())))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(store.CreateSection(ctx, &types.Section{ProjectID: uuid.New()})))
}
