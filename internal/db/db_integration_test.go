//go:build integration

package db

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return db
}

func TestIntegration_UpsertByEmail(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	email := "integration-" + uuid.NewString() + "@test.example.com"
	defer func() {
		_, _ = db.pool.Exec(ctx, "DELETE FROM resume_metadata WHERE email = $1", email)
	}()

	id1, err := db.UpsertByEmail(ctx, MetadataUpsert{
		Extracted:  personal.Data{FullName: strPtr("Jane Smith"), Email: &email},
		ParsedText: "first",
		Score:      55,
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	id2, err := db.UpsertByEmail(ctx, MetadataUpsert{
		Extracted:  personal.Data{Email: &email},
		ParsedText: "second",
		Score:      65,
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected the same record, got %s and %s", id1, id2)
	}

	rec, err := db.GetMetadata(ctx, id1)
	if err != nil || rec == nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if rec.AnalysisCount != 2 {
		t.Errorf("AnalysisCount = %d, want 2", rec.AnalysisCount)
	}
	if rec.FullName == nil || *rec.FullName != "Jane Smith" {
		t.Errorf("FullName = %v, want Jane Smith", rec.FullName)
	}
	if rec.ParsedText != "second" {
		t.Errorf("ParsedText = %q, want second", rec.ParsedText)
	}
}

func TestIntegration_ProjectLifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	project := &types.Project{
		UserID:        "integration-user",
		Title:         "Integration CV",
		TemplateSlug:  "classic",
		PersonalInfo:  types.PersonalInfo{FullName: "Jane Smith"},
		StyleOverride: types.StyleConfig{"primaryColor": "#112233"},
	}
	if err := db.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	defer func() { _ = db.DeleteProject(ctx, project.ID) }()

	first := &types.Section{ProjectID: project.ID, Type: types.SectionExperience, Title: "Experience", Visible: true,
		Items: json.RawMessage(`[{"company":"Acme","role":"Engineer"}]`)}
	second := &types.Section{ProjectID: project.ID, Type: types.SectionSkills, Title: "Skills", Visible: true}
	for _, s := range []*types.Section{first, second} {
		if err := db.CreateSection(ctx, s); err != nil {
			t.Fatalf("CreateSection failed: %v", err)
		}
	}
	if second.SortOrder != 1 {
		t.Errorf("second SortOrder = %d, want 1", second.SortOrder)
	}

	if err := db.ReorderSections(ctx, project.ID, []uuid.UUID{second.ID, first.ID}); err != nil {
		t.Fatalf("ReorderSections failed: %v", err)
	}

	got, err := db.GetProject(ctx, project.ID)
	if err != nil || got == nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.Sections) != 2 || got.Sections[0].ID != second.ID {
		t.Errorf("sections not reordered: %+v", got.Sections)
	}
	if got.StyleOverride["primaryColor"] != "#112233" {
		t.Errorf("style override lost: %v", got.StyleOverride)
	}
	if got.PersonalInfo.FullName != "Jane Smith" {
		t.Errorf("personal info lost: %+v", got.PersonalInfo)
	}
}

func TestIntegration_LatestMetadataForUser(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := "integration-" + uuid.NewString()
	defer func() {
		_, _ = db.pool.Exec(ctx, "DELETE FROM resume_metadata WHERE user_id = $1", userID)
	}()

	id, err := db.UpsertByEmail(ctx, MetadataUpsert{
		Extracted: personal.Data{FullName: strPtr("Jane Smith"), GitHub: strPtr("github.com/jane")},
		UserID:    &userID,
		Score:     70,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	rec, err := db.LatestMetadataForUser(ctx, userID)
	if err != nil {
		t.Fatalf("LatestMetadataForUser failed: %v", err)
	}
	if rec == nil || rec.ID != id {
		t.Fatalf("expected record %s, got %+v", id, rec)
	}
	if rec.GitHub == nil || *rec.GitHub != "github.com/jane" {
		t.Errorf("GitHub = %v, want github.com/jane", rec.GitHub)
	}

	missing, err := db.LatestMetadataForUser(ctx, "no-such-user-"+uuid.NewString())
	if err != nil || missing != nil {
		t.Errorf("expected nil record without error, got %+v, %v", missing, err)
	}
}
