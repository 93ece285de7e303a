package builder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/types"
)

type fakeAssistant struct {
	summary    string
	bullets    []string
	ats        *types.ATSCheck
	err        error
	lastResume string
	lastJob    types.JobContent
}

func (f *fakeAssistant) GenerateSummary(_ context.Context, _, _, content string) (llm.Tagged[string], error) {
	f.lastResume = content
	if f.err != nil {
		return llm.Tagged[string]{}, f.err
	}
	return llm.Tagged[string]{Via: llm.ViaPrimary, Model: "fake/model", Value: f.summary}, nil
}

func (f *fakeAssistant) RewriteBullets(_ context.Context, _ string, _ []string) (llm.Tagged[[]string], error) {
	if f.err != nil {
		return llm.Tagged[[]string]{}, f.err
	}
	return llm.Tagged[[]string]{Via: llm.ViaSecondary, Model: "fake/fallback", Value: f.bullets}, nil
}

func (f *fakeAssistant) CheckATS(_ context.Context, job types.JobContent, resume string) (*types.ATSCheck, error) {
	f.lastJob = job
	f.lastResume = resume
	return f.ats, f.err
}

type fakeResolver struct {
	job *types.JobContent
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, _ jobsource.Request) (*types.JobContent, error) {
	return f.job, f.err
}

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) Export(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 rendered"), nil
}

func newTestService(t *testing.T) (*Service, *db.MemoryStore) {
	t.Helper()
	templates, err := rendering.NewRegistry("")
	require.NoError(t, err)
	store := db.NewMemoryStore()
	svc := NewService(store, templates)
	svc.Logger = zerolog.Nop()
	return svc, store
}

func createProject(t *testing.T, svc *Service) *types.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), types.CreateProjectRequest{
		UserID: "user-1",
		Title:  "Backend roles",
		PersonalInfo: &types.PersonalInfo{
			FullName: "Jane Smith",
			Headline: "Backend Engineer",
		},
	})
	require.NoError(t, err)
	return p
}

func items(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func experienceSection(t *testing.T) types.SectionRequest {
	return types.SectionRequest{
		Type:  types.SectionExperience,
		Title: "Experience",
		Items: items(t, []types.ExperienceItem{{
			Company: "Acme", Role: "Engineer", StartDate: "2020", Current: true,
			Bullets: []string{"Built the billing service in Go"},
		}}),
	}
}

func TestCreateProject_DefaultTemplate(t *testing.T) {
	svc, _ := newTestService(t)
	p := createProject(t, svc)

	assert.Equal(t, rendering.DefaultSlug, p.TemplateSlug)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Empty(t, p.Sections)
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, types.CreateProjectRequest{Title: "No user"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.CreateProject(ctx, types.CreateProjectRequest{UserID: "u", Title: "t", TemplateSlug: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetProject_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetProject(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProject_PartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	summary := "Ships reliable services."
	slug := "modern"
	updated, err := svc.UpdateProject(ctx, p.ID, types.UpdateProjectRequest{
		Summary:       &summary,
		TemplateSlug:  &slug,
		StyleOverride: types.StyleConfig{"primaryColor": "#112233"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Backend roles", updated.Title)
	assert.Equal(t, summary, updated.Summary)
	assert.Equal(t, "modern", updated.TemplateSlug)
	assert.Equal(t, "Jane Smith", updated.PersonalInfo.FullName)

	bad := "does-not-exist"
	_, err = svc.UpdateProject(ctx, p.ID, types.UpdateProjectRequest{TemplateSlug: &bad})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSections_AddUpdateReorderDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	exp, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)
	assert.True(t, exp.Visible)
	assert.Equal(t, 0, exp.SortOrder)

	skills, err := svc.AddSection(ctx, p.ID, types.SectionRequest{
		Type:  types.SectionSkills,
		Title: "Skills",
		Items: items(t, []types.SkillGroup{{Skills: []string{"Go", "SQL"}}}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, skills.SortOrder)

	hidden := false
	_, err = svc.UpdateSection(ctx, skills.ID, types.SectionRequest{
		Type: types.SectionSkills, Title: "Tech", Visible: &hidden,
		Items: items(t, []types.SkillGroup{{Skills: []string{"Go"}}}),
	})
	require.NoError(t, err)

	got, err := svc.ReorderSections(ctx, p.ID, types.ReorderRequest{SectionIDs: []uuid.UUID{skills.ID, exp.ID}})
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, skills.ID, got.Sections[0].ID)
	assert.Equal(t, "Tech", got.Sections[0].Title)
	assert.False(t, got.Sections[0].Visible)

	require.NoError(t, svc.DeleteSection(ctx, exp.ID))
	got, err = svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Sections, 1)

	assert.True(t, apperr.Is(svc.DeleteSection(ctx, exp.ID), apperr.KindNotFound))
}

func TestAddSection_RejectsItemsOfWrongShape(t *testing.T) {
	svc, _ := newTestService(t)
	p := createProject(t, svc)

	_, err := svc.AddSection(context.Background(), p.ID, types.SectionRequest{
		Type:  types.SectionExperience,
		Title: "Experience",
		Items: json.RawMessage(`{"company":"not an array"}`),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestReorderSections_RequiresEverySection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)
	a, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)
	_, err = svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)

	_, err = svc.ReorderSections(ctx, p.ID, types.ReorderRequest{SectionIDs: []uuid.UUID{a.ID}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	require.NoError(t, svc.DeleteProject(ctx, p.ID))
	_, err := svc.GetProject(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.DeleteProject(ctx, p.ID), apperr.KindNotFound))
}

func TestAutoFill_FillsOnlyMissingContent(t *testing.T) {
	svc, store := newTestService(t)
	svc.Profiles = store
	ctx := context.Background()
	p := createProject(t, svc)
	_, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)

	store.PutProfile(types.UserProfile{
		UserID: "user-1",
		PersonalInfo: types.PersonalInfo{
			FullName: "Someone Else",
			Email:    "jane@mail.com",
			Location: "Berlin",
		},
		Summary:     "Profile summary",
		WorkHistory: []types.ExperienceItem{{Company: "Old Co", Role: "Intern"}},
		Education:   []types.EducationItem{{Institution: "TU Berlin", Degree: "BSc"}},
		Skills:      []string{"Go", "Kubernetes"},
	})

	got, err := svc.AutoFill(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", got.PersonalInfo.FullName)
	assert.Equal(t, "jane@mail.com", got.PersonalInfo.Email)
	assert.Equal(t, "Berlin", got.PersonalInfo.Location)
	assert.Equal(t, "Profile summary", got.Summary)

	var typesSeen []types.SectionType
	for _, s := range got.Sections {
		typesSeen = append(typesSeen, s.Type)
	}
	assert.Equal(t, []types.SectionType{types.SectionExperience, types.SectionEducation, types.SectionSkills}, typesSeen)
	assert.Contains(t, string(got.Sections[0].Items), "Acme")
	assert.NotContains(t, string(got.Sections[0].Items), "Old Co")
}

func TestAutoFill_Errors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	_, err := svc.AutoFill(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))

	svc.Profiles = store
	_, err = svc.AutoFill(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func strPtr(s string) *string { return &s }

func TestAutoFill_FromAnalyzedResume(t *testing.T) {
	svc, store := newTestService(t)
	svc.Profiles = store
	svc.Resumes = store
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, types.CreateProjectRequest{UserID: "user-1", Title: "Backend roles"})
	require.NoError(t, err)

	_, err = store.UpsertByEmail(ctx, db.MetadataUpsert{
		Extracted: personal.Data{
			FullName:  strPtr("Jane Smith"),
			Email:     strPtr("jane.smith@mail.com"),
			Mobile:    strPtr("+14155550100, +919876543210"),
			LinkedIn:  strPtr("linkedin.com/in/jane-smith"),
			GitHub:    strPtr("github.com/janesmith"),
			Portfolio: strPtr("janesmith.dev"),
			Skills:    strPtr("Go, Python, SQL"),
		},
		UserID: strPtr("user-1"),
		Score:  70,
	})
	require.NoError(t, err)

	got, err := svc.AutoFill(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, types.PersonalInfo{
		FullName:  "Jane Smith",
		Email:     "jane.smith@mail.com",
		Phone:     "+14155550100",
		LinkedIn:  "linkedin.com/in/jane-smith",
		GitHub:    "github.com/janesmith",
		Portfolio: "janesmith.dev",
	}, got.PersonalInfo)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, types.SectionSkills, got.Sections[0].Type)

	var groups []types.SkillGroup
	require.NoError(t, json.Unmarshal(got.Sections[0].Items, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Go", "Python", "SQL"}, groups[0].Skills)
}

func TestAutoFill_ProfileWinsOverResume(t *testing.T) {
	svc, store := newTestService(t)
	svc.Profiles = store
	svc.Resumes = store
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, types.CreateProjectRequest{UserID: "user-1", Title: "Backend roles"})
	require.NoError(t, err)

	store.PutProfile(types.UserProfile{
		UserID:       "user-1",
		PersonalInfo: types.PersonalInfo{Email: "jane@work.com"},
		Skills:       []string{"Kubernetes"},
	})
	_, err = store.UpsertByEmail(ctx, db.MetadataUpsert{
		Extracted: personal.Data{
			FullName: strPtr("Jane Smith"),
			Email:    strPtr("jane.smith@mail.com"),
			Skills:   strPtr("Go, SQL"),
		},
		UserID: strPtr("user-1"),
	})
	require.NoError(t, err)

	got, err := svc.AutoFill(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, "jane@work.com", got.PersonalInfo.Email)
	assert.Equal(t, "Jane Smith", got.PersonalInfo.FullName)
	require.Len(t, got.Sections, 1)
	assert.Contains(t, string(got.Sections[0].Items), "Kubernetes")
	assert.NotContains(t, string(got.Sections[0].Items), "SQL")
}

func TestGenerateSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)
	_, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)

	assistant := &fakeAssistant{summary: "Backend engineer focused on billing."}
	svc.Assistant = assistant

	got, err := svc.GenerateSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend engineer focused on billing.", got.Summary)
	assert.Equal(t, llm.ViaPrimary, got.Provider)
	assert.Contains(t, assistant.lastResume, "Built the billing service in Go")

	stored, err := svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Summary)
}

func TestGenerateSummary_NoAssistant(t *testing.T) {
	svc, _ := newTestService(t)
	p := createProject(t, svc)
	_, err := svc.GenerateSummary(context.Background(), p.ID)
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))
}

func TestRewriteBullets(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Assistant = &fakeAssistant{bullets: []string{"Cut latency 40%"}}

	got, err := svc.RewriteBullets(context.Background(), types.BulletsRequest{Bullets: []string{"made it faster"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cut latency 40%"}, got.Bullets)
	assert.Equal(t, llm.ViaSecondary, got.Provider)

	_, err = svc.RewriteBullets(context.Background(), types.BulletsRequest{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCheckATS(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)
	_, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)

	assistant := &fakeAssistant{ats: &types.ATSCheck{Score: 72, MissingKeywords: []string{"Kafka"}}}
	svc.Assistant = assistant
	svc.Jobs = &fakeResolver{job: &types.JobContent{Title: "Backend Engineer", Description: "Go and Kafka"}}

	got, err := svc.CheckATS(ctx, p.ID, jobsource.Request{JobText: "Go and Kafka"})
	require.NoError(t, err)
	assert.Equal(t, 72, got.Score)
	assert.Equal(t, "Go and Kafka", assistant.lastJob.Description)
	assert.Contains(t, assistant.lastResume, "Acme")
}

func TestCheckATS_ResolverErrorKeepsKind(t *testing.T) {
	svc, _ := newTestService(t)
	p := createProject(t, svc)
	svc.Assistant = &fakeAssistant{}
	svc.Jobs = &fakeResolver{err: apperr.New(apperr.KindUnextractableContent, "no posting found")}

	_, err := svc.CheckATS(context.Background(), p.ID, jobsource.Request{JobURL: "https://jobs.example.com/1"})
	assert.True(t, apperr.Is(err, apperr.KindUnextractableContent))
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createProject(t, svc)
	_, err := svc.AddSection(ctx, p.ID, experienceSection(t))
	require.NoError(t, err)

	html, err := svc.Export(ctx, p.ID, "HTML")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", html.ContentType)
	assert.Contains(t, string(html.Body), "Jane Smith")

	_, err = svc.Export(ctx, p.ID, "pdf")
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))

	exporter := &fakePDF{}
	svc.PDF = exporter
	pdf, err := svc.Export(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Contains(t, exporter.html, "Acme")

	_, err = svc.Export(ctx, p.ID, "docx")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	svc.PDF = &fakePDF{err: errors.New("chrome crashed")}
	_, err = svc.Export(ctx, p.ID, "pdf")
	assert.True(t, apperr.Is(err, apperr.KindUpstreamUnavailable))
}

func TestTemplates(t *testing.T) {
	svc, _ := newTestService(t)

	list := svc.ListTemplates()
	require.NotEmpty(t, list)

	html, err := svc.TemplatePreview(list[0].Slug)
	require.NoError(t, err)
	assert.Contains(t, html, "Alex Morgan")

	_, err = svc.TemplatePreview("missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
