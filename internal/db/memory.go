package db

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// MemoryStore is a Store held in process memory. Values are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	metadata map[uuid.UUID]*types.ResumeMetadata
	projects map[uuid.UUID]*types.Project
	sections map[uuid.UUID]*types.Section
	jobs     map[string]*types.JobListing
	profiles map[string]*types.UserProfile
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		metadata: make(map[uuid.UUID]*types.ResumeMetadata),
		projects: make(map[uuid.UUID]*types.Project),
		sections: make(map[uuid.UUID]*types.Section),
		jobs:     make(map[string]*types.JobListing),
		profiles: make(map[string]*types.UserProfile),
	}
}

// PutJob seeds a job listing.
func (m *MemoryStore) PutJob(j types.JobListing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = &j
}

// PutProfile seeds a user profile.
func (m *MemoryStore) PutProfile(p types.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = &p
}

func (m *MemoryStore) UpsertByEmail(_ context.Context, u MetadataUpsert) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()

	if key := u.emailKey(); key != "" {
		var latest *types.ResumeMetadata
		for _, rec := range m.metadata {
			if rec.Email != nil && strings.EqualFold(*rec.Email, key) &&
				(latest == nil || rec.UpdatedAt.After(latest.UpdatedAt)) {
				latest = rec
			}
		}
		if latest != nil {
			mergeRecord(latest, u, now)
			return latest.ID, nil
		}
	}

	rec := newRecord(u, now)
	m.metadata[rec.ID] = rec
	return rec.ID, nil
}

func (m *MemoryStore) GetMetadata(_ context.Context, id uuid.UUID) (*types.ResumeMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.metadata[id]
	if !ok {
		return nil, nil
	}
	return cloneMetadata(rec), nil
}

func (m *MemoryStore) LatestMetadataForUser(_ context.Context, userID string) (*types.ResumeMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *types.ResumeMetadata
	for _, rec := range m.metadata {
		if rec.UserID != nil && *rec.UserID == userID &&
			(latest == nil || rec.UpdatedAt.After(latest.UpdatedAt)) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneMetadata(latest), nil
}

func (m *MemoryStore) CreateProject(_ context.Context, p *types.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	cp.Sections = nil
	cp.StyleOverride = types.StyleConfig{}.Merge(p.StyleOverride)
	m.projects[p.ID] = &cp
	return nil
}

func (m *MemoryStore) GetProject(_ context.Context, id uuid.UUID) (*types.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.StyleOverride = types.StyleConfig{}.Merge(p.StyleOverride)
	cp.Sections = m.sectionsOf(id)
	return &cp, nil
}

func (m *MemoryStore) UpdateProject(_ context.Context, p *types.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[p.ID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "project %s not found", p.ID)
	}
	p.UpdatedAt = m.now()
	cp := *p
	cp.Sections = nil
	cp.CreatedAt = existing.CreatedAt
	cp.StyleOverride = types.StyleConfig{}.Merge(p.StyleOverride)
	m.projects[p.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return apperr.New(apperr.KindNotFound, "project %s not found", id)
	}
	delete(m.projects, id)
	for sid, s := range m.sections {
		if s.ProjectID == id {
			delete(m.sections, sid)
		}
	}
	return nil
}

func (m *MemoryStore) CreateSection(_ context.Context, s *types.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[s.ProjectID]; !ok {
		return apperr.New(apperr.KindNotFound, "project %s not found", s.ProjectID)
	}
	s.ID = uuid.New()
	s.SortOrder = 0
	for _, other := range m.sections {
		if other.ProjectID == s.ProjectID && other.SortOrder >= s.SortOrder {
			s.SortOrder = other.SortOrder + 1
		}
	}
	s.Items = itemsOrEmpty(s.Items)
	m.sections[s.ID] = copySection(s)
	m.touch(s.ProjectID)
	return nil
}

func (m *MemoryStore) GetSection(_ context.Context, id uuid.UUID) (*types.Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sections[id]
	if !ok {
		return nil, nil
	}
	return copySection(s), nil
}

func (m *MemoryStore) UpdateSection(_ context.Context, s *types.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sections[s.ID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "section %s not found", s.ID)
	}
	existing.Type = s.Type
	existing.Title = s.Title
	existing.Visible = s.Visible
	existing.Items = append(json.RawMessage(nil), itemsOrEmpty(s.Items)...)
	m.touch(existing.ProjectID)
	return nil
}

func (m *MemoryStore) DeleteSection(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sections[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "section %s not found", id)
	}
	delete(m.sections, id)
	m.touch(s.ProjectID)
	return nil
}

func (m *MemoryStore) ReorderSections(_ context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current []uuid.UUID
	for _, s := range m.sections {
		if s.ProjectID == projectID {
			current = append(current, s.ID)
		}
	}
	if err := checkPermutation(current, ids); err != nil {
		return err
	}
	for i, id := range ids {
		m.sections[id].SortOrder = i
	}
	m.touch(projectID)
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, id string) (*types.JobListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (m *MemoryStore) GetProfile(_ context.Context, userID string) (*types.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// sectionsOf returns copies of a project's sections in sort order. The
// caller holds the lock.
func (m *MemoryStore) sectionsOf(projectID uuid.UUID) []types.Section {
	out := []types.Section{}
	for _, s := range m.sections {
		if s.ProjectID == projectID {
			out = append(out, *copySection(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (m *MemoryStore) touch(projectID uuid.UUID) {
	if p, ok := m.projects[projectID]; ok {
		p.UpdatedAt = m.now()
	}
}

func copySection(s *types.Section) *types.Section {
	cp := *s
	cp.Items = append(json.RawMessage(nil), s.Items...)
	return &cp
}
