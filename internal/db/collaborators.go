package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// GetJob returns a job listing, or nil when the ID is unknown.
func (db *DB) GetJob(ctx context.Context, id string) (*types.JobListing, error) {
	var j types.JobListing
	var company, education, location *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, description, responsibilities, required_education,
			required_certifications, experience_min_years, experience_max_years, location
		 FROM job_listings WHERE id = $1`, id,
	).Scan(&j.ID, &j.Title, &company, &j.Description, &j.Responsibilities, &education,
		&j.RequiredCertifications, &j.ExperienceMinYears, &j.ExperienceMaxYears, &location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	j.Company = deref(company)
	j.RequiredEducation = deref(education)
	j.Location = deref(location)
	return &j, nil
}

// GetProfile returns a user profile, or nil when the user has none.
func (db *DB) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx, `SELECT profile FROM user_profiles WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	var p types.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode user profile: %w", err)
	}
	p.UserID = userID
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
