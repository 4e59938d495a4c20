// Package db - profiles.go stores and retrieves candidate profile records.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skydev929/us-resume-v2/internal/types"
)

// GetProfile retrieves a profile record by its key, with experience and
// education in stored order. Returns (nil, nil) when no profile matches.
func (db *DB) GetProfile(ctx context.Context, key string) (*types.ProfileRecord, error) {
	var id uuid.UUID
	record := &types.ProfileRecord{Key: key}

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''),
		        COALESCE(location, ''), COALESCE(linkedin, '')
		 FROM profiles WHERE key = $1`,
		key,
	).Scan(&id, &record.Name, &record.Email, &record.Phone, &record.Location, &record.LinkedIn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", key, err)
	}

	record.Experience, err = db.getExperience(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Education, err = db.getEducation(ctx, id)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (db *DB) getExperience(ctx context.Context, profileID uuid.UUID) ([]types.ExperienceEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''),
		        COALESCE(start_date, ''), COALESCE(end_date, '')
		 FROM profile_experience WHERE profile_id = $1 ORDER BY position ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	defer rows.Close()

	var entries []types.ExperienceEntry
	for rows.Next() {
		var entry types.ExperienceEntry
		if err := rows.Scan(&entry.Title, &entry.Company, &entry.Location, &entry.StartDate, &entry.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (db *DB) getEducation(ctx context.Context, profileID uuid.UUID) ([]types.EducationEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT COALESCE(degree, ''), COALESCE(school, ''), COALESCE(location, ''),
		        COALESCE(graduation_date, '')
		 FROM profile_education WHERE profile_id = $1 ORDER BY position ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get education: %w", err)
	}
	defer rows.Close()

	var entries []types.EducationEntry
	for rows.Next() {
		var entry types.EducationEntry
		if err := rows.Scan(&entry.Degree, &entry.School, &entry.Location, &entry.GraduationDate); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpsertProfile stores a profile record under its key, replacing any
// existing experience and education lists atomically.
func (db *DB) UpsertProfile(ctx context.Context, record *types.ProfileRecord) error {
	if record.Key == "" {
		return fmt.Errorf("profile key is required")
	}
	if record.Name == "" {
		return fmt.Errorf("profile name is required")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (key, name, email, phone, location, linkedin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (key) DO UPDATE SET
		   name = $2, email = $3, phone = $4, location = $5, linkedin = $6,
		   updated_at = NOW()
		 RETURNING id`,
		record.Key, record.Name, record.Email, record.Phone, record.Location, record.LinkedIn,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", record.Key, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_experience WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear experience: %w", err)
	}
	for i, entry := range record.Experience {
		_, err := tx.Exec(ctx,
			`INSERT INTO profile_experience (profile_id, position, title, company, location, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, i, entry.Title, entry.Company, entry.Location, entry.StartDate, entry.EndDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_education WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear education: %w", err)
	}
	for i, entry := range record.Education {
		_, err := tx.Exec(ctx,
			`INSERT INTO profile_education (profile_id, position, degree, school, location, graduation_date)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, i, entry.Degree, entry.School, entry.Location, entry.GraduationDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}

	return tx.Commit(ctx)
}
