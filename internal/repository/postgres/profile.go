package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendaflow/agenda-api/internal/model"
	"github.com/agendaflow/agenda-api/internal/repository"
)

const profileColumns = `
	id, user_id, name, specialty, phone, email, public_slug, public_enabled,
	photo_url, instagram, tiktok, facebook, linkedin, created_at, updated_at
`

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_id, name, specialty, phone, email, public_slug, public_enabled,
			photo_url, instagram, tiktok, facebook, linkedin, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Specialty,
		profile.Phone,
		profile.Email,
		profile.PublicSlug,
		profile.PublicEnabled,
		profile.PhotoURL,
		profile.Instagram,
		profile.TikTok,
		profile.Facebook,
		profile.LinkedIn,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetBySlug(ctx context.Context, slug string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE public_slug = $1`

	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by slug: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, specialty = $2, phone = $3, public_slug = $4,
			public_enabled = $5, photo_url = $6, instagram = $7, tiktok = $8,
			facebook = $9, linkedin = $10, updated_at = $11
		WHERE user_id = $12
	`
	profile.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		profile.Name,
		profile.Specialty,
		profile.Phone,
		profile.PublicSlug,
		profile.PublicEnabled,
		profile.PhotoURL,
		profile.Instagram,
		profile.TikTok,
		profile.Facebook,
		profile.LinkedIn,
		profile.UpdatedAt,
		profile.UserID,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
