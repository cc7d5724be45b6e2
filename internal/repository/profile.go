package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, name, email, photo_url, anniversary, partner_id, last_seen, created_at`

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.PhotoURL,
		&p.Anniversary, &p.PartnerID, &p.LastSeen, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// GetProfile retrieves a user profile by ID.
func (p *Postgres) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE id = $1
	`
	return scanProfile(p.db.QueryRow(ctx, query, id))
}

// FindProfileByEmail retrieves a user profile by email address.
func (p *Postgres) FindProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE email = $1
	`
	return scanProfile(p.db.QueryRow(ctx, query, email))
}

// UpsertProfile creates the profile or merges the given fields into an
// existing row. Zero-valued fields keep the stored value (COALESCE with
// the empty-string/NULL sentinel), mirroring the document store's
// merge-update semantics.
func (p *Postgres) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, name, email, photo_url, anniversary, partner_id, last_seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		ON CONFLICT (id) DO UPDATE SET
			name        = COALESCE(NULLIF(EXCLUDED.name, ''), user_profiles.name),
			email       = COALESCE(NULLIF(EXCLUDED.email, ''), user_profiles.email),
			photo_url   = COALESCE(NULLIF(EXCLUDED.photo_url, ''), user_profiles.photo_url),
			anniversary = COALESCE(EXCLUDED.anniversary, user_profiles.anniversary),
			partner_id  = COALESCE(EXCLUDED.partner_id, user_profiles.partner_id),
			last_seen   = COALESCE(EXCLUDED.last_seen, user_profiles.last_seen)
	`
	var createdAt *time.Time
	if !profile.CreatedAt.IsZero() {
		createdAt = &profile.CreatedAt
	}
	_, err := p.db.Exec(ctx, query,
		profile.ID, profile.Name, profile.Email, profile.PhotoURL,
		profile.Anniversary, profile.PartnerID, profile.LastSeen, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// SetPartner points the user's partner_id at partnerID. The guard on
// partner_id makes the write lose cleanly when a concurrent accept got
// there first, instead of overwriting an established link.
func (p *Postgres) SetPartner(ctx context.Context, userID, partnerID string) error {
	query := `
		UPDATE user_profiles
		SET partner_id = $1
		WHERE id = $2 AND (partner_id IS NULL OR partner_id = $1)
	`
	result, err := p.db.Exec(ctx, query, partnerID, userID)
	if err != nil {
		return fmt.Errorf("failed to set partner: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE id = $1)`
		if err := p.db.QueryRow(ctx, check, userID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to set partner: %w", err)
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}
	return nil
}

// ClearPartner removes the partner reference (NULL, the relational
// rendition of the field-deletion sentinel).
func (p *Postgres) ClearPartner(ctx context.Context, userID string) error {
	query := `UPDATE user_profiles SET partner_id = NULL WHERE id = $1`
	result, err := p.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear partner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateLastSeen stamps the user's last_seen time.
func (p *Postgres) UpdateLastSeen(ctx context.Context, userID string, t time.Time) error {
	query := `UPDATE user_profiles SET last_seen = $1 WHERE id = $2`
	result, err := p.db.Exec(ctx, query, t, userID)
	if err != nil {
		return fmt.Errorf("failed to update last_seen: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
