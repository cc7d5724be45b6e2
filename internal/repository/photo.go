package repository

import (
	"context"
	"fmt"

	"lovenest-backend/internal/models"
)

// InsertPhoto creates a gallery photo row.
func (p *Postgres) InsertPhoto(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, user_id, partner_id, src, caption, hint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.db.Exec(ctx, query,
		photo.ID, photo.UserID, photo.PartnerID, photo.Src, photo.Caption, photo.Hint, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

// ListPhotos returns photos owned by any of userIDs, newest-first.
func (p *Postgres) ListPhotos(ctx context.Context, userIDs []string) ([]models.Photo, error) {
	query := `
		SELECT id, user_id, partner_id, src, caption, hint, created_at
		FROM photos
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
	`
	rows, err := p.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var out []models.Photo
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.UserID, &photo.PartnerID,
			&photo.Src, &photo.Caption, &photo.Hint, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		out = append(out, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return out, nil
}
