package repository

import (
	"context"
	"errors"
	"fmt"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/jackc/pgx/v5"
)

// InsertLinkRequest creates a new link request row.
func (p *Postgres) InsertLinkRequest(ctx context.Context, req *models.LinkRequest) error {
	query := `
		INSERT INTO link_requests (id, from_user_id, from_user_name, from_user_email, to_user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.db.Exec(ctx, query,
		req.ID, req.FromUserID, req.FromUserName, req.FromUserEmail,
		req.ToUserID, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link request: %w", err)
	}
	return nil
}

// GetLinkRequest retrieves a link request by ID.
func (p *Postgres) GetLinkRequest(ctx context.Context, id string) (*models.LinkRequest, error) {
	query := `
		SELECT id, from_user_id, from_user_name, from_user_email, to_user_id, status, created_at
		FROM link_requests
		WHERE id = $1
	`
	var req models.LinkRequest
	err := p.db.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.FromUserID, &req.FromUserName, &req.FromUserEmail,
		&req.ToUserID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link request: %w", err)
	}
	return &req, nil
}

// SetLinkRequestStatus moves a link request to the given status.
func (p *Postgres) SetLinkRequestStatus(ctx context.Context, id string, status models.LinkRequestStatus) error {
	query := `UPDATE link_requests SET status = $1 WHERE id = $2`
	result, err := p.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update link request status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// HasPendingLinkRequest reports whether a pending request from one user
// to another already exists.
func (p *Postgres) HasPendingLinkRequest(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM link_requests
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'
		)
	`
	var exists bool
	if err := p.db.QueryRow(ctx, query, fromUserID, toUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending link request: %w", err)
	}
	return exists, nil
}
