package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/jackc/pgx/v5"
)

// InsertNotification creates a notification row. The typed payload is
// stored as JSONB keyed by the notification type.
func (p *Postgres) InsertNotification(ctx context.Context, n *models.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}
	query := `
		INSERT INTO notifications (id, user_id, type, data, is_read, link_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = p.db.Exec(ctx, query,
		n.ID, n.UserID, n.Type, data, n.IsRead, n.LinkRequestID, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// GetNotification retrieves a notification by ID.
func (p *Postgres) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	query := `
		SELECT id, user_id, type, data, is_read, link_request_id, created_at
		FROM notifications
		WHERE id = $1
	`
	n, err := scanNotification(p.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return n, nil
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var (
		n   models.Notification
		raw []byte
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &raw, &n.IsRead, &n.LinkRequestID, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	n.Data, err = models.UnmarshalNotificationPayload(n.Type, raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNotification removes a notification row.
func (p *Postgres) DeleteNotification(ctx context.Context, id string) error {
	query := `DELETE FROM notifications WHERE id = $1`
	result, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListNotifications returns a user's notifications newest-first. The
// sort order is part of the contract, so it lives in the query rather
// than in application code.
func (p *Postgres) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, data, is_read, link_request_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead sets is_read. Idempotent.
func (p *Postgres) MarkNotificationRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	result, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
