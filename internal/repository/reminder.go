package repository

import (
	"context"
	"fmt"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"
)

// InsertReminder creates a reminder row.
func (p *Postgres) InsertReminder(ctx context.Context, r *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, title, date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := p.db.Exec(ctx, query, r.ID, r.UserID, r.Title, r.Date)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// ListReminders returns reminders owned by any of userIDs, soonest
// first.
func (p *Postgres) ListReminders(ctx context.Context, userIDs []string) ([]models.Reminder, error) {
	query := `
		SELECT id, user_id, title, date
		FROM reminders
		WHERE user_id = ANY($1)
		ORDER BY date ASC
	`
	rows, err := p.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Date); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	return out, nil
}

// DeleteReminder removes a reminder row owned by userID.
func (p *Postgres) DeleteReminder(ctx context.Context, userID, id string) error {
	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2`
	result, err := p.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
