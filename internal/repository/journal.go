package repository

import (
	"context"
	"fmt"

	"lovenest-backend/internal/models"
)

// InsertJournalEntry creates a journal entry row.
func (p *Postgres) InsertJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, title, excerpt, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := p.db.Exec(ctx, query, e.ID, e.UserID, e.Title, e.Excerpt, e.Date)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// ListJournalEntries returns entries authored by any of userIDs,
// newest-first by date.
func (p *Postgres) ListJournalEntries(ctx context.Context, userIDs []string) ([]models.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, excerpt, date
		FROM journal_entries
		WHERE user_id = ANY($1)
		ORDER BY date DESC
	`
	rows, err := p.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var out []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Excerpt, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return out, nil
}
