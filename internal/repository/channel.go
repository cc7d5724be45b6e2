package repository

import (
	"context"
	"fmt"
	"time"

	"lovenest-backend/internal/models"
)

// EnsureChannel creates the channel row if it does not exist. ON
// CONFLICT DO NOTHING makes concurrent create races converge on the
// first writer's row.
func (p *Postgres) EnsureChannel(ctx context.Context, id string, participants []string) error {
	query := `
		INSERT INTO channels (id, participants, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := p.db.Exec(ctx, query, id, participants, time.Now())
	if err != nil {
		return fmt.Errorf("failed to ensure channel: %w", err)
	}
	return nil
}

// ChannelExists reports whether a channel row exists.
func (p *Postgres) ChannelExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM channels WHERE id = $1)`
	var exists bool
	if err := p.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check channel existence: %w", err)
	}
	return exists, nil
}

// InsertMessage appends a chat message to its channel.
func (p *Postgres) InsertMessage(ctx context.Context, m *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, channel_id, sender_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := p.db.Exec(ctx, query, m.ID, m.ChannelID, m.SenderID, m.Text, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// ListMessages returns a channel's messages by created_at ascending,
// the feed's declared order.
func (p *Postgres) ListMessages(ctx context.Context, channelID string) ([]models.ChatMessage, error) {
	query := `
		SELECT id, channel_id, sender_id, text, created_at
		FROM chat_messages
		WHERE channel_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := p.db.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}
	return out, nil
}
