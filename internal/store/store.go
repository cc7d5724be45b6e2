// Package store defines the document-store contract the services are
// written against: keyed reads, filtered list queries with a declared
// sort order, and an atomic multi-record transaction primitive.
package store

import (
	"context"
	"errors"
	"time"

	"lovenest-backend/internal/models"
)

// ErrNotFound is returned when a keyed lookup resolves no record.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a guarded mutation loses to state already
// committed, such as linking a profile that has a partner.
var ErrConflict = errors.New("record conflict")

// Store is implemented by the Postgres repository and by the in-memory
// store used in tests. All list methods return records in the order
// stated on the method; callers must not re-sort.
type Store interface {
	// Profiles.
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
	FindProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	// UpsertProfile creates the profile or merges the given fields into
	// an existing one.
	UpsertProfile(ctx context.Context, p *models.UserProfile) error
	// SetPartner points the user's partner reference at partnerID. Fails
	// with ErrConflict when the user is already linked to someone else,
	// so a lost race can never overwrite an established link.
	SetPartner(ctx context.Context, userID, partnerID string) error
	// ClearPartner removes the partner reference entirely (the store's
	// field-deletion sentinel, NULL in Postgres).
	ClearPartner(ctx context.Context, userID string) error
	UpdateLastSeen(ctx context.Context, userID string, t time.Time) error

	// Link requests.
	InsertLinkRequest(ctx context.Context, req *models.LinkRequest) error
	GetLinkRequest(ctx context.Context, id string) (*models.LinkRequest, error)
	SetLinkRequestStatus(ctx context.Context, id string, status models.LinkRequestStatus) error
	HasPendingLinkRequest(ctx context.Context, fromUserID, toUserID string) (bool, error)

	// Notifications.
	InsertNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
	// ListNotifications returns the user's notifications newest-first.
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// Chat channels and messages.
	// EnsureChannel creates the channel if absent; concurrent callers
	// racing on the same id must converge on a single record.
	EnsureChannel(ctx context.Context, id string, participants []string) error
	ChannelExists(ctx context.Context, id string) (bool, error)
	InsertMessage(ctx context.Context, m *models.ChatMessage) error
	// ListMessages returns the channel's messages by created_at ascending.
	ListMessages(ctx context.Context, channelID string) ([]models.ChatMessage, error)

	// Journal.
	InsertJournalEntry(ctx context.Context, e *models.JournalEntry) error
	// ListJournalEntries returns entries authored by any of userIDs,
	// newest-first by date.
	ListJournalEntries(ctx context.Context, userIDs []string) ([]models.JournalEntry, error)

	// Gallery.
	InsertPhoto(ctx context.Context, p *models.Photo) error
	// ListPhotos returns photos owned by any of userIDs, newest-first.
	ListPhotos(ctx context.Context, userIDs []string) ([]models.Photo, error)

	// Reminders.
	InsertReminder(ctx context.Context, r *models.Reminder) error
	// ListReminders returns reminders owned by any of userIDs, date ascending.
	ListReminders(ctx context.Context, userIDs []string) ([]models.Reminder, error)
	// DeleteReminder removes the reminder only if userID owns it.
	DeleteReminder(ctx context.Context, userID, id string) error

	// WithinTx runs fn against a Store bound to a single atomic
	// transaction. Either every mutation inside fn commits, or none do;
	// readers never observe a half-applied state. fn must not retain the
	// transactional Store after returning.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
