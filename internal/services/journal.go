package services

import (
	"context"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/google/uuid"
)

// JournalService handles the shared journal both partners write to.
type JournalService struct {
	store store.Store
}

// NewJournalService creates a new journal service.
func NewJournalService(st store.Store) *JournalService {
	return &JournalService{store: st}
}

// AddEntry creates a journal entry authored by userID.
func (s *JournalService) AddEntry(ctx context.Context, userID, title, excerpt string, date time.Time) (*models.JournalEntry, error) {
	if date.IsZero() {
		date = time.Now()
	}
	entry := &models.JournalEntry{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Excerpt: excerpt,
		Date:    date,
	}
	if err := s.store.InsertJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns the user's and their partner's entries, newest
// first, with author name and photo filled in.
func (s *JournalService) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	userIDs := []string{userID}
	if profile.PartnerID != nil {
		userIDs = append(userIDs, *profile.PartnerID)
	}

	entries, err := s.store.ListJournalEntries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	authors := map[string]*models.UserProfile{profile.ID: profile}
	for i := range entries {
		author, ok := authors[entries[i].UserID]
		if !ok {
			author, err = s.store.GetProfile(ctx, entries[i].UserID)
			if err != nil {
				continue
			}
			authors[author.ID] = author
		}
		entries[i].UserName = author.Name
		entries[i].UserPhotoURL = author.PhotoURL
	}
	return entries, nil
}
