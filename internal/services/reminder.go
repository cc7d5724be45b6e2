package services

import (
	"context"
	"sort"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/google/uuid"
)

// ReminderService handles shared reminders. The profile anniversary
// shows up in listings as a synthetic reminder; it is never stored.
type ReminderService struct {
	store store.Store
}

// NewReminderService creates a new reminder service.
func NewReminderService(st store.Store) *ReminderService {
	return &ReminderService{store: st}
}

// AddReminder creates a reminder owned by userID.
func (s *ReminderService) AddReminder(ctx context.Context, userID, title string, date time.Time) (*models.Reminder, error) {
	reminder := &models.Reminder{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
		Date:   date,
	}
	if err := s.store.InsertReminder(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// DeleteReminder removes one of the user's reminders.
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, id string) error {
	return s.store.DeleteReminder(ctx, userID, id)
}

// ListReminders returns the user's and their partner's reminders, date
// ascending, with the next anniversary occurrence merged in when the
// profile has one.
func (s *ReminderService) ListReminders(ctx context.Context, userID string) ([]models.Reminder, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	userIDs := []string{userID}
	if profile.PartnerID != nil {
		userIDs = append(userIDs, *profile.PartnerID)
	}

	reminders, err := s.store.ListReminders(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	if profile.Anniversary != nil {
		next, _ := NextAnniversary(*profile.Anniversary, time.Now())
		reminders = append(reminders, models.Reminder{
			ID:            "anniversary-" + profile.ID,
			UserID:        profile.ID,
			Title:         "Anniversary",
			Date:          next,
			IsAnniversary: true,
		})
		sort.Slice(reminders, func(i, j int) bool { return reminders[i].Date.Before(reminders[j].Date) })
	}
	return reminders, nil
}
