// Package memory provides an in-process store.Store used by tests and
// local development. Transactions stage mutations on a deep copy of the
// state and swap it in on success, so a failed transaction leaves the
// store exactly as it was.
package memory

import (
	"context"
	"sync"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"
)

// Memory is a concurrency-safe in-memory store.
type Memory struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{st: newState()}
}

type state struct {
	profiles      map[string]models.UserProfile
	requests      map[string]models.LinkRequest
	notifications map[string]models.Notification
	channels      map[string]models.Channel
	messages      map[string][]models.ChatMessage
	journal       map[string]models.JournalEntry
	photos        map[string]models.Photo
	reminders     map[string]models.Reminder
}

func newState() *state {
	return &state{
		profiles:      make(map[string]models.UserProfile),
		requests:      make(map[string]models.LinkRequest),
		notifications: make(map[string]models.Notification),
		channels:      make(map[string]models.Channel),
		messages:      make(map[string][]models.ChatMessage),
		journal:       make(map[string]models.JournalEntry),
		photos:        make(map[string]models.Photo),
		reminders:     make(map[string]models.Reminder),
	}
}

func (s *state) clone() *state {
	next := newState()
	for k, v := range s.profiles {
		next.profiles[k] = cloneProfile(v)
	}
	for k, v := range s.requests {
		next.requests[k] = v
	}
	for k, v := range s.notifications {
		next.notifications[k] = cloneNotification(v)
	}
	for k, v := range s.channels {
		c := v
		c.Participants = append([]string(nil), v.Participants...)
		next.channels[k] = c
	}
	for k, v := range s.messages {
		next.messages[k] = append([]models.ChatMessage(nil), v...)
	}
	for k, v := range s.journal {
		next.journal[k] = v
	}
	for k, v := range s.photos {
		next.photos[k] = clonePhoto(v)
	}
	for k, v := range s.reminders {
		next.reminders[k] = v
	}
	return next
}

func cloneProfile(p models.UserProfile) models.UserProfile {
	p.Anniversary = copyTimePtr(p.Anniversary)
	p.PartnerID = copyStringPtr(p.PartnerID)
	p.LastSeen = copyTimePtr(p.LastSeen)
	return p
}

func cloneNotification(n models.Notification) models.Notification {
	n.LinkRequestID = copyStringPtr(n.LinkRequestID)
	return n
}

func clonePhoto(p models.Photo) models.Photo {
	p.PartnerID = copyStringPtr(p.PartnerID)
	return p
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// WithinTx stages fn's mutations on a cloned state and commits the
// clone only if fn returns nil. The store lock is held for the whole
// transaction, so transactions serialize.
func (m *Memory) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.st.clone()
	if err := fn(&txStore{st: next}); err != nil {
		return err
	}
	m.st = next
	return nil
}

// txStore is a Store bound to a staged state. It does no locking: the
// parent Memory holds its lock for the duration of the transaction.
type txStore struct {
	st *state
}

// WithinTx on an already-transactional store just runs fn in place.
func (t *txStore) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(t)
}
