package memory

import (
	"context"
	"sort"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"
)

// state ops: single-threaded, no locking. The wrappers below add it.

func (s *state) getProfile(id string) (*models.UserProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

func (s *state) findProfileByEmail(email string) (*models.UserProfile, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			out := cloneProfile(p)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *state) upsertProfile(p *models.UserProfile) error {
	existing, ok := s.profiles[p.ID]
	if !ok {
		s.profiles[p.ID] = cloneProfile(*p)
		return nil
	}
	// Merge semantics: zero-valued fields keep the stored value.
	if p.Name != "" {
		existing.Name = p.Name
	}
	if p.Email != "" {
		existing.Email = p.Email
	}
	if p.PhotoURL != "" {
		existing.PhotoURL = p.PhotoURL
	}
	if p.Anniversary != nil {
		existing.Anniversary = copyTimePtr(p.Anniversary)
	}
	if p.PartnerID != nil {
		existing.PartnerID = copyStringPtr(p.PartnerID)
	}
	if p.LastSeen != nil {
		existing.LastSeen = copyTimePtr(p.LastSeen)
	}
	s.profiles[p.ID] = existing
	return nil
}

func (s *state) setPartner(userID, partnerID string) error {
	p, ok := s.profiles[userID]
	if !ok {
		return store.ErrNotFound
	}
	if p.PartnerID != nil && *p.PartnerID != partnerID {
		return store.ErrConflict
	}
	p.PartnerID = &partnerID
	s.profiles[userID] = p
	return nil
}

func (s *state) clearPartner(userID string) error {
	p, ok := s.profiles[userID]
	if !ok {
		return store.ErrNotFound
	}
	p.PartnerID = nil
	s.profiles[userID] = p
	return nil
}

func (s *state) updateLastSeen(userID string, t time.Time) error {
	p, ok := s.profiles[userID]
	if !ok {
		return store.ErrNotFound
	}
	p.LastSeen = &t
	s.profiles[userID] = p
	return nil
}

func (s *state) insertLinkRequest(req *models.LinkRequest) error {
	s.requests[req.ID] = *req
	return nil
}

func (s *state) getLinkRequest(id string) (*models.LinkRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := r
	return &out, nil
}

func (s *state) setLinkRequestStatus(id string, status models.LinkRequestStatus) error {
	r, ok := s.requests[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	s.requests[id] = r
	return nil
}

func (s *state) hasPendingLinkRequest(fromUserID, toUserID string) (bool, error) {
	for _, r := range s.requests {
		if r.FromUserID == fromUserID && r.ToUserID == toUserID && r.Status == models.LinkRequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *state) insertNotification(n *models.Notification) error {
	s.notifications[n.ID] = cloneNotification(*n)
	return nil
}

func (s *state) getNotification(id string) (*models.Notification, error) {
	n, ok := s.notifications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneNotification(n)
	return &out, nil
}

func (s *state) deleteNotification(id string) error {
	if _, ok := s.notifications[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *state) listNotifications(userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *state) markNotificationRead(id string) error {
	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *state) ensureChannel(id string, participants []string) error {
	if _, ok := s.channels[id]; ok {
		return nil
	}
	s.channels[id] = models.Channel{
		ID:           id,
		Participants: append([]string(nil), participants...),
		CreatedAt:    time.Now(),
	}
	return nil
}

func (s *state) channelExists(id string) (bool, error) {
	_, ok := s.channels[id]
	return ok, nil
}

func (s *state) insertMessage(m *models.ChatMessage) error {
	if _, ok := s.channels[m.ChannelID]; !ok {
		return store.ErrNotFound
	}
	s.messages[m.ChannelID] = append(s.messages[m.ChannelID], *m)
	return nil
}

func (s *state) listMessages(channelID string) ([]models.ChatMessage, error) {
	out := append([]models.ChatMessage(nil), s.messages[channelID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *state) insertJournalEntry(e *models.JournalEntry) error {
	s.journal[e.ID] = *e
	return nil
}

func (s *state) listJournalEntries(userIDs []string) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range s.journal {
		if containsString(userIDs, e.UserID) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *state) insertPhoto(p *models.Photo) error {
	s.photos[p.ID] = clonePhoto(*p)
	return nil
}

func (s *state) listPhotos(userIDs []string) ([]models.Photo, error) {
	var out []models.Photo
	for _, p := range s.photos {
		if containsString(userIDs, p.UserID) {
			out = append(out, clonePhoto(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *state) insertReminder(r *models.Reminder) error {
	s.reminders[r.ID] = *r
	return nil
}

func (s *state) listReminders(userIDs []string) ([]models.Reminder, error) {
	var out []models.Reminder
	for _, r := range s.reminders {
		if containsString(userIDs, r.UserID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *state) deleteReminder(userID, id string) error {
	r, ok := s.reminders[id]
	if !ok || r.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.reminders, id)
	return nil
}

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

// Memory wrappers: read methods take the read lock, writes the write lock.

func (m *Memory) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.getProfile(id)
}

func (m *Memory) FindProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.findProfileByEmail(email)
}

func (m *Memory) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.upsertProfile(p)
}

func (m *Memory) SetPartner(ctx context.Context, userID, partnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.setPartner(userID, partnerID)
}

func (m *Memory) ClearPartner(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.clearPartner(userID)
}

func (m *Memory) UpdateLastSeen(ctx context.Context, userID string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateLastSeen(userID, t)
}

func (m *Memory) InsertLinkRequest(ctx context.Context, req *models.LinkRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertLinkRequest(req)
}

func (m *Memory) GetLinkRequest(ctx context.Context, id string) (*models.LinkRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.getLinkRequest(id)
}

func (m *Memory) SetLinkRequestStatus(ctx context.Context, id string, status models.LinkRequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.setLinkRequestStatus(id, status)
}

func (m *Memory) HasPendingLinkRequest(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.hasPendingLinkRequest(fromUserID, toUserID)
}

func (m *Memory) InsertNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertNotification(n)
}

func (m *Memory) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.getNotification(id)
}

func (m *Memory) DeleteNotification(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.deleteNotification(id)
}

func (m *Memory) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listNotifications(userID)
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.markNotificationRead(id)
}

func (m *Memory) EnsureChannel(ctx context.Context, id string, participants []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.ensureChannel(id, participants)
}

func (m *Memory) ChannelExists(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.channelExists(id)
}

func (m *Memory) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertMessage(msg)
}

func (m *Memory) ListMessages(ctx context.Context, channelID string) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listMessages(channelID)
}

func (m *Memory) InsertJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertJournalEntry(e)
}

func (m *Memory) ListJournalEntries(ctx context.Context, userIDs []string) ([]models.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listJournalEntries(userIDs)
}

func (m *Memory) InsertPhoto(ctx context.Context, p *models.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertPhoto(p)
}

func (m *Memory) ListPhotos(ctx context.Context, userIDs []string) ([]models.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listPhotos(userIDs)
}

func (m *Memory) InsertReminder(ctx context.Context, r *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.insertReminder(r)
}

func (m *Memory) ListReminders(ctx context.Context, userIDs []string) ([]models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listReminders(userIDs)
}

func (m *Memory) DeleteReminder(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.deleteReminder(userID, id)
}

// txStore wrappers: no locking, the parent transaction holds the lock.

func (t *txStore) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	return t.st.getProfile(id)
}

func (t *txStore) FindProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return t.st.findProfileByEmail(email)
}

func (t *txStore) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	return t.st.upsertProfile(p)
}

func (t *txStore) SetPartner(ctx context.Context, userID, partnerID string) error {
	return t.st.setPartner(userID, partnerID)
}

func (t *txStore) ClearPartner(ctx context.Context, userID string) error {
	return t.st.clearPartner(userID)
}

func (t *txStore) UpdateLastSeen(ctx context.Context, userID string, ts time.Time) error {
	return t.st.updateLastSeen(userID, ts)
}

func (t *txStore) InsertLinkRequest(ctx context.Context, req *models.LinkRequest) error {
	return t.st.insertLinkRequest(req)
}

func (t *txStore) GetLinkRequest(ctx context.Context, id string) (*models.LinkRequest, error) {
	return t.st.getLinkRequest(id)
}

func (t *txStore) SetLinkRequestStatus(ctx context.Context, id string, status models.LinkRequestStatus) error {
	return t.st.setLinkRequestStatus(id, status)
}

func (t *txStore) HasPendingLinkRequest(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	return t.st.hasPendingLinkRequest(fromUserID, toUserID)
}

func (t *txStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	return t.st.insertNotification(n)
}

func (t *txStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	return t.st.getNotification(id)
}

func (t *txStore) DeleteNotification(ctx context.Context, id string) error {
	return t.st.deleteNotification(id)
}

func (t *txStore) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return t.st.listNotifications(userID)
}

func (t *txStore) MarkNotificationRead(ctx context.Context, id string) error {
	return t.st.markNotificationRead(id)
}

func (t *txStore) EnsureChannel(ctx context.Context, id string, participants []string) error {
	return t.st.ensureChannel(id, participants)
}

func (t *txStore) ChannelExists(ctx context.Context, id string) (bool, error) {
	return t.st.channelExists(id)
}

func (t *txStore) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	return t.st.insertMessage(msg)
}

func (t *txStore) ListMessages(ctx context.Context, channelID string) ([]models.ChatMessage, error) {
	return t.st.listMessages(channelID)
}

func (t *txStore) InsertJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	return t.st.insertJournalEntry(e)
}

func (t *txStore) ListJournalEntries(ctx context.Context, userIDs []string) ([]models.JournalEntry, error) {
	return t.st.listJournalEntries(userIDs)
}

func (t *txStore) InsertPhoto(ctx context.Context, p *models.Photo) error {
	return t.st.insertPhoto(p)
}

func (t *txStore) ListPhotos(ctx context.Context, userIDs []string) ([]models.Photo, error) {
	return t.st.listPhotos(userIDs)
}

func (t *txStore) InsertReminder(ctx context.Context, r *models.Reminder) error {
	return t.st.insertReminder(r)
}

func (t *txStore) ListReminders(ctx context.Context, userIDs []string) ([]models.Reminder, error) {
	return t.st.listReminders(userIDs)
}

func (t *txStore) DeleteReminder(ctx context.Context, userID, id string) error {
	return t.st.deleteReminder(userID, id)
}
