package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// channelIDSeparator joins the sorted participant ids into a channel id.
const channelIDSeparator = "_"

// ChannelService derives canonical chat channel identities and serves
// the append-only, live-updating message feed over them.
type ChannelService struct {
	store  store.Store
	broker Broker
}

// NewChannelService creates a new channel service.
func NewChannelService(st store.Store, broker Broker) *ChannelService {
	return &ChannelService{store: st, broker: broker}
}

// ChannelID derives the canonical channel id for two users: the pair
// sorted, then joined. Pure and order-independent, so both participants
// always address the same channel.
func ChannelID(userIDA, userIDB string) string {
	ids := []string{userIDA, userIDB}
	sort.Strings(ids)
	return strings.Join(ids, channelIDSeparator)
}

// GetOrCreateChannel returns the canonical channel id for the pair,
// creating the channel record if absent. Idempotent: concurrent callers
// racing to create converge on a single record.
func (s *ChannelService) GetOrCreateChannel(ctx context.Context, userIDA, userIDB string) (string, error) {
	id := ChannelID(userIDA, userIDB)
	if err := s.store.EnsureChannel(ctx, id, []string{userIDA, userIDB}); err != nil {
		return "", err
	}
	return id, nil
}

// PostMessage appends a message to the channel and signals the feed.
// Messages are never edited or deleted.
func (s *ChannelService) PostMessage(ctx context.Context, channelID, senderID, text string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		ChannelID: channelID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.store.UpdateLastSeen(ctx, senderID, msg.CreatedAt); err != nil {
		log.Warn().Err(err).Str("user_id", senderID).Msg("Failed to update last_seen")
	}
	if err := s.broker.Publish(ctx, channelID); err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("Failed to publish feed signal")
	}
	return msg, nil
}

// ListMessages returns the channel's full feed, created_at ascending.
func (s *ChannelService) ListMessages(ctx context.Context, channelID string) ([]models.ChatMessage, error) {
	return s.store.ListMessages(ctx, channelID)
}

// Subscribe opens a live subscription to the channel's ordered message
// feed. fn is invoked with the complete ascending sequence immediately
// and again after every change, from a dedicated goroutine, until the
// returned unsubscribe func is called or ctx is done. Callers must
// unsubscribe when finished; the broker holds a listener per
// subscription otherwise.
func (s *ChannelService) Subscribe(ctx context.Context, channelID string, fn func([]models.ChatMessage)) (func(), error) {
	signals, cancel := s.broker.Subscribe(channelID)

	msgs, err := s.store.ListMessages(ctx, channelID)
	if err != nil {
		cancel()
		return nil, err
	}
	fn(msgs)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				msgs, err := s.store.ListMessages(ctx, channelID)
				if err != nil {
					log.Warn().Err(err).Str("channel_id", channelID).Msg("Failed to reload message feed")
					continue
				}
				fn(msgs)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
	return unsubscribe, nil
}
