package services

import (
	"context"
	"sync"
)

// Broker fans out change signals for chat channels. A signal carries no
// payload; subscribers reload the feed from the store, so a missed or
// coalesced signal never loses data.
type Broker interface {
	// Publish signals that the channel's feed changed.
	Publish(ctx context.Context, channelID string) error
	// Subscribe returns a signal channel for the given chat channel and
	// a cancel func that releases the subscription.
	Subscribe(channelID string) (<-chan struct{}, func())
}

// LocalBroker is an in-process Broker for single-instance deployments
// and tests.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

// NewLocalBroker creates an in-process broker.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[chan struct{}]struct{})}
}

// Publish signals every subscriber of the channel. Sends never block:
// a subscriber that has not drained its previous signal keeps the one
// already buffered.
func (b *LocalBroker) Publish(ctx context.Context, channelID string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[channelID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber for the channel.
func (b *LocalBroker) Subscribe(channelID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[channelID] == nil {
		b.subs[channelID] = make(map[chan struct{}]struct{})
	}
	b.subs[channelID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channelID], ch)
			if len(b.subs[channelID]) == 0 {
				delete(b.subs, channelID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
