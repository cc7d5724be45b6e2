package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// feedChannel is the Redis pub/sub channel carrying chat channel ids.
const feedChannel = "lovenest:feed"

// RedisBroker fans chat feed signals out across service instances via
// Redis pub/sub. Local delivery also goes through Redis, so every
// instance, publisher included, sees the same signal stream.
type RedisBroker struct {
	rdb    *redis.Client
	local  *LocalBroker
	pubsub *redis.PubSub
}

// NewRedisBroker connects the broker to Redis and starts the fan-out
// loop. Close releases the subscription.
func NewRedisBroker(ctx context.Context, rdb *redis.Client) (*RedisBroker, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	b := &RedisBroker{
		rdb:    rdb,
		local:  NewLocalBroker(),
		pubsub: rdb.Subscribe(ctx, feedChannel),
	}
	go b.run(ctx)
	return b, nil
}

func (b *RedisBroker) run(ctx context.Context) {
	for msg := range b.pubsub.Channel() {
		if err := b.local.Publish(ctx, msg.Payload); err != nil {
			log.Warn().Err(err).Str("channel_id", msg.Payload).Msg("Failed to fan out feed signal")
		}
	}
}

// Publish pushes the channel id through Redis; the run loop on each
// instance turns it into local signals.
func (b *RedisBroker) Publish(ctx context.Context, channelID string) error {
	if err := b.rdb.Publish(ctx, feedChannel, channelID).Err(); err != nil {
		return fmt.Errorf("failed to publish feed signal: %w", err)
	}
	return nil
}

// Subscribe registers a local subscriber for the channel.
func (b *RedisBroker) Subscribe(channelID string) (<-chan struct{}, func()) {
	return b.local.Subscribe(channelID)
}

// Close tears down the Redis subscription, ending the fan-out loop.
func (b *RedisBroker) Close() error {
	return b.pubsub.Close()
}
