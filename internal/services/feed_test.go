package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvSignal(t *testing.T, ch <-chan struct{}) bool {
	t.Helper()
	select {
	case _, ok := <-ch:
		return ok
	case <-time.After(time.Second):
		return false
	}
}

func TestLocalBrokerDeliversToSubscribers(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBroker()

	ch1, cancel1 := b.Subscribe("chan-a")
	defer cancel1()
	ch2, cancel2 := b.Subscribe("chan-a")
	defer cancel2()
	other, cancelOther := b.Subscribe("chan-b")
	defer cancelOther()

	require.NoError(t, b.Publish(ctx, "chan-a"))

	assert.True(t, recvSignal(t, ch1))
	assert.True(t, recvSignal(t, ch2))

	select {
	case <-other:
		t.Fatal("signal leaked to another channel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalBrokerPublishNeverBlocks(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBroker()

	ch, cancel := b.Subscribe("chan-a")
	defer cancel()

	// A slow subscriber coalesces repeated signals into the one buffered.
	for i := 0; i < 10; i++ {
		require.NoError(t, b.Publish(ctx, "chan-a"))
	}
	assert.True(t, recvSignal(t, ch))
}

func TestLocalBrokerCancel(t *testing.T) {
	ctx := context.Background()
	b := NewLocalBroker()

	ch, cancel := b.Subscribe("chan-a")
	cancel()
	cancel() // idempotent

	require.NoError(t, b.Publish(ctx, "chan-a"))

	// The channel is closed, not signaled.
	_, ok := <-ch
	assert.False(t, ok)
}

func TestLocalBrokerPublishWithoutSubscribers(t *testing.T) {
	require.NoError(t, NewLocalBroker().Publish(context.Background(), "nobody-home"))
}
