package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTxCommit(t *testing.T) {
	ctx := context.Background()
	m := New()

	err := m.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.UpsertProfile(ctx, &models.UserProfile{ID: "alice", Name: "Alice"}); err != nil {
			return err
		}
		return tx.UpsertProfile(ctx, &models.UserProfile{ID: "bob", Name: "Bob"})
	})
	require.NoError(t, err)

	alice, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)
	_, err = m.GetProfile(ctx, "bob")
	require.NoError(t, err)
}

func TestWithinTxRollback(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.UpsertProfile(ctx, &models.UserProfile{ID: "alice", Name: "Alice"}))

	boom := errors.New("boom")
	err := m.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.SetPartner(ctx, "alice", "bob"); err != nil {
			return err
		}
		if err := tx.InsertNotification(ctx, &models.Notification{ID: "n1", UserID: "alice"}); err != nil {
			return err
		}

		// Mutations are already visible inside the transaction.
		p, err := tx.GetProfile(ctx, "alice")
		if err != nil {
			return err
		}
		if p.PartnerID == nil {
			return errors.New("expected staged partner inside tx")
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// None of it survived.
	alice, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, alice.PartnerID)
	_, err = m.GetNotification(ctx, "n1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithinTxInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	m := New()

	err := m.WithinTx(ctx, func(tx store.Store) error {
		return tx.UpsertProfile(ctx, &models.UserProfile{ID: "alice"})
	})
	require.NoError(t, err)

	// Nested WithinTx on a transactional store runs in place.
	err = m.WithinTx(ctx, func(tx store.Store) error {
		return tx.WithinTx(ctx, func(inner store.Store) error {
			return inner.SetPartner(ctx, "alice", "bob")
		})
	})
	require.NoError(t, err)

	alice, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice.PartnerID)
	assert.Equal(t, "bob", *alice.PartnerID)
}

func TestUpsertProfileMergesFields(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.UpsertProfile(ctx, &models.UserProfile{
		ID:       "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		PhotoURL: "https://img.example.com/a.png",
	}))

	// Zero-valued fields keep the stored value.
	require.NoError(t, m.UpsertProfile(ctx, &models.UserProfile{ID: "alice", Name: "Alice B."}))

	alice, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", alice.Name)
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "https://img.example.com/a.png", alice.PhotoURL)
}

func TestSetPartnerGuardsEstablishedLink(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.UpsertProfile(ctx, &models.UserProfile{ID: "alice"}))
	require.NoError(t, m.SetPartner(ctx, "alice", "bob"))

	// Re-setting the same partner is a no-op, a different one is refused.
	require.NoError(t, m.SetPartner(ctx, "alice", "bob"))
	require.ErrorIs(t, m.SetPartner(ctx, "alice", "carol"), store.ErrConflict)

	alice, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice.PartnerID)
	assert.Equal(t, "bob", *alice.PartnerID)

	require.NoError(t, m.ClearPartner(ctx, "alice"))
	require.NoError(t, m.SetPartner(ctx, "alice", "carol"))
}

func TestEnsureChannelIdempotent(t *testing.T) {
	ctx := context.Background()
	m := New()

	require.NoError(t, m.EnsureChannel(ctx, "a_b", []string{"a", "b"}))
	require.NoError(t, m.EnsureChannel(ctx, "a_b", []string{"b", "a"}))

	exists, err := m.ChannelExists(ctx, "a_b")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.InsertMessage(ctx, &models.ChatMessage{
		ID: "m1", ChannelID: "a_b", SenderID: "a", Text: "hi", CreatedAt: time.Now(),
	}))
	msgs, err := m.ListMessages(ctx, "a_b")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestKeyedLookupsReturnNotFound(t *testing.T) {
	ctx := context.Background()
	m := New()

	_, err := m.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.FindProfileByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.GetLinkRequest(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = m.GetNotification(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteNotification(ctx, "ghost"), store.ErrNotFound)
	assert.ErrorIs(t, m.SetPartner(ctx, "ghost", "x"), store.ErrNotFound)
	assert.ErrorIs(t, m.DeleteReminder(ctx, "ghost", "ghost"), store.ErrNotFound)
	assert.ErrorIs(t, m.InsertMessage(ctx, &models.ChatMessage{ChannelID: "ghost"}), store.ErrNotFound)
}

func TestListMessagesOrderedAscending(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.EnsureChannel(ctx, "a_b", []string{"a", "b"}))

	base := time.Now()
	// Inserted out of order on purpose.
	for _, msg := range []struct {
		id     string
		offset time.Duration
	}{
		{"m3", 2 * time.Second},
		{"m1", 0},
		{"m2", time.Second},
	} {
		require.NoError(t, m.InsertMessage(ctx, &models.ChatMessage{
			ID:        msg.id,
			ChannelID: "a_b",
			SenderID:  "a",
			Text:      msg.id,
			CreatedAt: base.Add(msg.offset),
		}))
	}

	msgs, err := m.ListMessages(ctx, "a_b")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, "m3", msgs[2].ID)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	m := New()
	partner := "bob"
	require.NoError(t, m.UpsertProfile(ctx, &models.UserProfile{ID: "alice", PartnerID: &partner}))

	p, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	*p.PartnerID = "mallory"
	p.Name = "Mallory"

	again, err := m.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, again.PartnerID)
	assert.Equal(t, "bob", *again.PartnerID)
	assert.Empty(t, again.Name)
}
