package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"
	"lovenest-backend/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfile(t *testing.T, st store.Store, id, name, email string) {
	t.Helper()
	err := st.UpsertProfile(context.Background(), &models.UserProfile{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestCreateRequestWritesRequestAndNotification(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, "alice", req.FromUserID)
	assert.Equal(t, "Alice", req.FromUserName)
	assert.Equal(t, "alice@example.com", req.FromUserEmail)
	assert.Equal(t, "bob", req.ToUserID)
	assert.Equal(t, models.LinkRequestPending, req.Status)

	require.NotNil(t, notification)
	assert.Equal(t, "bob", notification.UserID)
	assert.Equal(t, models.NotificationLinkRequest, notification.Type)
	require.NotNil(t, notification.LinkRequestID)
	assert.Equal(t, req.ID, *notification.LinkRequestID)

	payload, ok := notification.Data.(models.LinkRequestPayload)
	require.True(t, ok)
	assert.Equal(t, "Alice", payload.FromUserName)

	stored, err := st.GetNotification(ctx, notification.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.UserID)
}

func TestCreateRequestUnknownEmail(t *testing.T) {
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	svc := NewPairingService(st)

	_, _, err := svc.CreateRequest(context.Background(), "alice", "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateRequestSelfLink(t *testing.T) {
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	svc := NewPairingService(st)

	_, _, err := svc.CreateRequest(context.Background(), "alice", "alice@example.com")
	require.ErrorIs(t, err, ErrSelfLink)
}

func TestCreateRequestAlreadyLinked(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	seedProfile(t, st, "carol", "Carol", "carol@example.com")
	require.NoError(t, st.SetPartner(ctx, "bob", "carol"))
	require.NoError(t, st.SetPartner(ctx, "carol", "bob"))
	svc := NewPairingService(st)

	// Target already linked.
	_, _, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.ErrorIs(t, err, ErrAlreadyLinked)

	// Requester already linked.
	_, _, err = svc.CreateRequest(ctx, "bob", "alice@example.com")
	require.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestCreateRequestDuplicatePending(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	_, _, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	_, _, err = svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestRespondAcceptLinksBothProfiles(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	accepted, err := svc.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestAccepted)
	require.NoError(t, err)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	bob, err := st.GetProfile(ctx, "bob")
	require.NoError(t, err)

	require.NotNil(t, alice.PartnerID)
	require.NotNil(t, bob.PartnerID)
	assert.Equal(t, "bob", *alice.PartnerID)
	assert.Equal(t, "alice", *bob.PartnerID)

	stored, err := st.GetLinkRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestAccepted, stored.Status)

	// The recipient's link_request notification is gone.
	_, err = st.GetNotification(ctx, notification.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The requester got a link_accepted notification.
	require.NotNil(t, accepted)
	assert.Equal(t, "alice", accepted.UserID)
	assert.Equal(t, models.NotificationLinkAccepted, accepted.Type)
	payload, ok := accepted.Data.(models.LinkAcceptedPayload)
	require.True(t, ok)
	assert.Equal(t, "bob", payload.PartnerID)
	assert.Equal(t, "Bob", payload.PartnerName)
}

func TestRespondDeclineLeavesProfilesUntouched(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	accepted, err := svc.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestDeclined)
	require.NoError(t, err)
	assert.Nil(t, accepted)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	bob, err := st.GetProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, alice.PartnerID)
	assert.Nil(t, bob.PartnerID)

	stored, err := st.GetLinkRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestDeclined, stored.Status)

	_, err = st.GetNotification(ctx, notification.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRespondTerminalRequest(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestDeclined)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestAccepted)
	require.ErrorIs(t, err, ErrRequestClosed)

	// The decline stuck.
	stored, err := st.GetLinkRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestDeclined, stored.Status)
}

func TestRespondInvalidDecision(t *testing.T) {
	svc := NewPairingService(memory.New())

	_, err := svc.Respond(context.Background(), "bob", "req", "notif", models.LinkRequestPending)
	require.ErrorIs(t, err, ErrInvalidDecision)

	_, err = svc.Respond(context.Background(), "bob", "req", "notif", models.LinkRequestStatus("bogus"))
	require.ErrorIs(t, err, ErrInvalidDecision)
}

// A user can hold several pending requests at once. Accepting one links
// the pair; accepting any other afterwards must fail and leave every
// profile exactly as the first accept left it.
func TestRespondSecondAcceptKeepsFirstLink(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	seedProfile(t, st, "carol", "Carol", "carol@example.com")
	svc := NewPairingService(st)

	bobReq, bobNotification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	carolReq, carolNotification, err := svc.CreateRequest(ctx, "alice", "carol@example.com")
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "bob", bobReq.ID, bobNotification.ID, models.LinkRequestAccepted)
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "carol", carolReq.ID, carolNotification.ID, models.LinkRequestAccepted)
	require.ErrorIs(t, err, ErrAlreadyLinked)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	bob, err := st.GetProfile(ctx, "bob")
	require.NoError(t, err)
	carol, err := st.GetProfile(ctx, "carol")
	require.NoError(t, err)

	require.NotNil(t, alice.PartnerID)
	require.NotNil(t, bob.PartnerID)
	assert.Equal(t, "bob", *alice.PartnerID)
	assert.Equal(t, "alice", *bob.PartnerID)
	assert.Nil(t, carol.PartnerID)

	// The failed accept rolled back whole: the request is still pending
	// and Carol keeps her notification.
	stored, err := st.GetLinkRequest(ctx, carolReq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestPending, stored.Status)
	_, err = st.GetNotification(ctx, carolNotification.ID)
	require.NoError(t, err)
}

func TestRespondOnlyRecipient(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	seedProfile(t, st, "carol", "Carol", "carol@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	// Neither the requester nor a bystander may answer for Bob.
	_, err = svc.Respond(ctx, "alice", req.ID, notification.ID, models.LinkRequestAccepted)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Respond(ctx, "carol", req.ID, notification.ID, models.LinkRequestAccepted)
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := st.GetLinkRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestPending, stored.Status)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, alice.PartnerID)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	_, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	require.ErrorIs(t, svc.MarkRead(ctx, "alice", notification.ID), ErrForbidden)

	list, err := svc.ListNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
}

func TestUnlinkClearsBothSides(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	req, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)
	_, err = svc.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestAccepted)
	require.NoError(t, err)

	partnerID, err := svc.Unlink(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", partnerID)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	bob, err := st.GetProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, alice.PartnerID)
	assert.Nil(t, bob.PartnerID)
}

func TestUnlinkWithoutPartner(t *testing.T) {
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	svc := NewPairingService(st)

	_, err := svc.Unlink(context.Background(), "alice")
	require.ErrorIs(t, err, ErrNotLinked)
}

// Reciprocity: after any sequence of accepted handshakes, every profile
// with a partner reference is pointed back at by that partner.
func TestLinkReciprocityAcrossPairs(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewPairingService(st)

	const pairs = 8
	for i := 0; i < pairs; i++ {
		a := fmt.Sprintf("user-%da", i)
		b := fmt.Sprintf("user-%db", i)
		seedProfile(t, st, a, a, a+"@example.com")
		seedProfile(t, st, b, b, b+"@example.com")

		req, notification, err := svc.CreateRequest(ctx, a, b+"@example.com")
		require.NoError(t, err)
		_, err = svc.Respond(ctx, b, req.ID, notification.ID, models.LinkRequestAccepted)
		require.NoError(t, err)
	}

	for i := 0; i < pairs; i++ {
		for _, id := range []string{fmt.Sprintf("user-%da", i), fmt.Sprintf("user-%db", i)} {
			p, err := st.GetProfile(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, p.PartnerID, "profile %s has no partner", id)

			partner, err := st.GetProfile(ctx, *p.PartnerID)
			require.NoError(t, err)
			require.NotNil(t, partner.PartnerID)
			assert.Equal(t, p.ID, *partner.PartnerID)
		}
	}
}

var errInjected = errors.New("injected failure")

// notificationFailStore fails every notification insert, to prove the
// surrounding transaction rolls back as a unit.
type notificationFailStore struct {
	store.Store
}

func (f *notificationFailStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	return errInjected
}

func (f *notificationFailStore) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	return f.Store.WithinTx(ctx, func(tx store.Store) error {
		return fn(&notificationFailStore{Store: tx})
	})
}

func TestCreateRequestRollsBackOnNotificationFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(&notificationFailStore{Store: st})

	_, _, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.ErrorIs(t, err, errInjected)

	// The link request insert preceded the failure but must not survive it.
	pending, err := st.HasPendingLinkRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, pending)

	notifications, err := st.ListNotifications(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestRespondRollsBackOnNotificationFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")

	req, notification, err := NewPairingService(st).CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	failing := NewPairingService(&notificationFailStore{Store: st})
	_, err = failing.Respond(ctx, "bob", req.ID, notification.ID, models.LinkRequestAccepted)
	require.ErrorIs(t, err, errInjected)

	// Nothing from the accept may be visible: status still pending, no
	// partner set on either side, notification still present.
	stored, err := st.GetLinkRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LinkRequestPending, stored.Status)

	alice, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	bob, err := st.GetProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, alice.PartnerID)
	assert.Nil(t, bob.PartnerID)

	_, err = st.GetNotification(ctx, notification.ID)
	require.NoError(t, err)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProfile(t, st, "alice", "Alice", "alice@example.com")
	seedProfile(t, st, "bob", "Bob", "bob@example.com")
	svc := NewPairingService(st)

	_, notification, err := svc.CreateRequest(ctx, "alice", "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, "bob", notification.ID))
	require.NoError(t, svc.MarkRead(ctx, "bob", notification.ID))

	list, err := svc.ListNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}
