package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lovenest-backend/internal/models"
	"lovenest-backend/internal/store"

	"github.com/google/uuid"
)

// PairingService mediates the two-party handshake that establishes the
// partner link, and the notifications it generates. All multi-record
// mutations go through the store's transaction primitive; a state where
// a request exists without its notification (or one profile is linked
// but not the other) is never observable.
type PairingService struct {
	store store.Store
}

// NewPairingService creates a new pairing service.
func NewPairingService(st store.Store) *PairingService {
	return &PairingService{store: st}
}

// CreateRequest resolves the target account by email and atomically
// writes a pending link request plus a link_request notification for
// the recipient. Both records are returned so callers can push the
// notification to a connected recipient.
//
// Fails with store.ErrNotFound when no account matches the email,
// ErrSelfLink when the target is the requester, ErrAlreadyLinked when
// either party already has a partner, and ErrDuplicateRequest when a
// pending request for the same pair exists.
func (s *PairingService) CreateRequest(ctx context.Context, fromUserID, toEmail string) (*models.LinkRequest, *models.Notification, error) {
	var (
		req          *models.LinkRequest
		notification *models.Notification
	)

	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		from, err := tx.GetProfile(ctx, fromUserID)
		if err != nil {
			return fmt.Errorf("failed to load requester profile: %w", err)
		}
		to, err := tx.FindProfileByEmail(ctx, toEmail)
		if err != nil {
			return err
		}
		if to.ID == from.ID {
			return ErrSelfLink
		}
		if from.PartnerID != nil || to.PartnerID != nil {
			return ErrAlreadyLinked
		}
		pending, err := tx.HasPendingLinkRequest(ctx, from.ID, to.ID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		now := time.Now()
		req = &models.LinkRequest{
			ID:            uuid.New().String(),
			FromUserID:    from.ID,
			FromUserName:  from.Name,
			FromUserEmail: from.Email,
			ToUserID:      to.ID,
			Status:        models.LinkRequestPending,
			CreatedAt:     now,
		}
		if err := tx.InsertLinkRequest(ctx, req); err != nil {
			return err
		}

		notification = &models.Notification{
			ID:     uuid.New().String(),
			UserID: to.ID,
			Type:   models.NotificationLinkRequest,
			Data: models.LinkRequestPayload{
				FromUserName:  from.Name,
				FromUserEmail: from.Email,
			},
			LinkRequestID: &req.ID,
			CreatedAt:     now,
		}
		return tx.InsertNotification(ctx, notification)
	})
	if err != nil {
		return nil, nil, err
	}
	return req, notification, nil
}

// Respond applies the recipient's decision to a pending link request.
// Only the request's recipient may respond; anyone else gets
// ErrForbidden.
//
// On accept, one transaction moves the request to accepted, points both
// profiles' partner references at each other, deletes the recipient's
// link_request notification and writes a link_accepted notification for
// the requester. The transaction re-checks that both parties are still
// unlinked: two pending requests involving the same user can both reach
// here, and the second accept must fail with ErrAlreadyLinked instead
// of overwriting one side of an established link. On decline, the
// request moves to declined and the notification is deleted; no profile
// is touched. Terminal requests fail with ErrRequestClosed. On accept,
// the link_accepted notification written for the requester is returned;
// nil on decline.
func (s *PairingService) Respond(ctx context.Context, userID, linkRequestID, notificationID string, decision models.LinkRequestStatus) (*models.Notification, error) {
	if decision != models.LinkRequestAccepted && decision != models.LinkRequestDeclined {
		return nil, ErrInvalidDecision
	}

	var accepted *models.Notification
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		req, err := tx.GetLinkRequest(ctx, linkRequestID)
		if err != nil {
			return err
		}
		if req.ToUserID != userID {
			return ErrForbidden
		}
		if req.Status != models.LinkRequestPending {
			return ErrRequestClosed
		}

		if err := tx.SetLinkRequestStatus(ctx, req.ID, decision); err != nil {
			return err
		}

		if decision == models.LinkRequestAccepted {
			requester, err := tx.GetProfile(ctx, req.FromUserID)
			if err != nil {
				return fmt.Errorf("failed to load requester profile: %w", err)
			}
			recipient, err := tx.GetProfile(ctx, req.ToUserID)
			if err != nil {
				return fmt.Errorf("failed to load recipient profile: %w", err)
			}
			if requester.PartnerID != nil || recipient.PartnerID != nil {
				return ErrAlreadyLinked
			}

			if err := tx.SetPartner(ctx, req.FromUserID, req.ToUserID); err != nil {
				return err
			}
			if err := tx.SetPartner(ctx, req.ToUserID, req.FromUserID); err != nil {
				return err
			}

			accepted = &models.Notification{
				ID:     uuid.New().String(),
				UserID: req.FromUserID,
				Type:   models.NotificationLinkAccepted,
				Data: models.LinkAcceptedPayload{
					PartnerID:   recipient.ID,
					PartnerName: recipient.Name,
				},
				CreatedAt: time.Now(),
			}
			if err := tx.InsertNotification(ctx, accepted); err != nil {
				return err
			}
		}

		return tx.DeleteNotification(ctx, notificationID)
	})
	if err != nil {
		// A lost SetPartner race surfaces as a store conflict; to the
		// caller it is the same condition as the in-transaction check.
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyLinked
		}
		return nil, err
	}
	return accepted, nil
}

// ListNotifications returns the user's notifications newest-first.
func (s *PairingService) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead marks one of the user's notifications as read. Idempotent;
// notifications belonging to someone else get ErrForbidden.
func (s *PairingService) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return s.store.MarkNotificationRead(ctx, notificationID)
}

// Unlink atomically clears the partner reference on both sides of an
// established link and returns the former partner's id.
func (s *PairingService) Unlink(ctx context.Context, userID string) (string, error) {
	var partnerID string
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		profile, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if profile.PartnerID == nil {
			return ErrNotLinked
		}
		partnerID = *profile.PartnerID
		if err := tx.ClearPartner(ctx, userID); err != nil {
			return err
		}
		return tx.ClearPartner(ctx, partnerID)
	})
	if err != nil {
		return "", err
	}
	return partnerID, nil
}
