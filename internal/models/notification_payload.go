package models

import (
	"encoding/json"
	"fmt"
)

// NotificationPayload is the typed payload union for Notification.Data,
// keyed by Notification.Type.
type NotificationPayload interface {
	notificationPayload()
}

// LinkRequestPayload is carried by link_request notifications.
type LinkRequestPayload struct {
	FromUserName  string `json:"from_user_name"`
	FromUserEmail string `json:"from_user_email"`
}

func (LinkRequestPayload) notificationPayload() {}

// LinkAcceptedPayload is carried by link_accepted notifications.
type LinkAcceptedPayload struct {
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

func (LinkAcceptedPayload) notificationPayload() {}

// UnmarshalNotificationPayload decodes raw payload JSON into the variant
// matching the notification type.
func UnmarshalNotificationPayload(t NotificationType, raw []byte) (NotificationPayload, error) {
	switch t {
	case NotificationLinkRequest:
		var p LinkRequestPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode link_request payload: %w", err)
		}
		return p, nil
	case NotificationLinkAccepted:
		var p LinkAcceptedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode link_accepted payload: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown notification type %q", t)
	}
}
