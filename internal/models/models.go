package models

import "time"

// UserProfile represents a user account's profile document.
// PartnerID, when set, must reciprocally point back from the partner's
// own profile (the link-acceptance transaction maintains this).
type UserProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photo_url"`
	Anniversary *time.Time `json:"anniversary,omitempty"`
	PartnerID   *string    `json:"partner_id,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LinkRequestStatus is the lifecycle state of a link request.
// pending -> accepted | declined; terminal states have no way out.
type LinkRequestStatus string

const (
	LinkRequestPending  LinkRequestStatus = "pending"
	LinkRequestAccepted LinkRequestStatus = "accepted"
	LinkRequestDeclined LinkRequestStatus = "declined"
)

// LinkRequest is a proposal from one account to pair with another.
// Requests are never deleted; terminal rows remain as an audit trail.
type LinkRequest struct {
	ID            string            `json:"id"`
	FromUserID    string            `json:"from_user_id"`
	FromUserName  string            `json:"from_user_name"`
	FromUserEmail string            `json:"from_user_email"`
	ToUserID      string            `json:"to_user_id"`
	Status        LinkRequestStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NotificationType discriminates the notification payload union.
type NotificationType string

const (
	NotificationLinkRequest  NotificationType = "link_request"
	NotificationLinkAccepted NotificationType = "link_accepted"
)

// Notification is delivered to a single recipient. A link_request
// notification is deleted when the request is responded to; other
// kinds are just marked read.
type Notification struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Type          NotificationType    `json:"type"`
	Data          NotificationPayload `json:"data"`
	IsRead        bool                `json:"is_read"`
	LinkRequestID *string             `json:"link_request_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Channel is a chat channel between two linked users. Its ID is a pure
// function of the unordered participant pair, so at most one channel
// can exist per pair.
type Channel struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatMessage is an append-only message in a channel, ordered by
// CreatedAt ascending. No edit or delete operation exists.
type ChatMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry is a shared journal entry visible to both partners.
// UserName and UserPhotoURL are filled in when listing.
type JournalEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Date         time.Time `json:"date"`
	UserName     string    `json:"user_name,omitempty"`
	UserPhotoURL string    `json:"user_photo_url,omitempty"`
}

// Photo is a gallery photo. Src points at externally hosted image data;
// the backend only mints upload URLs and stores metadata.
type Photo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PartnerID *string   `json:"partner_id,omitempty"`
	Src       string    `json:"src"`
	Caption   string    `json:"caption"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder is a dated reminder. IsAnniversary marks the synthetic entry
// derived from the profile's anniversary date; it is never stored.
type Reminder struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Date          time.Time `json:"date"`
	IsAnniversary bool      `json:"is_anniversary,omitempty"`
}
