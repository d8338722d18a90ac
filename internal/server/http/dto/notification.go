package dto

import (
	"time"

	"github.com/google/uuid"
)

// NotificationResponse describes one feed entry.
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Role      string     `json:"role"`
	Event     string     `json:"event"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	Read      bool       `json:"is_read"`
}

// FeedResponse is the state of a feed pushed over the stream.
type FeedResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}

// UnreadResponse carries the unread counter.
type UnreadResponse struct {
	Unread int `json:"unread"`
}

// MarkReadResponse reports how many notifications were flagged.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// StatusResponse acknowledges idempotent requests.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a human-readable failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
