package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventTokenRejected   EventType = "token_rejected"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventLogout          EventType = "logout"
	EventPasswordChanged EventType = "password_changed"
	EventSalesCreated    EventType = "sales_created"
)

// Event represents an auth event emitted by services and middleware.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SalesID   *int64    `json:"sales_id,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps a fresh event.
func New(eventType EventType, salesID *int64, ip string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SalesID:   salesID,
		IP:        ip,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// TokenRejectedPayload payload. Reason is one of expired, invalid, wrong_type, verification.
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

// SalesCreatedPayload payload.
type SalesCreatedPayload struct {
	CreatedBy int64  `json:"created_by"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
