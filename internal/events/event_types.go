package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventSessionExpired EventType = "session_expired"
	EventAccessDenied   EventType = "access_denied"
)

// Actor identifies the visitor an event concerns.
type Actor struct {
	SessionID string      `json:"session_id"`
	Subject   string      `json:"subject,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// Event represents a session lifecycle or gate event.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh ID and the given time.
func NewEvent(eventType EventType, actor Actor, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// SessionExpiredPayload payload.
type SessionExpiredPayload struct {
	ExpiredAt time.Time `json:"expired_at"`
}

// AccessDeniedPayload payload.
type AccessDeniedPayload struct {
	Path   string `json:"path"`
	Access string `json:"access"`
	Target string `json:"target"`
}

// SignedOutPayload payload.
type SignedOutPayload struct {
	Reason string `json:"reason"`
}

// Sign-out reasons.
const (
	ReasonLogout                = "logout"
	ReasonRegistrationConfirmed = "registration_confirmed"
	ReasonBackendRejected       = "backend_rejected"
)
