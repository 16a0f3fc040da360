package domain

import (
	"encoding/json"
	"time"
)

// AuditEntry is one persisted session lifecycle or gate event.
type AuditEntry struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	SessionID  string          `json:"session_id"`
	Subject    string          `json:"subject,omitempty"`
	Role       Role            `json:"role,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
