package models

import "time"

// DisplayEvent records one applied display transition.
type DisplayEvent struct {
	EventID    string      `json:"event_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	DeviceID   string      `json:"device_id"`
	From       DisplayKind `json:"from"`
	To         DisplayKind `json:"to"`
	Reason     string      `json:"reason,omitempty"` // outcome that caused it
}
