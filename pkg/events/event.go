package events

import "time"

// Domain event codes published on the bus. The notification worker maps these
// onto user-facing notification kinds.
const (
	TypeEntryApproved = "ENTRY_APPROVED"
	TypeEntryRejected = "ENTRY_REJECTED"
	TypeTeamInvite    = "TEAM_INVITE"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ENTRY_APPROVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
