package entity

import "time"

type EventType string

const (
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventAccountLocked     EventType = "account_locked"
	EventLoggedOut         EventType = "logged_out"
	EventStorageChanged    EventType = "storage_changed"
	EventPersistenceFailed EventType = "persistence_failed"
	EventTicketUpdated     EventType = "ticket_updated"
	EventTerminalUpdated   EventType = "terminal_updated"
	EventTerminalOffline   EventType = "terminal_offline"
	EventSLABreached       EventType = "sla_breached"
	EventStoreReset        EventType = "store_reset"
)

// Event is a notification about something that happened inside a workspace.
// Subject is the id of the record or storage key the event is about.
type Event struct {
	Type       EventType `json:"type"`
	Workspace  string    `json:"workspace"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
