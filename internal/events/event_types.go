package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"
	EventCartUpdated    EventType = "cart_updated"
)

// Event is a notification published after a state change has been committed.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserPayload accompanies account events. It never carries credentials.
type UserPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
