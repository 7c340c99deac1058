package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentScheduled EventType = "appointment_scheduled"
	EventIdeaCreated          EventType = "idea_created"
	EventCommentAdded         EventType = "comment_added"
)

// Event represents a domain event emitted after a committed write.
// Subject is the user email or idea id the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AppointmentScheduledPayload payload.
type AppointmentScheduledPayload struct {
	AppointmentID string `json:"appointment_id"`
	Service       string `json:"service"`
	Date          string `json:"date"`
}

// IdeaCreatedPayload payload.
type IdeaCreatedPayload struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	Author      string `json:"author"`
	TextPreview string `json:"text_preview"`
}
