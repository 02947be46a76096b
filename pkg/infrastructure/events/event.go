// Package events keeps an append-only journal of what receiving did. Every
// event gets a version within its stream and a position across the whole
// journal.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind names an event type
type Kind string

// Event is one journal entry. Version and Position start at 1 and are
// assigned by the store on append.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	StreamID   string    `json:"stream_id"`
	Version    int       `json:"version"`
	Position   int       `json:"position"`
	RecordedAt time.Time `json:"recorded_at"`
	Payload    any       `json:"payload"`
}

// New builds an event that has not been appended yet
func New(kind Kind, streamID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		StreamID:   streamID,
		RecordedAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// PayloadOf returns the payload of e when it has type T
func PayloadOf[T any](e Event) (T, bool) {
	p, ok := e.Payload.(T)
	return p, ok
}

// Handler reacts to appended events
type Handler interface {
	Handle(event Event) error
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc func(event Event) error

// Handle calls f
func (f HandlerFunc) Handle(event Event) error {
	return f(event)
}

// Store is an append-only event journal
type Store interface {
	// Append records e and returns it with Version and Position filled in
	Append(e Event) (Event, error)
	// Stream returns the events of one stream from a version on
	Stream(streamID string, fromVersion int) ([]Event, error)
	// Since returns every event after the given position
	Since(position int) ([]Event, error)
	// Subscribe registers h for the given kinds, or for every kind when none
	// are given. The returned function removes the subscription.
	Subscribe(h Handler, kinds ...Kind) (unsubscribe func())
}
