// Package events publishes ledger change notifications.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a ledger change.
type Type string

const (
	EntryCreated Type = "entry.created"
	EntryUpdated Type = "entry.updated"
	EntryDeleted Type = "entry.deleted"
)

// Event is the message body published for each ledger change. It carries
// identifiers only; consumers read the entry itself from the ledger.
type Event struct {
	Type      Type      `json:"type"`
	UserID    int64     `json:"userID"`
	EntryID   int64     `json:"entryID"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(t Type, userID, entryID int64) Event {
	return Event{Type: t, UserID: userID, EntryID: entryID, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
