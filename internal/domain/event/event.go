package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys shared by publishers and subscribers
const (
	KeyOperation = "operation"
	KeyCount     = "count"
	KeyRunID     = "run_id"
	KeyFound     = "found"
	KeyMissing   = "missing"
)

// Case grid operations carried under KeyOperation
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReplace = "replace"
)

// Event represents a domain event
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// New creates an event with a random ID stamped with the current time
func New(eventType Type, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// CasesChanged builds a TypeCasesChanged event
func CasesChanged(operation string, count int) *Event {
	return New(TypeCasesChanged, map[string]interface{}{
		KeyOperation: operation,
		KeyCount:     count,
	})
}

// ReconciliationCompleted builds a TypeReconciliationCompleted event
func ReconciliationCompleted(runID string, found, missing int) *Event {
	return New(TypeReconciliationCompleted, map[string]interface{}{
		KeyRunID:   runID,
		KeyFound:   found,
		KeyMissing: missing,
	})
}

// Fields flattens the event into alternating key/value pairs for logging
func (e *Event) Fields() []interface{} {
	out := []interface{}{"event_id", e.ID, "event_type", e.Type.String()}
	for k, v := range e.Payload {
		out = append(out, k, v)
	}
	return out
}
