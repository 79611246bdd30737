package ipc

import (
	"github.com/spf13/cast"
)

// Message is a single decoded protocol line.
// Responses carry request_id, error and optionally data; events carry an event name
// plus event-specific fields.
type Message map[string]any

// Event returns the event name, if the message is an event.
func (m Message) Event() (string, bool) {
	name, ok := m["event"].(string)
	return name, ok
}

// RequestID returns the correlation identifier, if the message is a response.
func (m Message) RequestID() (int64, bool) {
	raw, ok := m["request_id"]
	if !ok || raw == nil {
		return 0, false
	}
	id, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Status returns the player-supplied error string of a response ("success" on success).
func (m Message) Status() string {
	return cast.ToString(m["error"])
}

// Data returns the payload of a response.
func (m Message) Data() Value {
	return NewValue(m["data"])
}

// Get returns an arbitrary field as a Value.
func (m Message) Get(field string) Value {
	return NewValue(m[field])
}

// request is the outbound command shape.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}
