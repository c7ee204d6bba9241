// Package location holds the location chosen on the picker map for a
// report form. The picker and the form live in separate frames and talk
// through fire-and-forget "map:pin" messages; the form keeps only the
// latest one.
package location

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/erazemk/lostfound/internal/model"
)

// PinMessageType is the only message type the mailbox accepts.
const PinMessageType = "map:pin"

// Message is a cross-frame event sent by the picker.
type Message struct {
	Type string   `json:"type"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// ParseMessage decodes a JSON message. Coordinates that are not JSON
// numbers are treated as missing rather than as a decode error.
func ParseMessage(data []byte) (Message, error) {
	var raw struct {
		Type string `json:"type"`
		Lat  any    `json:"lat"`
		Lng  any    `json:"lng"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("decoding pin message: %w", err)
	}
	return Message{Type: raw.Type, Lat: number(raw.Lat), Lng: number(raw.Lng)}, nil
}

// FormMessage builds a pin message from submitted lat/lng form values.
// Empty or unparsable values become missing coordinates.
func FormMessage(lat, lng string) Message {
	return Message{Type: PinMessageType, Lat: parseCoord(lat), Lng: parseCoord(lng)}
}

func number(v any) *float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return number(f)
}

// Mailbox is a single-slot holder for a picked location. Every delivered
// pin replaces the slot; nothing is queued or merged.
type Mailbox struct {
	mu  sync.Mutex
	loc *model.PickedLocation
}

// Deliver applies msg. Messages of any other type are ignored and
// reported as not applied. A pin lacking a usable coordinate pair clears
// the slot.
func (m *Mailbox) Deliver(msg Message) bool {
	if msg.Type != PinMessageType {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.Lat == nil || msg.Lng == nil {
		m.loc = nil
		return true
	}
	loc := model.PickedLocation{Lat: *msg.Lat, Lng: *msg.Lng}
	if !loc.Valid() {
		m.loc = nil
		return true
	}
	m.loc = &loc
	return true
}

// Location returns the stored location, if any.
func (m *Mailbox) Location() (model.PickedLocation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loc == nil {
		return model.PickedLocation{}, false
	}
	return *m.loc, true
}

// Clear empties the slot.
func (m *Mailbox) Clear() {
	m.mu.Lock()
	m.loc = nil
	m.mu.Unlock()
}
