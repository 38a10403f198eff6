// Package bridge runs the simulation host and the dispatch engine in
// separate processes: serve mode streams simulation events out over KCP,
// connect mode runs the engine against a mirrored car roster and sends
// movement commands back.
package bridge

import (
	"encoding/json"

	"github.com/google/uuid"

	"elevsched/src/types"
)

// Kind tags an envelope.
type Kind string

const (
	KindHello   Kind = "hello"
	KindInit    Kind = "init"
	KindEvent   Kind = "event"
	KindCommand Kind = "command"
	KindPing    Kind = "ping"
	KindBye     Kind = "bye"
)

// Envelope is the wire frame for every bridge message. ID is a fresh UUID
// per message and Seq counts per session; both exist for log correlation,
// not for dedup — KCP already delivers ordered and reliable.
type Envelope struct {
	ID   string          `json:"id"`
	Seq  uint64          `json:"seq"`
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

func seal(kind Kind, seq uint64, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{ID: uuid.New().String(), Seq: seq, Kind: kind, Data: data}, nil
}

// Hello opens a session; the server answers with Init.
type Hello struct {
	Name string `json:"name"`
}

// Init carries the roster the client mirrors for the rest of the session.
type Init struct {
	Floors int              `json:"floors"`
	Cars   []types.CarState `json:"cars"`
}

// Bye closes a session in either direction.
type Bye struct {
	Reason string `json:"reason"`
}

// EventType names the controller handler that fired on the server.
type EventType string

const (
	EvTickStart   EventType = "tick_start"
	EvCall        EventType = "call"
	EvIdle        EventType = "idle"
	EvStopped     EventType = "stopped"
	EvBoard       EventType = "board"
	EvAlight      EventType = "alight"
	EvPassing     EventType = "passing"
	EvApproaching EventType = "approaching"
	EvTickEnd     EventType = "tick_end"
	EvDone        EventType = "done"
)

// Event is one simulation event plus the full car roster state right after
// it. Shipping full state every time keeps the mirror independent of deltas:
// a late joiner or a dropped debug line never desyncs the client.
type Event struct {
	Type      EventType        `json:"type"`
	Tick      int              `json:"tick"`
	Car       int              `json:"car"`   // car id, -1 when the event has none
	Floor     int              `json:"floor"` // -1 when the event has none
	Dir       types.Direction  `json:"dir"`
	Passenger *PassengerInfo   `json:"passenger,omitempty"`
	Cars      []types.CarState `json:"cars"`
}

// PassengerInfo is the wire form of a passenger.
type PassengerInfo struct {
	ID          int `json:"id"`
	Origin      int `json:"origin"`
	Destination int `json:"destination"`
}

// Command asks the server to send a car toward a floor. Applied at the next
// tick boundary.
type Command struct {
	Car       int  `json:"car"`
	Floor     int  `json:"floor"`
	Immediate bool `json:"immediate"`
}
