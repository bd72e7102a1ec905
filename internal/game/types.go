package game

import (
	"encoding/json"
	"strings"
)

// Envelope WS envelope: {"type":"...","ref":"...","payload":{...}}
// ref is an optional client correlation id echoed back in acks.
type Envelope struct {
	Type    string          `json:"type"`
	Ref     string          `json:"ref,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Mode selects how much feedback a guess reveals.
type Mode string

const (
	ModeClassic         Mode = "CLASSIC"
	ModeRevealDigits    Mode = "REVEAL_DIGITS"
	ModeRevealPositions Mode = "REVEAL_POSITIONS"
)

var Modes = []Mode{ModeClassic, ModeRevealDigits, ModeRevealPositions}

// ParseMode is case-insensitive; empty or unknown input means CLASSIC.
func ParseMode(s string) Mode {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m
		}
	}
	return ModeClassic
}

// inbound event types
const (
	EventCreateRoom = "create-room"
	EventJoinRoom   = "join-room"
	EventSetSecret  = "set-secret"
	EventGuess      = "guess"
	EventResetRoom  = "reset-room"
	EventLeaveRoom  = "leave-room"
	EventQueueJoin  = "queue:join"
	EventQueueLeave = "queue:leave"
)

// outbound event types
const (
	EventWelcome       = "welcome"
	EventAck           = "ack"
	EventRoomUpdate    = "room-update"
	EventHistoryUpdate = "history-update"
	EventGameOver      = "game-over"
	EventRoomReset     = "room-reset"
	EventRoomDestroyed = "room-destroyed"
	EventErrorMsg      = "error-msg"
	EventQueueJoined   = "queue:joined"
	EventQueueMatched  = "queue:matched"
)

// входящие

type CreateRoomPayload struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type JoinRoomPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SetSecretPayload struct {
	Code   string `json:"code"`
	Secret string `json:"secret"`
}

type GuessPayload struct {
	Code  string `json:"code"`
	Guess string `json:"guess"`
}

// RoomPayload is used by reset-room and leave-room.
type RoomPayload struct {
	Code string `json:"code"`
}

type QueueJoinPayload struct {
	Mode string `json:"mode"`
	Name string `json:"name"`
}

// исходящие

type PlayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// RoomSummary is the public view of a session. Secrets never leave the server.
type RoomSummary struct {
	Code        string          `json:"code"`
	Mode        Mode            `json:"mode"`
	Phase       Phase           `json:"phase"`
	Round       int             `json:"round"`
	Players     []PlayerSummary `json:"players"`
	CurrentTurn *string         `json:"currentTurn"` // null until both secrets are set
	Winner      *string         `json:"winner"`
}

type HistoryItem struct {
	By             string   `json:"by"`
	Guess          string   `json:"guess"`
	CorrectCount   int      `json:"correctCount"`
	FeedbackDigits []string `json:"feedbackDigits"` // null outside REVEAL_DIGITS
	FeedbackMask   []bool   `json:"feedbackMask"`   // null outside REVEAL_POSITIONS
	At             int64    `json:"at"`             // unix millis
}

type GameOverPayload struct {
	Winner string `json:"winner"`
}

type RoomDestroyedPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QueueJoinedPayload struct {
	Mode Mode `json:"mode"`
}

type QueueMatchedPayload struct {
	Code string `json:"code"`
	Mode Mode   `json:"mode"`
}

type AckPayload struct {
	Code  string `json:"code,omitempty"`
	Mode  Mode   `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type WelcomePayload struct {
	ID string `json:"id"`
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
