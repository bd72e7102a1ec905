package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyQueued     = errors.New("already in matchmaking queue")
	ErrAlreadyInRoom     = errors.New("already in a room")
	ErrInvalidDigits     = errors.New("must be exactly 4 digits (0-9)")
	ErrOpponentNotReady  = errors.New("opponent has not set a secret yet")
	ErrNotReady          = errors.New("set your own secret first")
	ErrUnknownConnection = errors.New("unknown connection")

	errInvalidPayload = errors.New("invalid payload")
)

// errorCode maps an error onto the short machine code sent next to the message.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrAlreadyQueued):
		return "already_queued"
	case errors.Is(err, ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, ErrInvalidDigits), errors.Is(err, errInvalidPayload):
		return "bad_input"
	case errors.Is(err, ErrOpponentNotReady), errors.Is(err, ErrNotReady):
		return "not_ready"
	default:
		return "internal"
	}
}
