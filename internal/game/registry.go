package game

import (
	"errors"
	"strings"
	"time"

	"example.com/digitduel/internal/random"
)

const (
	RoomCodeLength   = 6
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// collisions are rare; this only bounds a broken random source
	maxCodeAttempts = 64
)

var errCodeSpaceExhausted = errors.New("could not allocate a unique room code")

// Registry maps room codes to live sessions. It is not safe for concurrent
// use; the Coordinator owns it.
type Registry struct {
	sessions map[string]*Session
	rnd      random.Random
	now      func() time.Time
}

func NewRegistry(rnd random.Random, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		rnd:      rnd,
		now:      now,
	}
}

// Create registers an empty session under a fresh code.
func (r *Registry) Create(mode Mode) (*Session, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := NormalizeCode(r.rnd.String(RoomCodeLength, RoomCodeAlphabet))
		if len(code) != RoomCodeLength {
			continue
		}
		if _, taken := r.sessions[code]; taken {
			continue
		}
		s := newSession(code, mode, r.now())
		r.sessions[code] = s
		return s, nil
	}
	return nil, errCodeSpaceExhausted
}

func (r *Registry) Get(code string) (*Session, bool) {
	s, ok := r.sessions[NormalizeCode(code)]
	return s, ok
}

// Destroy removes a session. Destroying an absent code is a no-op.
func (r *Registry) Destroy(code string) (*Session, bool) {
	code = NormalizeCode(code)
	s, ok := r.sessions[code]
	if !ok {
		return nil, false
	}
	delete(r.sessions, code)
	return s, true
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// NormalizeCode makes codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
