package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"example.com/digitduel/internal/random"
)

// Phase is derived from session state, never stored.
type Phase string

const (
	PhaseForming    Phase = "forming"    // fewer than two players
	PhaseCommitting Phase = "committing" // two players, secrets missing
	PhaseActive     Phase = "active"     // both secrets set, no winner
	PhaseFinished   Phase = "finished"   // winner set
)

const (
	maxSeats      = 2
	maxNameLength = 24
)

var defaultNames = [maxSeats]string{"Player A", "Player B"}

type Player struct {
	ID   string
	Name string

	// secret is "" until committed; readiness is derived from it.
	secret string
}

func (p *Player) Ready() bool { return p.secret != "" }

type GuessRecord struct {
	By             string
	Guess          string
	CorrectCount   int
	FeedbackDigits []string // REVEAL_DIGITS only
	FeedbackMask   []bool   // REVEAL_POSITIONS only
	At             time.Time
}

// Session is the authoritative state of one match. It does no I/O and no
// locking: the Coordinator serializes every call.
type Session struct {
	code      string
	mode      Mode
	createdAt time.Time

	players map[string]*Player
	order   []string // join order == seat order

	turn    int
	winner  string
	history []GuessRecord

	round int
	// nextFirst is the seat that opens the next round; -1 draws it at random.
	nextFirst int
}

func newSession(code string, mode Mode, now time.Time) *Session {
	return &Session{
		code:      code,
		mode:      mode,
		createdAt: now,
		players:   make(map[string]*Player, maxSeats),
		round:     1,
		nextFirst: -1,
	}
}

func (s *Session) Code() string { return s.code }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Round() int { return s.round }
func (s *Session) Winner() string { return s.winner }
func (s *Session) TurnIndex() int { return s.turn }
func (s *Session) PlayerCount() int { return len(s.order) }

func (s *Session) Order() []string {
	return append([]string(nil), s.order...)
}

func (s *Session) History() []GuessRecord {
	return append([]GuessRecord(nil), s.history...)
}

func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

func (s *Session) Has(id string) bool {
	_, ok := s.players[id]
	return ok
}

// Opponent returns the other seat's connection id, or "" if there is none.
func (s *Session) Opponent(id string) string {
	for _, other := range s.order {
		if other != id {
			return other
		}
	}
	return ""
}

func (s *Session) Phase() Phase {
	switch {
	case len(s.order) < maxSeats:
		return PhaseForming
	case s.winner != "":
		return PhaseFinished
	case !s.allReady():
		return PhaseCommitting
	default:
		return PhaseActive
	}
}

// CurrentTurn is the id of the seat expected to guess, or "" before both
// secrets are committed.
func (s *Session) CurrentTurn() string {
	if len(s.order) < maxSeats || !s.allReady() {
		return ""
	}
	return s.order[s.turn%len(s.order)]
}

// AddPlayer seats a connection. An empty name becomes the seat default.
func (s *Session) AddPlayer(id, name string) (*Player, error) {
	if len(s.order) >= maxSeats {
		return nil, ErrRoomFull
	}
	if p, ok := s.players[id]; ok {
		return p, nil
	}

	p := &Player{ID: id, Name: normalizeName(name, len(s.order))}
	s.players[id] = p
	s.order = append(s.order, id)
	return p, nil
}

// CommitSecret stores a player's secret. It reports false, changing nothing,
// for an unknown player or a malformed secret. started is true only on the
// transition to both players ready, which is the one place the first turn
// is (re)assigned.
func (s *Session) CommitSecret(id, secret string, rnd random.Random) (ok, started bool) {
	p, found := s.players[id]
	if !found || !valid4Digits(secret) {
		return false, false
	}

	wasReady := s.allReady()
	p.secret = secret

	if wasReady || !s.allReady() {
		return true, false
	}

	if s.nextFirst < 0 {
		s.turn = rnd.Intn(len(s.order))
	} else {
		s.turn = s.nextFirst
	}
	s.winner = ""
	return true, true
}

// SubmitGuess scores a guess from the seat whose turn it is.
//
// accepted=false with a nil error means the guess was dropped silently
// (finished game, missing seat, out of turn). A non-nil error is meant for
// the caller only.
func (s *Session) SubmitGuess(id, guess string, now time.Time) (rec GuessRecord, accepted bool, err error) {
	if s.winner != "" || len(s.order) < maxSeats {
		return GuessRecord{}, false, nil
	}
	me, ok := s.players[id]
	if !ok || s.order[s.turn%len(s.order)] != id {
		return GuessRecord{}, false, nil
	}
	if !valid4Digits(guess) {
		return GuessRecord{}, false, ErrInvalidDigits
	}
	opp := s.players[s.Opponent(id)]
	if !opp.Ready() {
		return GuessRecord{}, false, ErrOpponentNotReady
	}
	if !me.Ready() {
		return GuessRecord{}, false, ErrNotReady
	}

	rec = GuessRecord{
		By:           id,
		Guess:        guess,
		CorrectCount: CorrectPositions(guess, opp.secret),
		At:           now,
	}
	switch s.mode {
	case ModeRevealDigits:
		rec.FeedbackDigits = FeedbackDigitSet(guess, opp.secret)
	case ModeRevealPositions:
		rec.FeedbackMask = FeedbackPositionMask(guess, opp.secret)
	}
	s.history = append(s.history, rec)

	if rec.CorrectCount == CodeLength {
		s.winner = id
	} else {
		s.turn = (s.turn + 1) % len(s.order)
	}
	return rec, true, nil
}

// Reset starts a new round with the same two players. It returns false and
// leaves state alone when fewer than two players remain; the caller is
// expected to destroy the session then.
func (s *Session) Reset() bool {
	if len(s.order) < maxSeats {
		return false
	}

	for _, p := range s.players {
		p.secret = ""
	}
	s.history = nil
	s.winner = ""

	s.nextFirst = (s.turn + 1) % len(s.order)
	s.turn = s.nextFirst
	s.round++
	return true
}

func (s *Session) Summary() RoomSummary {
	players := make([]PlayerSummary, 0, len(s.order))
	for _, id := range s.order {
		p := s.players[id]
		players = append(players, PlayerSummary{ID: p.ID, Name: p.Name, Ready: p.Ready()})
	}

	sum := RoomSummary{
		Code:    s.code,
		Mode:    s.mode,
		Phase:   s.Phase(),
		Round:   s.round,
		Players: players,
	}
	if t := s.CurrentTurn(); t != "" {
		sum.CurrentTurn = &t
	}
	if s.winner != "" {
		w := s.winner
		sum.Winner = &w
	}
	return sum
}

func (s *Session) HistoryView() []HistoryItem {
	out := make([]HistoryItem, 0, len(s.history))
	for _, r := range s.history {
		out = append(out, HistoryItem{
			By:             r.By,
			Guess:          r.Guess,
			CorrectCount:   r.CorrectCount,
			FeedbackDigits: r.FeedbackDigits,
			FeedbackMask:   r.FeedbackMask,
			At:             r.At.UnixMilli(),
		})
	}
	return out
}

func (s *Session) allReady() bool {
	if len(s.order) < maxSeats {
		return false
	}
	for _, id := range s.order {
		if !s.players[id].Ready() {
			return false
		}
	}
	return true
}

func normalizeName(name string, seat int) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	if name == "" && seat >= 0 && seat < maxSeats {
		return defaultNames[seat]
	}
	return name
}
