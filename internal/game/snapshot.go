package game

import "time"

// MatchRecord is the serializable outcome of one finished round, handed to
// result sinks (Redis archive, Postgres).
type MatchRecord struct {
	Code  string `json:"code"`
	Mode  Mode   `json:"mode"`
	Round int    `json:"round"`

	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
	LoserID    string `json:"loserId"`
	LoserName  string `json:"loserName"`

	Guesses int           `json:"guesses"`
	History []HistoryItem `json:"history"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// record builds the record of a finished session. ok is false while
// there is no winner.
func (s *Session) record(now time.Time) (MatchRecord, bool) {
	if s.winner == "" {
		return MatchRecord{}, false
	}

	rec := MatchRecord{
		Code:       s.code,
		Mode:       s.mode,
		Round:      s.round,
		WinnerID:   s.winner,
		Guesses:    len(s.history),
		History:    s.HistoryView(),
		StartedAt:  s.createdAt,
		FinishedAt: now,
	}
	if len(s.history) > 0 {
		rec.StartedAt = s.history[0].At
	}
	if p, ok := s.players[s.winner]; ok {
		rec.WinnerName = p.Name
	}
	if loser := s.Opponent(s.winner); loser != "" {
		rec.LoserID = loser
		rec.LoserName = s.players[loser].Name
	}
	return rec, true
}
