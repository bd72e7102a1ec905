package store

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/digitduel/internal/game"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultsStore keeps finished rounds in Postgres (table match_results).
type ResultsStore struct {
	db *pgxpool.Pool
}

var (
	_ game.ResultSink    = (*ResultsStore)(nil)
	_ game.StatsProvider = (*ResultsStore)(nil)
)

func NewResultsStore(db *pgxpool.Pool) *ResultsStore {
	return &ResultsStore{db: db}
}

func (s *ResultsStore) SaveResult(ctx context.Context, rec game.MatchRecord) error {
	history, err := json.Marshal(rec.History)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO match_results
			(room_code, round, mode, winner_id, winner_name, loser_id, loser_name,
			 guesses, history, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (room_code, round, finished_at) DO NOTHING
	`, rec.Code, rec.Round, string(rec.Mode), rec.WinnerID, rec.WinnerName, rec.LoserID, rec.LoserName,
		rec.Guesses, history, rec.StartedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert result %s/%d: %w", rec.Code, rec.Round, err)
	}
	return nil
}

// ModeStats returns one row per mode that has at least one finished round.
func (s *ResultsStore) ModeStats(ctx context.Context) ([]game.ModeStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT mode, COUNT(*), COALESCE(AVG(guesses), 0)::float8
		FROM match_results
		GROUP BY mode
		ORDER BY mode
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.ModeStats{}
	for rows.Next() {
		var (
			st   game.ModeStats
			mode string
		)
		if err := rows.Scan(&mode, &st.Games, &st.AvgGuesses); err != nil {
			return nil, err
		}
		st.Mode = game.Mode(mode)
		out = append(out, st)
	}
	return out, rows.Err()
}
