package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu   sync.Mutex
	recs []MatchRecord
	err  error
}

func (s *memorySink) SaveResult(ctx context.Context, rec MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memorySink) codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.recs))
	for _, r := range s.recs {
		out = append(out, r.Code)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorder_FlushesOnStop(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(8, discardLogger(), sink)

	r.Record(MatchRecord{Code: "AAAAAA", Round: 1})
	r.Record(MatchRecord{Code: "BBBBBB", Round: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, sink.codes())
}

func TestRecorder_FailingSinkDoesNotStopOthers(t *testing.T) {
	bad := &memorySink{err: errors.New("down")}
	good := &memorySink{}
	r := NewRecorder(4, discardLogger(), bad, good)

	r.Record(MatchRecord{Code: "AAAAAA"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))

	assert.Empty(t, bad.codes())
	assert.Equal(t, []string{"AAAAAA"}, good.codes())
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(1, discardLogger(), sink)

	r.Record(MatchRecord{Code: "AAAAAA"})
	r.Record(MatchRecord{Code: "BBBBBB"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []string{"AAAAAA"}, sink.codes())
}

func TestRecorder_NilAndSinkless(t *testing.T) {
	var nilRec *Recorder
	assert.NotPanics(t, func() { nilRec.Record(MatchRecord{}) })

	r := NewRecorder(0, nil)
	r.Record(MatchRecord{Code: "AAAAAA"})
	assert.Empty(t, r.queue)
}
