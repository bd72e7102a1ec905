package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type ArchiveSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	rdb     *redis.Client
	archive *RedisArchive
	ctx     context.Context
}

func TestArchiveSuite(t *testing.T) {
	suite.Run(t, new(ArchiveSuite))
}

func (s *ArchiveSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.rdb = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.archive = NewRedisArchive(s.rdb, time.Hour)
	s.ctx = context.Background()
}

func (s *ArchiveSuite) TearDownTest() {
	_ = s.rdb.Close()
	s.mini.Close()
}

func sampleRecord(code string, round int) MatchRecord {
	return MatchRecord{
		Code:       code,
		Mode:       ModeRevealDigits,
		Round:      round,
		WinnerID:   "a",
		WinnerName: "Alice",
		LoserID:    "b",
		LoserName:  "Bob",
		Guesses:    1,
		History: []HistoryItem{
			{By: "a", Guess: "1123", CorrectCount: 4, FeedbackDigits: []string{"1", "2", "3"}, At: t0.UnixMilli()},
		},
		StartedAt:  t0,
		FinishedAt: t0.Add(time.Minute),
	}
}

func (s *ArchiveSuite) TestSaveAndLoad() {
	rec := sampleRecord("ROOM01", 1)
	s.Require().NoError(s.archive.SaveResult(s.ctx, rec))

	got, ok, err := s.archive.Load(s.ctx, "room01", 1)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(rec.WinnerName, got.WinnerName)
	s.Equal(rec.History, got.History)
	s.True(rec.FinishedAt.Equal(got.FinishedAt))
}

func (s *ArchiveSuite) TestLoadMissing() {
	_, ok, err := s.archive.Load(s.ctx, "NOPE00", 1)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ArchiveSuite) TestKeyExpires() {
	s.Require().NoError(s.archive.SaveResult(s.ctx, sampleRecord("ROOM01", 2)))
	s.True(s.mini.Exists("room:ROOM01:round:2"))
	s.Equal(time.Hour, s.mini.TTL("room:ROOM01:round:2"))

	s.mini.FastForward(2 * time.Hour)
	_, ok, err := s.archive.Load(s.ctx, "ROOM01", 2)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ArchiveSuite) TestRecentIsNewestFirstAndCapped() {
	for i := 1; i <= recentResultsMax+5; i++ {
		s.Require().NoError(s.archive.SaveResult(s.ctx, sampleRecord(fmt.Sprintf("R%05d", i), 1)))
	}

	recent, err := s.archive.Recent(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.Equal(fmt.Sprintf("R%05d", recentResultsMax+5), recent[0].Code)
	s.Equal(fmt.Sprintf("R%05d", recentResultsMax+3), recent[2].Code)

	all, err := s.archive.Recent(s.ctx, 1000)
	s.Require().NoError(err)
	s.Len(all, recentResultsMax)

	none, err := s.archive.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ArchiveSuite) TestRecentSkipsGarbage() {
	s.Require().NoError(s.rdb.LPush(s.ctx, recentResultsKey, "{not json").Err())
	s.Require().NoError(s.archive.SaveResult(s.ctx, sampleRecord("ROOM01", 1)))

	recent, err := s.archive.Recent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("ROOM01", recent[0].Code)
}
