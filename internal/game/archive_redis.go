package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recentResultsKey = "results:recent"
	recentResultsMax = 100
)

// ArchiveReader is what the HTTP layer needs from the archive.
type ArchiveReader interface {
	Load(ctx context.Context, code string, round int) (MatchRecord, bool, error)
	Recent(ctx context.Context, n int) ([]MatchRecord, error)
}

// RedisArchive keeps finished rounds in Redis: one key per round (with TTL)
// and a capped list of the most recent ones.
type RedisArchive struct {
	rdb *redis.Client
	ttl time.Duration
}

var (
	_ ResultSink    = (*RedisArchive)(nil)
	_ ArchiveReader = (*RedisArchive)(nil)
)

func NewRedisArchive(rdb *redis.Client, ttl time.Duration) *RedisArchive {
	return &RedisArchive{rdb: rdb, ttl: ttl}
}

func (a *RedisArchive) key(code string, round int) string {
	return fmt.Sprintf("room:%s:round:%d", NormalizeCode(code), round)
}

func (a *RedisArchive) SaveResult(ctx context.Context, rec MatchRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := a.rdb.TxPipeline()
	pipe.Set(ctx, a.key(rec.Code, rec.Round), b, a.ttl)
	pipe.LPush(ctx, recentResultsKey, b)
	pipe.LTrim(ctx, recentResultsKey, 0, recentResultsMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("archive %s round %d: %w", rec.Code, rec.Round, err)
	}
	return nil
}

func (a *RedisArchive) Load(ctx context.Context, code string, round int) (MatchRecord, bool, error) {
	val, err := a.rdb.Get(ctx, a.key(code, round)).Bytes()
	if errors.Is(err, redis.Nil) {
		return MatchRecord{}, false, nil
	}
	if err != nil {
		return MatchRecord{}, false, err
	}

	var rec MatchRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return MatchRecord{}, false, err
	}
	return rec, true, nil
}

// Recent returns up to n records, newest first.
func (a *RedisArchive) Recent(ctx context.Context, n int) ([]MatchRecord, error) {
	if n <= 0 {
		return []MatchRecord{}, nil
	}
	vals, err := a.rdb.LRange(ctx, recentResultsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]MatchRecord, 0, len(vals))
	for _, v := range vals {
		var rec MatchRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			// skip entries written by an incompatible build
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
