package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ResultSink stores finished rounds somewhere durable.
type ResultSink interface {
	SaveResult(ctx context.Context, rec MatchRecord) error
}

// Recorder decouples game state from result storage: Record enqueues without
// blocking and Run drains the queue into every sink.
type Recorder struct {
	queue   chan MatchRecord
	sinks   []ResultSink
	timeout time.Duration
	log     *slog.Logger
}

var _ ResultRecorder = (*Recorder)(nil)

func NewRecorder(buffer int, log *slog.Logger, sinks ...ResultSink) *Recorder {
	if buffer <= 0 {
		buffer = 128
	}
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		queue:   make(chan MatchRecord, buffer),
		sinks:   sinks,
		timeout: 5 * time.Second,
		log:     log,
	}
}

// Record is safe on a nil Recorder.
func (r *Recorder) Record(rec MatchRecord) {
	if r == nil || len(r.sinks) == 0 {
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.log.Warn("result queue full, dropping record", "code", rec.Code, "round", rec.Round)
	}
}

// Run blocks until ctx is done, then flushes whatever is still queued.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case rec := <-r.queue:
			r.save(context.Background(), rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-r.queue:
					r.save(context.Background(), rec)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) save(parent context.Context, rec MatchRecord) {
	for _, sink := range r.sinks {
		ctx, cancel := context.WithTimeout(parent, r.timeout)
		err := sink.SaveResult(ctx, rec)
		cancel()
		if err != nil {
			r.log.Error("save result", "sink", fmt.Sprintf("%T", sink), "code", rec.Code, "round", rec.Round, "err", err)
		}
	}
}
