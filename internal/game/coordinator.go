package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"example.com/digitduel/internal/random"
)

const (
	ReasonPlayerLeft       = "player-left"
	ReasonNotEnoughPlayers = "not-enough-players"
	ReasonShutdown         = "server-shutdown"
)

// ResultRecorder receives finished rounds. Record must not block.
type ResultRecorder interface {
	Record(rec MatchRecord)
}

type membership int

const (
	idle membership = iota
	queued
	inRoom
)

// connState is per-connection state. mode is meaningful only while queued,
// code only while inRoom; the set* methods keep the two exclusive.
type connState struct {
	client *Client
	name   string

	status membership
	mode   Mode
	code   string
}

func (s *connState) setIdle() {
	s.status, s.mode, s.code = idle, "", ""
}

func (s *connState) setQueued(m Mode) {
	s.status, s.mode, s.code = queued, m, ""
}

func (s *connState) setInRoom(code string) {
	s.status, s.mode, s.code = inRoom, "", code
}

type CoordinatorOptions struct {
	Random   random.Random
	Now      func() time.Time
	Logger   *slog.Logger
	Recorder ResultRecorder // optional
}

// Coordinator owns every piece of shared game state: live connections, the
// session registry and the matchmaking queue. Each exported method is one
// inbound event and runs to completion under a single mutex, so events are
// linearized and all members observe broadcasts in the same order.
// Outbound delivery is a non-blocking enqueue and never fails an event.
type Coordinator struct {
	mu sync.Mutex

	conns    map[string]*connState
	registry *Registry
	queue    *Queue

	rnd      random.Random
	now      func() time.Time
	log      *slog.Logger
	recorder ResultRecorder
}

func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.Random == nil {
		opts.Random = random.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Coordinator{
		conns:    make(map[string]*connState),
		registry: NewRegistry(opts.Random, opts.Now),
		queue:    NewQueue(),
		rnd:      opts.Random,
		now:      opts.Now,
		log:      opts.Logger,
		recorder: opts.Recorder,
	}
}

// Connect registers a transport connection and greets it with its id.
func (c *Coordinator) Connect(client *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns[client.ID()] = &connState{client: client}
	c.emitLocked(client.ID(), EventWelcome, WelcomePayload{ID: client.ID()})
}

// Disconnect handles transport loss. There is no grace period: a room the
// connection was in is destroyed immediately.
func (c *Coordinator) Disconnect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.conns[id]
	if !ok {
		return
	}
	delete(c.conns, id)

	switch st.status {
	case queued:
		c.queue.Remove(id)
	case inRoom:
		c.destroyLocked(st.code, ReasonPlayerLeft)
	}
	c.log.Debug("connection closed", "conn", id)
}

// CreateRoom opens a new session with the caller in seat 0.
func (c *Coordinator) CreateRoom(id, name, mode string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.conns[id]
	if !ok {
		return "", ErrUnknownConnection
	}
	c.leaveQueueLocked(st)
	c.leaveRoomLocked(st)

	sess, err := c.registry.Create(ParseMode(mode))
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	p, _ := sess.AddPlayer(id, name)
	st.name = p.Name
	st.setInRoom(sess.Code())

	c.log.Info("room created", "code", sess.Code(), "mode", sess.Mode(), "conn", id)
	c.broadcastLocked(sess, EventRoomUpdate, sess.Summary())
	return sess.Code(), nil
}

// JoinRoom seats the caller in an existing session. Joining a room the
// caller already sits in is a no-op that succeeds.
func (c *Coordinator) JoinRoom(id, code, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.conns[id]
	if !ok {
		return "", ErrUnknownConnection
	}
	c.leaveQueueLocked(st)

	sess, ok := c.registry.Get(code)
	if !ok {
		return "", ErrRoomNotFound
	}
	if sess.Has(id) {
		return sess.Code(), nil
	}
	if sess.PlayerCount() >= maxSeats {
		return "", ErrRoomFull
	}
	c.leaveRoomLocked(st)

	p, err := sess.AddPlayer(id, name)
	if err != nil {
		return "", err
	}
	st.name = p.Name
	st.setInRoom(sess.Code())

	c.log.Info("room joined", "code", sess.Code(), "conn", id)
	c.broadcastLocked(sess, EventRoomUpdate, sess.Summary())
	return sess.Code(), nil
}

// SetSecret commits a secret. Unknown rooms, non-members and malformed
// secrets are ignored without a reply.
func (c *Coordinator) SetSecret(id, code, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.registry.Get(code)
	if !ok {
		return
	}
	ok, started := sess.CommitSecret(id, secret, c.rnd)
	if !ok {
		return
	}
	if started {
		c.log.Info("round started", "code", sess.Code(), "round", sess.Round(), "first", sess.CurrentTurn())
	}
	c.broadcastLocked(sess, EventRoomUpdate, sess.Summary())
}

// Guess submits a guess for the seat whose turn it is.
func (c *Coordinator) Guess(id, code, guess string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.registry.Get(code)
	if !ok {
		return
	}
	now := c.now()
	_, accepted, err := sess.SubmitGuess(id, guess, now)
	if err != nil {
		c.sendErrorLocked(id, err)
		return
	}
	if !accepted {
		return
	}

	if w := sess.Winner(); w != "" {
		c.log.Info("game over", "code", sess.Code(), "round", sess.Round(), "winner", w)
		c.broadcastLocked(sess, EventGameOver, GameOverPayload{Winner: w})
		if rec, ok := sess.record(now); ok && c.recorder != nil {
			c.recorder.Record(rec)
		}
	}
	c.broadcastLocked(sess, EventHistoryUpdate, sess.HistoryView())
	c.broadcastLocked(sess, EventRoomUpdate, sess.Summary())
}

// ResetRoom starts a new round, or destroys the room if it cannot continue.
func (c *Coordinator) ResetRoom(id, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.registry.Get(code)
	if !ok || !sess.Has(id) {
		return
	}
	if !sess.Reset() {
		c.destroyLocked(sess.Code(), ReasonNotEnoughPlayers)
		return
	}

	c.log.Info("room reset", "code", sess.Code(), "round", sess.Round())
	c.broadcastLocked(sess, EventRoomReset, sess.Summary())
	c.broadcastLocked(sess, EventHistoryUpdate, sess.HistoryView())
}

// LeaveRoom destroys the room, but only for an actual member.
func (c *Coordinator) LeaveRoom(id, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.registry.Get(code)
	if !ok || !sess.Has(id) {
		return
	}
	c.destroyLocked(sess.Code(), ReasonPlayerLeft)
}

// JoinQueue enqueues the caller and tries to pair it at once.
func (c *Coordinator) JoinQueue(id, mode, name string) (Mode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.conns[id]
	if !ok {
		return "", ErrUnknownConnection
	}
	if st.status == inRoom {
		return "", ErrAlreadyInRoom
	}
	if _, waiting := c.queue.Contains(id); waiting || st.status == queued {
		return "", ErrAlreadyQueued
	}

	m := ParseMode(mode)
	st.name = normalizeName(name, -1)
	c.queue.Push(QueueEntry{ID: id, Name: st.name, Mode: m, JoinedAt: c.now()})
	st.setQueued(m)
	c.emitLocked(id, EventQueueJoined, QueueJoinedPayload{Mode: m})

	c.matchLocked(m, id)
	return m, nil
}

// LeaveQueue is a no-op for a connection that is not queued.
func (c *Coordinator) LeaveQueue(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	c.leaveQueueLocked(st)
	return nil
}

// Room returns the public summary of a live session.
func (c *Coordinator) Room(code string) (RoomSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.registry.Get(code)
	if !ok {
		return RoomSummary{}, false
	}
	return sess.Summary(), true
}

type LobbyStats struct {
	Connections int          `json:"connections"`
	Rooms       int          `json:"rooms"`
	Waiting     map[Mode]int `json:"waiting"`
}

func (c *Coordinator) Stats() LobbyStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := LobbyStats{
		Connections: len(c.conns),
		Rooms:       c.registry.Len(),
		Waiting:     make(map[Mode]int, len(Modes)),
	}
	for _, m := range Modes {
		st.Waiting[m] = c.queue.Len(m)
	}
	return st
}

// Shutdown tears every room down, notifying its members.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	codes := make([]string, 0, len(c.registry.sessions))
	for code := range c.registry.sessions {
		codes = append(codes, code)
	}
	for _, code := range codes {
		c.destroyLocked(code, ReasonShutdown)
	}
}

// matchLocked pairs id with the first other connection waiting in mode.
func (c *Coordinator) matchLocked(mode Mode, id string) {
	self, opp, ok := c.queue.TakePair(mode, id)
	if !ok {
		return
	}

	if _, alive := c.conns[opp.ID]; !alive {
		// opponent vanished between enqueue and pairing: wait for the next one
		c.log.Warn("matchmaking: opponent gone, requeueing", "conn", id, "opponent", opp.ID)
		c.queue.Push(self)
		return
	}

	sess, err := c.registry.Create(mode)
	if err != nil {
		c.log.Error("matchmaking: create room", "err", err)
		c.queue.Push(opp)
		c.queue.Push(self)
		return
	}
	for _, e := range []QueueEntry{self, opp} {
		p, _ := sess.AddPlayer(e.ID, e.Name)
		st := c.conns[e.ID]
		st.name = p.Name
		st.setInRoom(sess.Code())
	}

	c.log.Info("match made", "code", sess.Code(), "mode", mode, "p1", self.ID, "p2", opp.ID)
	matched := QueueMatchedPayload{Code: sess.Code(), Mode: mode}
	c.emitLocked(self.ID, EventQueueMatched, matched)
	c.emitLocked(opp.ID, EventQueueMatched, matched)
	c.broadcastLocked(sess, EventRoomUpdate, sess.Summary())
}

// destroyLocked notifies the remaining members, clears their membership and
// drops the session. Idempotent.
func (c *Coordinator) destroyLocked(code, reason string) {
	sess, ok := c.registry.Destroy(code)
	if !ok {
		return
	}
	for _, pid := range sess.Order() {
		st, ok := c.conns[pid]
		if !ok {
			continue
		}
		c.emitLocked(pid, EventRoomDestroyed, RoomDestroyedPayload{Reason: reason})
		if st.status == inRoom && st.code == sess.Code() {
			st.setIdle()
		}
	}
	c.log.Info("room destroyed", "code", sess.Code(), "reason", reason)
}

func (c *Coordinator) leaveQueueLocked(st *connState) {
	if st.status != queued {
		return
	}
	c.queue.Remove(st.client.ID())
	st.setIdle()
}

func (c *Coordinator) leaveRoomLocked(st *connState) {
	if st.status != inRoom {
		return
	}
	c.destroyLocked(st.code, ReasonPlayerLeft)
	st.setIdle()
}

func (c *Coordinator) broadcastLocked(sess *Session, typ string, payload any) {
	env := Envelope{Type: typ, Payload: mustJSON(payload)}
	for _, id := range sess.order {
		c.deliverLocked(id, env)
	}
}

func (c *Coordinator) emitLocked(id, typ string, payload any) {
	c.deliverLocked(id, Envelope{Type: typ, Payload: mustJSON(payload)})
}

func (c *Coordinator) sendErrorLocked(id string, err error) {
	c.emitLocked(id, EventErrorMsg, ErrorPayload{Code: errorCode(err), Message: err.Error()})
}

func (c *Coordinator) deliverLocked(id string, env Envelope) {
	st, ok := c.conns[id]
	if !ok {
		return
	}
	if !st.client.Send(env) {
		c.log.Warn("outbound queue full, dropping", "conn", id, "type", env.Type)
	}
}
