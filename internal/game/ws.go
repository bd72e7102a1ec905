package game

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// handleWS: one WebSocket connection is one Client in the Coordinator.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("ws upgrade failed", "err", err)
		return
	}

	client := NewClient(uuid.NewString(), s.cfg.SendBuffer)
	s.coord.Connect(client)
	s.log.Info("ws connected", "conn", client.ID(), "remote", r.RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(ws, client)
	}()

	s.readLoop(ws, client)

	// disconnect: unregister first so nothing is sent to a closed queue
	s.coord.Disconnect(client.ID())
	client.Close()
	<-done
	s.log.Info("ws disconnected", "conn", client.ID())
}

// исходящие
func (s *Server) writeLoop(ws *websocket.Conn, c *Client) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Outbound():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// входящие
func (s *Server) readLoop(ws *websocket.Conn, c *Client) {
	pongWait := 2 * s.cfg.PingInterval
	ws.SetReadLimit(s.cfg.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("ws read", "conn", c.ID(), "err", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		s.dispatch(c, data)
	}
}

// dispatch routes one inbound envelope. A panic is contained to the event
// that caused it; the connection stays open.
func (s *Server) dispatch(c *Client, data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("panic in event handler", "conn", c.ID(), "panic", rec, "stack", string(debug.Stack()))
			sendError(c, "internal", "internal error")
		}
	}()

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		sendError(c, "bad_json", "invalid json")
		return
	}

	id := c.ID()
	switch env.Type {
	case EventCreateRoom:
		var p CreateRoomPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			ack(c, env.Ref, AckPayload{}, errInvalidPayload)
			return
		}
		code, err := s.coord.CreateRoom(id, p.Name, p.Mode)
		ack(c, env.Ref, AckPayload{Code: code}, err)

	case EventJoinRoom:
		var p JoinRoomPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			ack(c, env.Ref, AckPayload{}, errInvalidPayload)
			return
		}
		code, err := s.coord.JoinRoom(id, p.Code, p.Name)
		ack(c, env.Ref, AckPayload{Code: code}, err)

	case EventSetSecret:
		var p SetSecretPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			sendError(c, "bad_input", errInvalidPayload.Error())
			return
		}
		s.coord.SetSecret(id, p.Code, p.Secret)

	case EventGuess:
		var p GuessPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			sendError(c, "bad_input", errInvalidPayload.Error())
			return
		}
		s.coord.Guess(id, p.Code, p.Guess)

	case EventResetRoom:
		var p RoomPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			sendError(c, "bad_input", errInvalidPayload.Error())
			return
		}
		s.coord.ResetRoom(id, p.Code)

	case EventLeaveRoom:
		var p RoomPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			sendError(c, "bad_input", errInvalidPayload.Error())
			return
		}
		s.coord.LeaveRoom(id, p.Code)

	case EventQueueJoin:
		var p QueueJoinPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			ack(c, env.Ref, AckPayload{}, errInvalidPayload)
			return
		}
		mode, err := s.coord.JoinQueue(id, p.Mode, p.Name)
		ack(c, env.Ref, AckPayload{Mode: mode}, err)

	case EventQueueLeave:
		ack(c, env.Ref, AckPayload{}, s.coord.LeaveQueue(id))

	default:
		sendError(c, "unknown_type", "unknown message type")
	}
}

// decodePayload accepts a missing payload as the zero value.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func ack(c *Client, ref string, p AckPayload, err error) {
	if err != nil {
		p = AckPayload{Error: err.Error()}
	}
	c.Send(Envelope{Type: EventAck, Ref: ref, Payload: mustJSON(p)})
}

func sendError(c *Client, code, msg string) {
	c.Send(Envelope{Type: EventErrorMsg, Payload: mustJSON(ErrorPayload{Code: code, Message: msg})})
}
