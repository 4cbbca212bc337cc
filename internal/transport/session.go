// Package transport wires SenseBoard's HTTP/JSON and websocket surface onto
// the room store and scheduler: Gin routes plus an upgraded
// gorilla/websocket connection with a read pump and a write pump, framing
// JSON envelopes and gating every pre-handshake frame behind a
// client:ack/server:ack exchange.
package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/PiyushDatta/senseboard/internal/logging"
	"github.com/PiyushDatta/senseboard/internal/metrics"
	"github.com/PiyushDatta/senseboard/internal/room"
	"go.uber.org/zap"
)

// wsConnection is the subset of *websocket.Conn a Session needs; narrowing
// it to an interface keeps the pump logic testable without a real socket.
type wsConnection interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
}

const (
	writeWait      = 10 * time.Second
	handshakeWait  = 1500 * time.Millisecond
	sendBufferSize = 64
)

// Session is one websocket client's connection to a room. It implements
// room.Sender so the room/store package never touches a websocket
// directly.
type Session struct {
	conn   wsConnection
	id     string
	roomID room.ID

	mu             sync.Mutex
	handshakeAcked bool
	closed         bool
	closeOnce      sync.Once

	send chan []byte
}

// NewSession wraps an established connection. The caller must start
// readPump/writePump (via Serve) to actually move bytes.
func NewSession(conn wsConnection, sessionID string, roomID room.ID) *Session {
	return &Session{
		conn:   conn,
		id:     sessionID,
		roomID: roomID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ID satisfies room.Sender.
func (s *Session) ID() string { return s.id }

// Send satisfies room.Sender: enqueues a frame, never blocking the caller.
// A full or closed session silently drops the frame.
func (s *Session) Send(frame []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.send <- frame:
	default:
		logging.Warn(nil, "session send buffer full, dropping frame", zap.String("sessionId", s.id))
	}
}

func (s *Session) acked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handshakeAcked
}

func (s *Session) ack() {
	s.mu.Lock()
	s.handshakeAcked = true
	s.mu.Unlock()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.send)
		s.conn.Close()
	})
}

// readPump reads frames until the connection errors or closes, invoking
// onMessage for each decoded ClientMessage. It enforces the handshake gate:
// nothing but client:ack is accepted before ack, and the ack itself must
// arrive within handshakeWait or the session is dropped.
func (s *Session) readPump(onAck func(room.ClientAckPayload) bool, onMessage func(room.ClientMessage)) {
	defer s.close()

	s.conn.SetReadDeadline(time.Now().Add(handshakeWait))

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg room.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			room.SendError(s, "Invalid websocket message payload.")
			metrics.WebsocketEvents.WithLabelValues("unknown", "parse_error").Inc()
			continue
		}

		if !s.acked() {
			if msg.Type != room.MsgClientAck {
				room.SendError(s, "Handshake required: send client:ack first.")
				metrics.WebsocketEvents.WithLabelValues(string(msg.Type), "rejected_unacked").Inc()
				continue
			}
			var payload room.ClientAckPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				room.SendError(s, "Invalid websocket message payload.")
				continue
			}
			if !onAck(payload) {
				return
			}
			s.ack()
			s.conn.SetReadDeadline(time.Time{})
			metrics.WebsocketEvents.WithLabelValues(string(msg.Type), "accepted").Inc()
			continue
		}

		if msg.Type == room.MsgClientAck {
			room.SendError(s, "already acknowledged")
			continue
		}

		onMessage(msg)
	}
}

// writePump drains send and writes each frame to the connection, honoring
// a per-write deadline.
func (s *Session) writePump() {
	defer s.conn.Close()
	for frame := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
