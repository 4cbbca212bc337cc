package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PiyushDatta/senseboard/internal/logging"
	"github.com/PiyushDatta/senseboard/internal/metrics"
	"github.com/PiyushDatta/senseboard/internal/room"
	"go.uber.org/zap"
)

// upgrader is shared across all websocket connections. CheckOrigin always
// allows, mirroring the permissive CORS policy applied to the rest of the
// HTTP surface.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
	WriteBufferPool: &sync.Pool{
		New: func() any { return make([]byte, 4096) },
	},
}

// serveWs handles GET /ws?roomId=&name=: it upgrades the connection, mints
// a member id once the handshake ack arrives, attaches the member to the
// room, and pumps messages through the room store until the client
// disconnects.
func (rt *Router) serveWs(c *gin.Context) {
	roomIDRaw := strings.TrimSpace(c.Query("roomId"))
	name := strings.TrimSpace(c.Query("name"))
	if roomIDRaw == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and name are required"})
		return
	}

	if !rt.RateLimiter.CheckWebSocketConnect(c.Request.Context(), c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	now := time.Now()
	r := rt.Store.GetOrCreate(roomIDRaw, now)
	sessionID := room.NewSessionID()
	sess := NewSession(conn, sessionID, r.ID)

	metrics.IncConnection()
	defer metrics.DecConnection()

	var memberID room.MemberID
	var attached bool

	onAck := func(payload room.ClientAckPayload) bool {
		memberID = room.NewMemberID()
		receivedAt := time.Now()
		rt.Store.Attach(r, memberID, name, sessionID, sess, receivedAt)
		attached = true

		logCtx := logging.WithMember(logging.WithRoom(c.Request.Context(), string(r.ID)), string(memberID))
		logging.Info(logCtx, "member attached", zap.String("name", name))

		ack := room.ServerAckPayload{
			Protocol:   payload.Protocol,
			RoomID:     string(r.ID),
			MemberID:   string(memberID),
			ReceivedAt: receivedAt.UnixMilli(),
		}
		frame, err := json.Marshal(room.ServerFrame{Type: room.MsgServerAck, Payload: ack})
		if err != nil {
			return false
		}
		sess.Send(frame)
		rt.Store.Broadcast(r)
		return true
	}

	onMessage := func(msg room.ClientMessage) {
		ok, reason := rt.Store.Apply(r, memberID, name, msg, time.Now())
		if !ok {
			room.SendError(sess, reason)
		}
	}

	go sess.writePump()
	sess.readPump(onAck, onMessage)

	if attached {
		rt.Store.Detach(r, memberID, sessionID)
		logCtx := logging.WithMember(logging.WithRoom(c.Request.Context(), string(r.ID)), string(memberID))
		logging.Info(logCtx, "member detached")
	}
}
