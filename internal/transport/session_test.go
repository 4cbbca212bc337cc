package transport

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PiyushDatta/senseboard/internal/room"
)

// fakeConn is a scripted wsConnection: ReadMessage replays a fixed queue of
// frames, then returns io.EOF.
type fakeConn struct {
	mu     sync.Mutex
	in     [][]byte
	inIdx  int
	out    [][]byte
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inIdx >= len(f.in) {
		return 0, nil, io.EOF
	}
	data := f.in[f.inIdx]
	f.inIdx++
	return 1, data, nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error  { return nil }

func encodeClientMsg(t *testing.T, msgType room.ClientMsgType, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	data, err := json.Marshal(room.ClientMessage{Type: msgType, Payload: raw})
	require.NoError(t, err)
	return data
}

func drainSend(sess *Session) <-chan []byte {
	out := make(chan []byte, 64)
	go func() {
		for frame := range sess.send {
			out <- frame
		}
		close(out)
	}()
	return out
}

func TestReadPumpRejectsMessageBeforeAck(t *testing.T) {
	conn := &fakeConn{in: [][]byte{
		encodeClientMsg(t, room.MsgChatAdd, map[string]string{"text": "hi", "kind": "message"}),
	}}
	sess := NewSession(conn, "sess-1", room.ID("R"))
	frames := drainSend(sess)

	var ackCalled, msgCalled bool
	sess.readPump(
		func(room.ClientAckPayload) bool { ackCalled = true; return true },
		func(room.ClientMessage) { msgCalled = true },
	)

	var got []room.ServerFrame
	for f := range frames {
		var sf room.ServerFrame
		require.NoError(t, json.Unmarshal(f, &sf))
		got = append(got, sf)
	}

	assert.False(t, ackCalled)
	assert.False(t, msgCalled)
	require.Len(t, got, 1)
	assert.Equal(t, room.MsgRoomError, got[0].Type)
}

func TestReadPumpAcceptsAckThenRoutesMessages(t *testing.T) {
	conn := &fakeConn{in: [][]byte{
		encodeClientMsg(t, room.MsgClientAck, room.ClientAckPayload{Protocol: "senseboard-ws-v1", SentAt: 1}),
		encodeClientMsg(t, room.MsgChatAdd, map[string]string{"text": "hi", "kind": "message"}),
	}}
	sess := NewSession(conn, "sess-1", room.ID("R"))

	var ackPayload room.ClientAckPayload
	var routed []room.ClientMessage
	sess.readPump(
		func(p room.ClientAckPayload) bool { ackPayload = p; return true },
		func(m room.ClientMessage) { routed = append(routed, m) },
	)

	assert.Equal(t, "senseboard-ws-v1", ackPayload.Protocol)
	require.Len(t, routed, 1)
	assert.Equal(t, room.MsgChatAdd, routed[0].Type)
}

func TestReadPumpInvalidJSONGetsRoomError(t *testing.T) {
	conn := &fakeConn{in: [][]byte{[]byte("not json")}}
	sess := NewSession(conn, "sess-1", room.ID("R"))
	frames := drainSend(sess)

	sess.readPump(
		func(room.ClientAckPayload) bool { return true },
		func(room.ClientMessage) {},
	)

	var got []room.ServerFrame
	for f := range frames {
		var sf room.ServerFrame
		require.NoError(t, json.Unmarshal(f, &sf))
		got = append(got, sf)
	}
	require.Len(t, got, 1)
	assert.Equal(t, room.MsgRoomError, got[0].Type)
}

func TestSessionSendDropsOnClosedSession(t *testing.T) {
	conn := &fakeConn{}
	sess := NewSession(conn, "sess-1", room.ID("R"))
	sess.close()

	assert.NotPanics(t, func() {
		sess.Send([]byte("frame"))
	})
}

func TestSessionIDMatchesConstructor(t *testing.T) {
	conn := &fakeConn{}
	sess := NewSession(conn, "sess-42", room.ID("R"))
	assert.Equal(t, "sess-42", sess.ID())
}
