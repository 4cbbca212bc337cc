package room

import "encoding/json"

// ClientMsgType is the closed set of client→server websocket frame types.
type ClientMsgType string

const (
	MsgClientAck              ClientMsgType = "client:ack"
	MsgChatAdd                ClientMsgType = "chat:add"
	MsgContextAdd             ClientMsgType = "context:add"
	MsgContextUpdate          ClientMsgType = "context:update"
	MsgContextDelete          ClientMsgType = "context:delete"
	MsgTranscriptAdd          ClientMsgType = "transcript:add"
	MsgVisualHintSet          ClientMsgType = "visualHint:set"
	MsgAIConfigUpdate         ClientMsgType = "aiConfig:update"
	MsgDiagramPinCurrent      ClientMsgType = "diagram:pinCurrent"
	MsgDiagramUndoAI          ClientMsgType = "diagram:undoAi"
	MsgDiagramRestoreArchived ClientMsgType = "diagram:restoreArchived"
	MsgDiagramClearBoard      ClientMsgType = "diagram:clearBoard"
)

// ServerMsgType is the closed set of server→client websocket frame types.
type ServerMsgType string

const (
	MsgServerAck           ServerMsgType = "server:ack"
	MsgRoomSnapshot        ServerMsgType = "room:snapshot"
	MsgRoomError           ServerMsgType = "room:error"
	MsgPersonalBoardUpdate ServerMsgType = "personalBoard:update"
)

// PersonalBoardUpdatePayload is sent only to the sessions of the member the
// personal board belongs to.
type PersonalBoardUpdatePayload struct {
	Board     boardState `json:"board"`
	UpdatedAt int64      `json:"updatedAt"`
}

// ClientMessage is the envelope every client→server frame arrives in;
// Payload is re-parsed per Type by the matching handler.
type ClientMessage struct {
	Type    ClientMsgType   `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerFrame is the envelope every server→client frame is sent in.
type ServerFrame struct {
	Type    ServerMsgType `json:"type"`
	Payload interface{}   `json:"payload"`
}

// ClientAckPayload is the handshake's first message.
type ClientAckPayload struct {
	Protocol string `json:"protocol"`
	SentAt   int64  `json:"sentAt"`
}

// ServerAckPayload is the handshake's reply.
type ServerAckPayload struct {
	Protocol   string `json:"protocol"`
	RoomID     string `json:"roomId"`
	MemberID   string `json:"memberId"`
	ReceivedAt int64  `json:"receivedAt"`
}

// RoomErrorPayload carries a human-readable protocol/validation failure.
type RoomErrorPayload struct {
	Message string `json:"message"`
}

type chatAddPayload struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

type contextAddPayload struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

type contextUpdatePayload struct {
	ID       string  `json:"id"`
	Title    *string `json:"title"`
	Text     *string `json:"text"`
	Priority *string `json:"priority"`
}

type contextDeletePayload struct {
	ID string `json:"id"`
}

type transcriptAddPayload struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
	Source  string `json:"source"`
}

type visualHintSetPayload struct {
	Hint string `json:"hint"`
}

type aiConfigUpdatePayload struct {
	Frozen         *bool     `json:"frozen"`
	FocusMode      *bool     `json:"focusMode"`
	FocusBox       *Box      `json:"focusBox"`
	PinnedGroupIDs *[]string `json:"pinnedGroupIds"`
}

type diagramPinCurrentPayload struct {
	Title string `json:"title"`
}

type diagramRestoreArchivedPayload struct {
	GroupID string `json:"groupId"`
}

// assertPayload decodes payload into T, accepting both the production
// json.RawMessage path and a pre-typed-struct path used directly by tests.
func assertPayload[T any](payload any) (T, bool) {
	var zero T
	switch v := payload.(type) {
	case T:
		return v, true
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(v, &out); err != nil {
			return zero, false
		}
		return out, true
	case []byte:
		var out T
		if err := json.Unmarshal(v, &out); err != nil {
			return zero, false
		}
		return out, true
	default:
		return zero, false
	}
}
