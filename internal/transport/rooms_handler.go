package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PiyushDatta/senseboard/internal/logging"
	"github.com/PiyushDatta/senseboard/internal/room"
	"github.com/PiyushDatta/senseboard/internal/transcription"
	"go.uber.org/zap"
)

type createRoomResponse struct {
	RoomID room.ID    `json:"roomId"`
	Room   room.State `json:"room"`
}

// createRoom handles POST /rooms.
func (rt *Router) createRoom(c *gin.Context) {
	now := time.Now()
	r := rt.Store.GetOrCreate(room.NewSessionID(), now)
	c.JSON(http.StatusOK, createRoomResponse{RoomID: r.ID, Room: r.Snapshot()})
}

type getRoomResponse struct {
	Room room.State `json:"room"`
}

// getRoom handles GET /rooms/:id, creating the room if it doesn't exist yet.
func (rt *Router) getRoom(c *gin.Context) {
	r := rt.Store.GetOrCreate(c.Param("id"), time.Now())
	c.JSON(http.StatusOK, getRoomResponse{Room: r.Snapshot()})
}

type aiPatchRequest struct {
	Reason        string `json:"reason"`
	Regenerate    bool   `json:"regenerate"`
	WindowSeconds int    `json:"windowSeconds"`
}

type aiPatchResponse struct {
	Applied bool        `json:"applied"`
	Reason  string      `json:"reason,omitempty"`
	Ops     interface{} `json:"ops,omitempty"`
}

// requestAiPatch handles POST /rooms/:id/ai-patch: an explicit (non-tick)
// regeneration request, enqueued on the room's main queue and fanned out to
// every active member's personalized queue. Only the main job's result is
// returned; personalized jobs run fire-and-forget, mirroring once the main
// queue drains.
//
// regenerate, when true, bypasses the room's freeze flag and the
// MIN_INTERVAL_MS throttle for this request. windowSeconds is accepted for
// wire compatibility but not threaded per-request: the AI-input lookback
// window is a process-wide scheduler setting, not a per-call one.
func (rt *Router) requestAiPatch(c *gin.Context) {
	id := room.NormalizeID(c.Param("id"))
	r, ok := rt.Store.Get(string(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	var req aiPatchRequest
	_ = c.ShouldBindJSON(&req)

	logCtx := logging.WithRoom(c.Request.Context(), string(id))
	logging.Info(logCtx, "ai-patch requested", zap.String("reason", req.Reason), zap.Bool("regenerate", req.Regenerate))

	for _, name := range r.PersonalMemberNames() {
		rt.Scheduler.TriggerPersonalTick(id, name)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), rt.aiPatchTimeout)
	defer cancel()
	result := rt.Scheduler.RequestMainPatch(ctx, id, req.Regenerate)

	c.JSON(http.StatusOK, aiPatchResponse{Applied: result.Applied, Reason: result.Reason, Ops: result.Ops})
}

// requestPersonalAiPatch handles POST /rooms/:id/personal-board/ai-patch:
// fire-and-forget, returning immediately without waiting for the
// personalized queue to drain.
func (rt *Router) requestPersonalAiPatch(c *gin.Context) {
	id := room.NormalizeID(c.Param("id"))
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_name"})
		return
	}

	if _, ok := rt.Store.Get(string(id)); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	rt.Scheduler.TriggerPersonalTick(id, room.NormalizeName(name))
	c.JSON(http.StatusOK, aiPatchResponse{Applied: false, Reason: "queued"})
}

type personalBoardResponse struct {
	Board     interface{} `json:"board"`
	UpdatedAt int64       `json:"updatedAt"`
}

// getPersonalBoard handles GET /rooms/:id/personal-board?name=.
func (rt *Router) getPersonalBoard(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_name"})
		return
	}

	id := room.NormalizeID(c.Param("id"))
	r, ok := rt.Store.Get(string(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	pb := r.PersonalBoardSnapshot(room.NormalizeName(name))
	c.JSON(http.StatusOK, personalBoardResponse{Board: pb.Board, UpdatedAt: pb.UpdatedAt.UnixMilli()})
}

type transcribeResponse struct {
	OK       bool   `json:"ok"`
	Text     string `json:"text"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// transcribe handles POST /rooms/:id/transcribe: a multipart request
// carrying speaker (text) and audio (blob). Audio is size/format validated
// before any provider call; an accepted non-empty transcript is appended to
// the room through the same Store.Apply path a websocket transcript:add
// message uses, so the debounce/broadcast side effects are identical.
func (rt *Router) transcribe(c *gin.Context) {
	id := room.NormalizeID(c.Param("id"))
	r, ok := rt.Store.Get(string(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	speaker := strings.TrimSpace(c.PostForm("speaker"))

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing audio"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable audio"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable audio"})
		return
	}

	if valid, reason := transcription.ValidateAudio(audio); !valid {
		c.JSON(http.StatusOK, transcribeResponse{OK: true, Accepted: false, Reason: reason})
		return
	}

	logCtx := logging.WithRoom(c.Request.Context(), string(id))
	if speaker != "" {
		logCtx = logging.WithMember(logCtx, speaker)
	}
	ctx, cancel := context.WithTimeout(logCtx, 30*time.Second)
	defer cancel()
	result, err := rt.Transcription.Transcribe(ctx, audio, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		logging.Error(ctx, "transcription provider failed", zap.Error(err))
		c.JSON(http.StatusOK, transcribeResponse{OK: false, Accepted: false, Reason: "ai_error"})
		return
	}
	if !result.OK || strings.TrimSpace(result.Text) == "" {
		c.JSON(http.StatusOK, transcribeResponse{OK: true, Text: result.Text, Accepted: false, Reason: "empty_transcript"})
		return
	}

	payload, err := json.Marshal(map[string]string{
		"text":    result.Text,
		"speaker": speaker,
		"source":  "wire",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	msg := room.ClientMessage{Type: room.MsgTranscriptAdd, Payload: payload}

	ok2, reason := rt.Store.Apply(r, room.NewMemberID(), speaker, msg, time.Now())
	if !ok2 {
		c.JSON(http.StatusOK, transcribeResponse{OK: true, Text: result.Text, Accepted: false, Reason: reason})
		return
	}

	c.JSON(http.StatusOK, transcribeResponse{OK: true, Text: result.Text, Accepted: true})
}
