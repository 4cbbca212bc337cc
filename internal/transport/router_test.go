package transport

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/health"
	"github.com/PiyushDatta/senseboard/internal/personalization"
	"github.com/PiyushDatta/senseboard/internal/ratelimit"
	"github.com/PiyushDatta/senseboard/internal/room"
	"github.com/PiyushDatta/senseboard/internal/scheduler"
	"github.com/PiyushDatta/senseboard/internal/transcription"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := room.NewStore(time.Second)
	engine := aiengine.NewEngine(nil, 0, 0)
	sched := scheduler.New(store, engine, time.Millisecond, time.Millisecond, time.Millisecond, 30)
	t.Cleanup(sched.Stop)

	limiter, err := ratelimit.New("1000-M", "1000-M", "1000-M")
	require.NoError(t, err)

	return New(store, sched, health.NewHandler(nil), limiter, transcription.Deterministic{}, personalization.NewMemoryStore(), time.Second)
}

func TestCreateRoomReturnsEmptyBoard(t *testing.T) {
	rt := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body createRoomResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RoomID)
	assert.Empty(t, body.Room.Board.Order)
	assert.Empty(t, body.Room.Members)
}

func TestGetRoomCreatesWhenMissing(t *testing.T) {
	rt := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/rooms/brandnew", nil)
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body getRoomResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, room.ID("BRANDNEW"), body.Room.RoomID)
}

func TestTranscribeRejectsTooSmallAudio(t *testing.T) {
	rt := newTestRouter(t)
	rt.Store.GetOrCreate("R", time.Now())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("speaker", "Alex"))
	part, err := w.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, 200))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/rooms/R/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body transcribeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.False(t, body.Accepted)
	assert.Equal(t, "audio_too_small", body.Reason)
}

func TestTranscribeAcceptsLargeEnoughAudio(t *testing.T) {
	rt := newTestRouter(t)
	rt.Store.GetOrCreate("R", time.Now())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("speaker", "Alex"))
	part, err := w.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, 4096))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/rooms/R/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body transcribeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.True(t, body.Accepted)
	assert.NotEmpty(t, body.Text)
}

func TestPersonalBoardAiPatchReturnsQueuedImmediately(t *testing.T) {
	rt := newTestRouter(t)
	rt.Store.GetOrCreate("R", time.Now())

	req := httptest.NewRequest(http.MethodPost, "/rooms/R/personal-board/ai-patch?name=Alex", nil)
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body aiPatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Applied)
	assert.Equal(t, "queued", body.Reason)
}

func TestPersonalBoardAiPatchRequiresName(t *testing.T) {
	rt := newTestRouter(t)
	rt.Store.GetOrCreate("R", time.Now())

	req := httptest.NewRequest(http.MethodPost, "/rooms/R/personal-board/ai-patch", nil)
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPersonalizationContextRoundTrip(t *testing.T) {
	rt := newTestRouter(t)

	appendBody, err := json.Marshal(personalizationAppendRequest{Name: "Alex", Line: "prefers dark mode"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/personalization/context", bytes.NewReader(appendBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/personalization/context?name=Alex", nil)
	getResp := httptest.NewRecorder()
	rt.Engine().ServeHTTP(getResp, getReq)
	require.Equal(t, http.StatusOK, getResp.Code)

	var profile personalization.Profile
	require.NoError(t, json.Unmarshal(getResp.Body.Bytes(), &profile))
	assert.Contains(t, profile.ContextLines, "prefers dark mode")
}

func TestHealthAndMetricsEndpointsServed(t *testing.T) {
	rt := newTestRouter(t)

	for _, path := range []string{"/health", "/ai/preflight", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		rt.Engine().ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}
