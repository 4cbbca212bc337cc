package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterDefaults(t *testing.T) {
	rl, err := New("", "", "")
	require.NoError(t, err)
	assert.NotNil(t, rl.apiGlobal)
	assert.NotNil(t, rl.apiRooms)
	assert.NotNil(t, rl.wsConnect)
}

func TestNewRateLimiterInvalidRate(t *testing.T) {
	_, err := New("not-a-rate", "", "")
	assert.Error(t, err)
}

func TestMiddlewareAllowsUnderLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, err := New("5-M", "5-M", "5-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/rooms", rl.Middleware("rooms"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/rooms", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-RateLimit-Limit"))
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, err := New("1-M", "1-M", "5-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/rooms", rl.Middleware("rooms"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/rooms", nil)
	req.RemoteAddr = "203.0.113.5:1234"

	first := httptest.NewRecorder()
	r.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCheckWebSocketConnectRejectsOverLimit(t *testing.T) {
	rl, err := New("5-M", "5-M", "1-M")
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, rl.CheckWebSocketConnect(ctx, "198.51.100.7"))
	assert.False(t, rl.CheckWebSocketConnect(ctx, "198.51.100.7"))
}
