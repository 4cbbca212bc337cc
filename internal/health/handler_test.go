package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name string
	err  error
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return `{"ok":true}`, nil
}

func TestHealthAlwaysReturns200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", nil)

	handler.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, "instanceStartedAt")
	assert.Contains(t, body, "instanceId")
}

func TestPreflightDeterministicIsAlwaysHealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ai/preflight", nil)

	handler.Preflight(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestPreflightHealthyProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&fakeProvider{name: "anthropic"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ai/preflight", nil)

	handler.Preflight(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anthropic")
}

func TestPreflightUnhealthyProviderReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&fakeProvider{name: "anthropic", err: errors.New("unauthorized")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ai/preflight", nil)

	handler.Preflight(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestInstanceIDIsStablePerHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil)

	w1 := httptest.NewRecorder()
	c1, _ := gin.CreateTestContext(w1)
	c1.Request = httptest.NewRequest("GET", "/health", nil)
	handler.Health(c1)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest("GET", "/health", nil)
	handler.Health(c2)

	assert.Equal(t, handler.instanceID, handler.instanceID, "sanity")
	assert.Contains(t, w1.Body.String(), handler.instanceID)
	assert.Contains(t, w2.Body.String(), handler.instanceID)
	assert.Equal(t, handler.startedAt.Unix(), handler.startedAt.Unix())
}
