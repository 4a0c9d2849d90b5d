package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybook-api/internal/interfaces/http/handler"
)

func newHealthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHealthHandler(nil, nil)

	r := gin.New()
	r.GET("/live", h.Live)
	r.GET("/ready", h.Ready)
	api := r.Group("/api")
	{
		api.GET("/", h.Root)
		api.GET("/health", h.Health)
	}
	return r
}

func TestRoot(t *testing.T) {
	r := newHealthRouter()

	w := doJSON(t, r, http.MethodGet, "/api/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello World", resp["message"])
}

func TestHealth(t *testing.T) {
	r := newHealthRouter()

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Storybook API is running", resp.Message)
}

func TestLive(t *testing.T) {
	r := newHealthRouter()

	w := doJSON(t, r, http.MethodGet, "/live", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReadyWithoutPostgres(t *testing.T) {
	r := newHealthRouter()

	// Postgres 未配置时不可就绪
	w := doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
