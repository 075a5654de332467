package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/config"
)

func TestHealthHandler_Ping(t *testing.T) {
	cfg := &config.Config{Version: "1.2.3", Env: "local"}
	h := NewHealthHandler(cfg, nil, zap.NewNop())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp PingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "advisor-engine", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "local", resp.Environment)
	assert.NotEmpty(t, resp.Hostname)
	assert.NotEmpty(t, resp.GoVersion)
}
