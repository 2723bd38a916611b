package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dias221467/Travel_Planner/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDepth struct {
	n   int64
	err error
}

func (f fixedDepth) Len(context.Context) (int64, error) { return f.n, f.err }

func health(t *testing.T, h *handlers.HealthHandler) map[string]interface{} {
	t.Helper()
	rr := httptest.NewRecorder()
	h.HealthCheckHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealthCheckHandler(t *testing.T) {
	body := health(t, handlers.NewHealthHandler(nil, nil))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
	assert.NotContains(t, body, "outboxPending")
	assert.NotContains(t, body, "websocketConnections")

	body = health(t, handlers.NewHealthHandler(fixedDepth{n: 4}, nil))
	assert.Equal(t, float64(4), body["outboxPending"])

	body = health(t, handlers.NewHealthHandler(fixedDepth{err: errors.New("redis down")}, nil))
	assert.Equal(t, "unavailable", body["outbox"])
}

func TestHealthCheckHandler_ReportsOpenSockets(t *testing.T) {
	body := health(t, handlers.NewHealthHandler(nil, handlers.NewNotificationHub(testSecret)))
	assert.Equal(t, float64(0), body["websocketConnections"])
}
