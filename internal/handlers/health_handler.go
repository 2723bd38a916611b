package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dias221467/Travel_Planner/pkg/logger"
)

// QueueDepth reports how many notifications wait for a retry.
type QueueDepth interface {
	Len(ctx context.Context) (int64, error)
}

// ConnectionCounter reports how many live notification sockets are open.
type ConnectionCounter interface {
	OpenConnections() int
}

var _ ConnectionCounter = (*NotificationHub)(nil)

type HealthHandler struct {
	started time.Time
	outbox  QueueDepth
	sockets ConnectionCounter
}

// NewHealthHandler creates a HealthHandler. outbox and sockets may be nil.
func NewHealthHandler(outbox QueueDepth, sockets ConnectionCounter) *HealthHandler {
	return &HealthHandler{started: time.Now(), outbox: outbox, sockets: sockets}
}

// GET /health
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	if h.outbox != nil {
		n, err := h.outbox.Len(r.Context())
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to read outbox length")
			body["outbox"] = "unavailable"
		} else {
			body["outboxPending"] = n
		}
	}
	if h.sockets != nil {
		body["websocketConnections"] = h.sockets.OpenConnections()
	}
	writeJSON(w, http.StatusOK, body)
}
