package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

var errorStatuses = []struct {
	kind   error
	status int
}{
	{services.ErrTravelerNotFound, http.StatusNotFound},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrConflict, http.StatusConflict},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrBadRequest, http.StatusBadRequest},
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrUnauthorized, http.StatusUnauthorized},
}

// writeError maps service errors to a status and a client-safe message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			msg := strings.TrimPrefix(err.Error(), e.kind.Error()+": ")
			writeMessage(w, e.status, msg)
			return
		}
	}
	logger.Log.WithError(err).Error(fallback)
	writeMessage(w, http.StatusInternalServerError, fallback)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// actorFromRequest returns the caller, or the zero Actor for anonymous requests.
func actorFromRequest(r *http.Request) services.Actor {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return services.Actor{}
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return services.Actor{}
	}
	return services.Actor{ID: id, Role: claims.Role}
}

// requireActor writes 401 and returns false when the request is anonymous.
func requireActor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor := actorFromRequest(r)
	if actor.ID.IsZero() {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return actor, false
	}
	return actor, true
}
