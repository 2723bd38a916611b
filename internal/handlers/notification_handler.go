package handlers

import (
	"context"
	"net/http"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationManager interface {
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkNotificationAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error
	DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error
}

var _ NotificationManager = (*services.NotificationService)(nil)

type NotificationHandler struct {
	Service NotificationManager
}

func NewNotificationHandler(service NotificationManager) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router, jwtSecret string) {
	protected := router.PathPrefix("/notifications").Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	protected.HandleFunc("", h.GetUserNotificationsHandler).Methods("GET")
	protected.HandleFunc("/{id}/read", h.MarkAsReadHandler).Methods("POST")
	protected.HandleFunc("/{id}", h.DeleteNotificationHandler).Methods("DELETE")
}

// GET /notifications
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	notifications, err := h.Service.GetUserNotifications(r.Context(), actor.ID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch notifications: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// POST /notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.Service.MarkNotificationAsRead(r.Context(), notifID, actor.ID); err != nil {
		writeError(w, err, "Failed to mark as read")
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked as read")
}

// DELETE /notifications/{id}
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), notifID, actor.ID); err != nil {
		writeError(w, err, "Failed to delete notification")
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}
