package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/handlers"
	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationHub_PushesToRecipientOnly(t *testing.T) {
	hub := handlers.NewNotificationHub(testSecret)
	router := mux.NewRouter()
	hub.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	alice := primitive.NewObjectID()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + tokenFor(t, alice, models.RoleUser)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.OpenConnections() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(&models.Notification{UserID: primitive.NewObjectID(), Type: models.NotificationInvite, Title: "not yours"})
	hub.Publish(&models.Notification{UserID: alice, Type: models.NotificationInvite, Title: "Itinerary invitation"})

	var msg struct {
		Type         string              `json:"type"`
		Notification models.Notification `json:"notification"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "Itinerary invitation", msg.Notification.Title)
	assert.Equal(t, alice, msg.Notification.UserID)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.OpenConnections() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationHub_RejectsMissingOrBadToken(t *testing.T) {
	hub := handlers.NewNotificationHub(testSecret)

	rr := httptest.NewRecorder()
	hub.ServeWS(rr, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	hub.ServeWS(rr, httptest.NewRequest(http.MethodGet, "/ws/notifications?token=nope", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestNotificationHub_PublishWithoutClientsIsNoop(t *testing.T) {
	hub := handlers.NewNotificationHub(testSecret)
	hub.Publish(nil)
	hub.Publish(&models.Notification{UserID: primitive.NewObjectID()})
}

func TestNotificationHub_UpgradesThroughLoggingMiddleware(t *testing.T) {
	hub := handlers.NewNotificationHub(testSecret)
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	hub.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	bob := primitive.NewObjectID()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + tokenFor(t, bob, models.RoleUser)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.OpenConnections() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(&models.Notification{UserID: bob, Type: models.NotificationUpdate, Title: "Itinerary updated"})

	var msg struct {
		Notification models.Notification `json:"notification"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "Itinerary updated", msg.Notification.Title)
}
