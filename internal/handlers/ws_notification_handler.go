package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/services"
	jwtutil "github.com/Dias221467/Travel_Planner/pkg/jwt"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var _ services.NotificationPublisher = (*NotificationHub)(nil)

type wsClient struct {
	userID string
	conn   *websocket.Conn
	send   chan *models.Notification
}

// NotificationHub pushes persisted notifications to the recipient's open sockets.
type NotificationHub struct {
	JWTSecret string

	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewNotificationHub(jwtSecret string) *NotificationHub {
	return &NotificationHub{
		JWTSecret: jwtSecret,
		clients:   make(map[string]map[*wsClient]struct{}),
	}
}

func (h *NotificationHub) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/notifications", h.ServeWS).Methods("GET")
}

// Publish never blocks: a client whose buffer is full misses the message and
// can still read it from GET /notifications.
func (h *NotificationHub) Publish(n *models.Notification) {
	if n == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[n.UserID.Hex()] {
		select {
		case c.send <- n:
		default:
			logger.Log.WithField("user_id", c.userID).Warn("Websocket send buffer full, dropping notification")
		}
	}
}

// OpenConnections returns the number of open sockets across all users.
func (h *NotificationHub) OpenConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// GET /ws/notifications?token=...
func (h *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "Missing token")
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket auth failed")
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &wsClient{userID: claims.UserID, conn: conn, send: make(chan *models.Notification, wsSendBuffer)}
	h.register(c)
	logger.Log.WithField("user_id", c.userID).Info("WebSocket connected")

	go h.writePump(c)
	h.readPump(c)
}

func (h *NotificationHub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*wsClient]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *NotificationHub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

// readPump only drains control frames; clients never send data.
func (h *NotificationHub) readPump(c *wsClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		logger.Log.WithField("user_id", c.userID).Info("WebSocket disconnected")
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Warn("WebSocket read error")
			}
			return
		}
	}
}

func (h *NotificationHub) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case n, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(map[string]interface{}{
				"type":         "notification",
				"notification": n,
			}); err != nil {
				logger.Log.WithFields(logrus.Fields{"user_id": c.userID}).WithError(err).Warn("WebSocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
