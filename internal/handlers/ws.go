package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hirehub-dev/hirehub/internal/hub"
	"github.com/hirehub-dev/hirehub/internal/metrics"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
	"github.com/hirehub-dev/hirehub/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type inboundFrame struct {
	Type      string `json:"type"`
	ProjectID uint   `json:"project_id"`
	Body      string `json:"body"`
	SenderID  uint   `json:"sender_id"`
}

// wsSession serializes writes: the delivery pump, ping ticker and error
// replies all share one websocket connection.
type wsSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *wsSession) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *wsSession) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// WebSocket is the chat transport: the client joins project rooms and
// sends messages over one long-lived connection, and receives every
// message broadcast to rooms it joined.
func (h *Handler) WebSocket(c *gin.Context) {
	currentUser, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	session := &wsSession{conn: conn}
	hubConn := hub.NewConn(uuid.NewString(), currentUser.ID)

	metrics.ActiveConnections.Inc()

	defer func() {
		h.hub.Disconnect(hubConn)
		conn.Close()
		metrics.ActiveConnections.Dec()
		log.Printf("WebSocket connection %s closed for user %d", hubConn.ID, currentUser.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	if err := session.writeJSON(gin.H{
		"type":    "connected",
		"message": "WebSocket connection established",
	}); err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	// Delivery pump: drains the hub's per-connection queue in order, so
	// wire order matches broadcast order.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case view, ok := <-hubConn.Deliveries:
				if !ok {
					return
				}
				if err := session.writeJSON(gin.H{"type": "new_message", "message": view}); err != nil {
					log.Printf("Failed to deliver message on connection %s: %v", hubConn.ID, err)
					h.hub.Disconnect(hubConn)
					conn.Close()
					return
				}
			case <-ticker.C:
				if err := session.ping(); err != nil {
					log.Printf("Ping failed on connection %s: %v", hubConn.ID, err)
					return
				}
			}
		}
	}()

	for {
		var frame inboundFrame

		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on connection %s: %v", hubConn.ID, err)
			}
			break
		}

		switch frame.Type {
		case "join":
			h.hub.Join(hubConn, frame.ProjectID)
			log.Printf("Connection %s joined project %d", hubConn.ID, frame.ProjectID)

		case "send_message":
			// The original portal trusts a client-supplied sender; keep
			// that, defaulting to the authenticated user.
			senderID := frame.SenderID
			if senderID == 0 {
				senderID = currentUser.ID
			}

			if _, err := h.hub.Send(frame.ProjectID, senderID, frame.Body); err != nil {
				if writeErr := session.writeJSON(gin.H{"type": "error", "error": sendErrorMessage(err)}); writeErr != nil {
					log.Printf("Failed to report send error on connection %s: %v", hubConn.ID, writeErr)
				}
				continue
			}
			log.Printf("Message sent in project %d by user %d", frame.ProjectID, senderID)

		default:
			if err := session.writeJSON(gin.H{"type": "error", "error": "Unknown event type"}); err != nil {
				log.Printf("Failed to report unknown event on connection %s: %v", hubConn.ID, err)
			}
		}
	}
}

func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidReference):
		return "Unknown project"
	case errors.Is(err, store.ErrNotFound):
		return "Unknown sender"
	default:
		return "Failed to send message"
	}
}
