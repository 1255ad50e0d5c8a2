package hub

import (
	"fmt"
	"sync"
	"time"

	"github.com/hirehub-dev/hirehub/internal/metrics"
	"github.com/hirehub-dev/hirehub/internal/models"
	"github.com/hirehub-dev/hirehub/internal/store"
	"github.com/hirehub-dev/hirehub/internal/types"
)

// deliveryBuffer is the per-connection outbound queue. A subscriber that
// falls this far behind is dropped instead of stalling the room.
const deliveryBuffer = 64

// Conn is one logical subscriber. The transport layer reads Deliveries and
// writes each message to the wire in the order received.
type Conn struct {
	ID         string
	UserID     uint
	Deliveries chan types.MessageResponse

	closed bool // guarded by the hub mutex
}

func NewConn(id string, userID uint) *Conn {
	return &Conn{
		ID:         id,
		UserID:     userID,
		Deliveries: make(chan types.MessageResponse, deliveryBuffer),
	}
}

// Hub routes chat messages between subscribers of per-project rooms and
// persists them through the store. Room membership and broadcast serialize
// under one mutex, so a Join that returns before a Send begins is
// guaranteed that message, and delivery order within a room matches send
// order.
type Hub struct {
	store store.Store

	mu          sync.Mutex
	rooms       map[uint]map[*Conn]bool
	memberships map[*Conn]map[uint]bool

	responder *Responder
}

func New(st store.Store, autoReplyDelay time.Duration) *Hub {
	h := &Hub{
		store:       st,
		rooms:       make(map[uint]map[*Conn]bool),
		memberships: make(map[*Conn]map[uint]bool),
	}
	h.responder = newResponder(st, h, autoReplyDelay)

	return h
}

// Join subscribes conn to the project's room. Joining twice is a no-op.
// The project is not validated to exist; joining an unknown room is
// permitted, matching the original portal's behavior.
func (h *Hub) Join(conn *Conn, projectID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn.closed {
		return
	}

	if h.rooms[projectID] == nil {
		h.rooms[projectID] = make(map[*Conn]bool)
	}
	h.rooms[projectID][conn] = true

	if h.memberships[conn] == nil {
		h.memberships[conn] = make(map[uint]bool)
	}
	h.memberships[conn][projectID] = true
}

// Disconnect removes conn from every room it joined and closes its
// delivery channel. Safe to call more than once.
func (h *Hub) Disconnect(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(conn)
}

// Send persists a message and broadcasts it to every current subscriber of
// the project's room, the sender included. The sender must resolve to a
// known user. An unknown project fails with store.ErrInvalidReference:
// nothing is written, nothing is broadcast. A manager send arms one
// delayed auto-reply.
func (h *Hub) Send(projectID uint, senderID uint, body string) (types.MessageResponse, error) {
	sender, err := h.store.FindUser(store.UserFilter{ID: &senderID})
	if err != nil {
		return types.MessageResponse{}, fmt.Errorf("resolve sender %d: %w", senderID, err)
	}

	view, err := h.deliver(projectID, sender, body)
	if err != nil {
		return types.MessageResponse{}, err
	}

	if sender.Role == types.RoleManager {
		h.responder.Arm(projectID)
	}

	return view, nil
}

// deliver persists and broadcasts without touching the responder. The
// auto-reply goes through here directly so it can never re-arm itself,
// even when the resolved candidate happens to hold a manager account.
func (h *Hub) deliver(projectID uint, sender *models.User, body string) (types.MessageResponse, error) {
	message := &models.Message{
		ProjectID: projectID,
		SenderID:  sender.ID,
		Body:      body,
	}

	if err := h.store.CreateMessage(message); err != nil {
		return types.MessageResponse{}, err
	}

	view := hydrate(message, sender)
	h.broadcast(projectID, view)
	metrics.MessagesSent.Inc()

	return view, nil
}

// broadcast enqueues under the hub lock so per-room FIFO holds. A
// subscriber whose buffer is full is dropped and closed rather than
// blocking everyone else, mirroring how failed websocket writes evict a
// client.
func (h *Hub) broadcast(projectID uint, view types.MessageResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.rooms[projectID] {
		select {
		case conn.Deliveries <- view:
		default:
			h.dropLocked(conn)
		}
	}
}

func (h *Hub) dropLocked(conn *Conn) {
	if conn.closed {
		return
	}
	conn.closed = true

	for projectID := range h.memberships[conn] {
		delete(h.rooms[projectID], conn)
		if len(h.rooms[projectID]) == 0 {
			delete(h.rooms, projectID)
		}
	}
	delete(h.memberships, conn)

	close(conn.Deliveries)
}

// hydrate turns a stored message into its delivery form, with the sender
// reference replaced by a user view. The hydrated form is never stored.
func hydrate(message *models.Message, sender *models.User) types.MessageResponse {
	return types.MessageResponse{
		ID:        message.ID,
		ProjectID: message.ProjectID,
		Body:      message.Body,
		SentAt:    message.SentAt,
		Sender: types.UserView{
			ID:    sender.ID,
			Email: sender.Email,
			Role:  sender.Role,
		},
	}
}
