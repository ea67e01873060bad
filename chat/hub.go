// Package chat fans order conversations out to WebSocket subscribers. Every
// change pushes the complete, timestamp-ordered message list of the order.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Subscription is one connection watching one order. Its writer goroutine is
// the only one that writes to conn.
type Subscription struct {
	OrderID uint
	UserID  uint
	conn    *websocket.Conn
	send    chan Snapshot
}

// Snapshot is the frame sent to subscribers.
type Snapshot struct {
	OrderID  uint                 `json:"order_id"`
	Messages []models.ChatMessage `json:"messages"`
}

// Loader reads the current conversation of the subscribed order.
type Loader func(ctx context.Context) ([]models.ChatMessage, error)

// MessageHandler persists a message a subscriber typed into the socket.
type MessageHandler func(ctx context.Context, orderID, userID uint, text string) error

type Hub struct {
	clients    map[uint]map[*Subscription]struct{} // orderID -> subscribers
	broadcast  chan Snapshot
	register   chan *Subscription
	unregister chan *Subscription
	done       chan struct{}
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Subscription]struct{}),
		broadcast:  make(chan Snapshot, 64),
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Run owns the subscriber map until ctx is cancelled, then closes every
// subscriber. It never writes to a socket itself.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.clients {
				for sub := range subs {
					close(sub.send)
				}
			}
			h.clients = map[uint]map[*Subscription]struct{}{}
			return nil

		case sub := <-h.register:
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*Subscription]struct{})
			}
			h.clients[sub.OrderID][sub] = struct{}{}

		case sub := <-h.unregister:
			h.drop(sub)

		case snap := <-h.broadcast:
			for sub := range h.clients[snap.OrderID] {
				select {
				case sub.send <- snap:
				default:
					h.log.Warn("chat: subscriber too slow, dropping", "order_id", snap.OrderID, "user_id", sub.UserID)
					h.drop(sub)
				}
			}
		}
	}
}

func (h *Hub) drop(sub *Subscription) {
	if _, ok := h.clients[sub.OrderID][sub]; !ok {
		return
	}
	delete(h.clients[sub.OrderID], sub)
	close(sub.send)
	if len(h.clients[sub.OrderID]) == 0 {
		delete(h.clients, sub.OrderID)
	}
}

// Publish queues the full current message list of an order for every
// subscriber of that order.
func (h *Hub) Publish(orderID uint, messages []models.ChatMessage) {
	snap := Snapshot{OrderID: orderID, Messages: messages}
	select {
	case h.broadcast <- snap:
	default:
		h.log.Warn("chat: broadcast queue full, snapshot dropped", "order_id", orderID)
	}
}

// Serve upgrades the request and registers the connection. The first frame
// is the conversation as load returns it after registration, so nothing
// published in between is missed. Every frame the client sends goes to
// onMessage until the connection closes.
func (h *Hub) Serve(c *gin.Context, orderID, userID uint, load Loader, onMessage MessageHandler) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("chat: websocket upgrade failed", "order_id", orderID, "error", err)
		return
	}
	sub := &Subscription{OrderID: orderID, UserID: userID, conn: conn, send: make(chan Snapshot, sendBuffer)}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}
	go h.write(sub, load)
	go h.listen(sub, onMessage)
}

// write sends the loaded conversation, then every queued snapshot that is
// newer than the last one written. Messages are never deleted, so a list
// that is not longer than the last one sent carries nothing new.
func (h *Hub) write(sub *Subscription, load Loader) {
	defer sub.conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	initial, err := load(ctx)
	cancel()
	if err != nil {
		h.log.Warn("chat: loading conversation failed", "order_id", sub.OrderID, "user_id", sub.UserID, "error", err)
		return
	}
	if err := writeSnapshot(sub.conn, Snapshot{OrderID: sub.OrderID, Messages: initial}); err != nil {
		return
	}
	sent := len(initial)

	for snap := range sub.send {
		if len(snap.Messages) <= sent {
			continue
		}
		if err := writeSnapshot(sub.conn, snap); err != nil {
			h.log.Warn("chat: write failed", "order_id", sub.OrderID, "user_id", sub.UserID, "error", err)
			return
		}
		sent = len(snap.Messages)
	}
	_ = sub.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
}

func (h *Hub) listen(sub *Subscription, onMessage MessageHandler) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()

	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("chat: read ended", "order_id", sub.OrderID, "error", err)
			}
			return
		}
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			h.log.Debug("chat: invalid frame", "order_id", sub.OrderID, "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err = onMessage(ctx, sub.OrderID, sub.UserID, payload.Text)
		cancel()
		if err != nil {
			h.log.Warn("chat: message rejected", "order_id", sub.OrderID, "user_id", sub.UserID, "error", err)
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap Snapshot) error {
	if snap.Messages == nil {
		snap.Messages = []models.ChatMessage{}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}
