// Package live pushes change notifications to connected admin panels over a
// websocket, so a second admin sees edits without a manual refresh. It does
// not resolve concurrent edits; persistence stays last-write-wins.
package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/testgcahm/gis/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}

		case <-h.done:
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

// EventsChanged tells every connected panel the event collection changed.
func (h *Hub) EventsChanged() {
	msg, _ := json.Marshal(map[string]any{
		"action":    "events-changed",
		"timestamp": time.Now().Unix(),
	})
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ServeWS upgrades an admin connection. Browsers cannot set headers on
// websocket dials, so the bearer token arrives as a query parameter.
func (h *Hub) ServeWS(gate *middleware.Gate) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if _, err := gate.VerifyToken(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "err", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, 16)}
		h.register <- c

		go c.writePump()
		go c.readPump(h)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to detect the close.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
