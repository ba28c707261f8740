package monitoring

import (
	"log"
	"net/http"
	"sync"

	"cms-backend/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans committed dispatch events out to websocket subscribers. The feed
// is a live convenience view; a dropped client misses events and catches up
// from the reconciliation API.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan models.DispatchEvent
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan models.DispatchEvent, 64),
	}
}

// Run pumps broadcast events to all connected clients.
func (h *Hub) Run() {
	for ev := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// BroadcastDispatch queues an event for all subscribers without blocking the
// release path.
func (h *Hub) BroadcastDispatch(ev models.DispatchEvent) {
	select {
	case h.broadcast <- ev:
	default:
		log.Println("[Monitoring] Dispatch feed buffer full, dropping event")
	}
}

// HandleWebSocket upgrades the connection and registers the subscriber.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] WebSocket upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Reader loop exists only to detect disconnects.
	go func() {
		defer func() {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
