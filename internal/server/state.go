package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/sharkescape/internal/telemetry"
)

// StateInterval is how often snapshots are pushed, about 15 per second.
const StateInterval = 66 * time.Millisecond

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateSource hands out the latest published snapshot, or nil before the
// first tick.
type StateSource interface {
	Load() *telemetry.Snapshot
}

// StateHandler pushes live shark snapshots to websocket clients. It only
// reads published snapshots and never touches the game state.
type StateHandler struct {
	source   StateSource
	interval time.Duration
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStateHandler creates a handler and starts its broadcast loop. Call
// Close to stop it.
func NewStateHandler(source StateSource, interval time.Duration) *StateHandler {
	if interval <= 0 {
		interval = StateInterval
	}

	h := &StateHandler{
		source:   source,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
		stop:     make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP upgrades the connection and sends the current snapshot, if
// any, before joining the broadcast.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	if snap := h.source.Load(); snap != nil {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		conn.WriteJSON(snap)
	}
	h.mu.Unlock()

	defer h.drop(conn)

	// Reading keeps control frames flowing and notices disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *StateHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops the broadcast loop and disconnects every client.
func (h *StateHandler) Close() {
	h.stopOnce.Do(func() {
		close(h.stop)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
	})
}

func (h *StateHandler) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// broadcast sends each new snapshot to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastTick int64 = -1
	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		snap := h.source.Load()
		if snap == nil || snap.Tick == lastTick {
			continue
		}
		lastTick = snap.Tick

		h.send(snap)
	}
}

func (h *StateHandler) send(snap *telemetry.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
