package messaging

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

// Live event types.
const (
	EventState = "state"
	EventSlide = "slide"
	EventSaved = "saved"
	EventError = "error"
)

// ErrTooManyClients is returned when a page already has its maximum number of
// live connections.
var ErrTooManyClients = errors.New("too many live clients for page")

// LiveEvent is one message pushed to canvas clients.
type LiveEvent struct {
	Type     string `json:"type"`
	PageID   string `json:"pageId"`
	Revision uint64 `json:"revision,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// LiveClient represents a single connected canvas.
type LiveClient struct {
	Conn   *websocket.Conn
	PageID string
	Send   chan []byte
	once   sync.Once
}

// NewLiveClient wraps conn for pageID with a buffered outbound queue.
func NewLiveClient(conn *websocket.Conn, pageID string) *LiveClient {
	return &LiveClient{
		Conn:   conn,
		PageID: pageID,
		Send:   make(chan []byte, 64),
	}
}

func (c *LiveClient) close() {
	c.once.Do(func() { close(c.Send) })
}

// LiveHub manages the websocket clients of every open page.
type LiveHub struct {
	pageClients  map[string]map[*LiveClient]bool
	maxPerPage   int
	writeTimeout time.Duration
	pingInterval time.Duration
	logger       *logging.ChanneledLogger
	mu           sync.RWMutex
}

// NewLiveHub creates a hub. maxPerPage of zero means unbounded.
func NewLiveHub(maxPerPage int, writeTimeout, pingInterval time.Duration, logger *logging.ChanneledLogger) *LiveHub {
	return &LiveHub{
		pageClients:  make(map[string]map[*LiveClient]bool),
		maxPerPage:   maxPerPage,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Register adds a client to its page.
func (h *LiveHub) Register(client *LiveClient) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.pageClients[client.PageID]
	if h.maxPerPage > 0 && len(clients) >= h.maxPerPage {
		return ErrTooManyClients
	}
	if clients == nil {
		clients = make(map[*LiveClient]bool)
		h.pageClients[client.PageID] = clients
	}
	clients[client] = true

	h.logger.Live().Debug("Live client registered", "pageId", client.PageID, "clients", len(clients))
	return nil
}

// Unregister removes a client and closes its queue. Repeated calls are no-ops.
func (h *LiveHub) Unregister(client *LiveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.pageClients[client.PageID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.close()
			if len(clients) == 0 {
				delete(h.pageClients, client.PageID)
			}
			h.logger.Live().Debug("Live client unregistered", "pageId", client.PageID)
		}
	}
}

// ClientCount returns the number of clients watching pageID.
func (h *LiveHub) ClientCount(pageID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pageClients[pageID])
}

// Publish sends event to every client of pageID. A client whose queue is full
// misses the event; state events carry the revision so the canvas can resync.
func (h *LiveHub) Publish(pageID string, event LiveEvent) {
	event.PageID = pageID
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Live().Error("Error marshaling live event", "error", err, "pageId", pageID, "type", event.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.pageClients[pageID] {
		select {
		case client.Send <- message:
		default:
			h.logger.Live().Warn("Live client queue full, message dropped", "pageId", pageID, "type", event.Type)
		}
	}
}

// SendTo queues event for one client. It reports false when the client is gone
// or its queue is full.
func (h *LiveHub) SendTo(client *LiveClient, event LiveEvent) bool {
	event.PageID = client.PageID
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Live().Error("Error marshaling live event", "error", err, "pageId", client.PageID, "type", event.Type)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.pageClients[client.PageID][client] {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// CloseAll disconnects every client.
func (h *LiveHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pageID, clients := range h.pageClients {
		for client := range clients {
			client.close()
		}
		delete(h.pageClients, pageID)
	}
}

// WritePump copies queued messages to the connection and keeps it alive with
// pings. It returns when the queue is closed or a write fails.
func (h *LiveHub) WritePump(client *LiveClient) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump hands each inbound text message to onMessage until the connection
// fails, then unregisters the client.
func (h *LiveHub) ReadPump(client *LiveClient, onMessage func([]byte)) {
	defer h.Unregister(client)

	pongWait := h.pingInterval * 2
	client.Conn.SetReadLimit(1 << 20)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Live().Warn("Live connection closed unexpectedly", "pageId", client.PageID, "error", err)
			}
			return
		}
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		if onMessage != nil {
			onMessage(message)
		}
	}
}
