package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VedantYeola/Wear-Story/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 4
)

// CatalogUpdated is the push message type sent after a catalog replacement.
const CatalogUpdated = "catalog.updated"

// CatalogMessage tells browsers to refetch the product list.
type CatalogMessage struct {
	Type      string    `json:"type"`
	ItemCount int       `json:"item_count"`
	At        time.Time `json:"at"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan CatalogMessage
	done chan struct{}
	once sync.Once
}

func (c *hubClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// CatalogHub fans catalog replacements out to websocket clients. Clients
// only listen; anything they send is discarded.
type CatalogHub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*hubClient]struct{}
	closed  bool
}

// NewCatalogHub creates a hub. checkOrigin may be nil to accept any origin.
func NewCatalogHub(checkOrigin func(*http.Request) bool, logger *slog.Logger) *CatalogHub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &CatalogHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger:  logger,
		clients: make(map[*hubClient]struct{}),
	}
}

// ServeWS handles GET /ws/catalog.
func (h *CatalogHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &hubClient{
		conn: conn,
		send: make(chan CatalogMessage, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", slog.String("remote_addr", conn.RemoteAddr().String()))

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues a catalog.updated message for every client. A client
// whose buffer is full misses it; the next message carries the same news.
func (h *CatalogHub) Broadcast(items []domain.Item) {
	msg := CatalogMessage{Type: CatalogUpdated, ItemCount: len(items), At: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Len reports the number of connected clients.
func (h *CatalogHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *CatalogHub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
}

func (h *CatalogHub) remove(c *hubClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("websocket client disconnected", slog.String("remote_addr", c.conn.RemoteAddr().String()))
	}
}

func (h *CatalogHub) readPump(c *hubClient) {
	defer c.stop()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *CatalogHub) writePump(c *hubClient) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		h.remove(c)
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
