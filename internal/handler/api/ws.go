package api

import (
	"net/http"
	"sync"
	"time"

	models "Moonlander/internal/domain/models"
	xlogger "Moonlander/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	clientSendSize = 4
)

// Hub pushes each published batch to connected websocket clients. A
// client that cannot keep up is dropped; the next connection gets the
// current batch immediately.
type Hub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    *models.Batch
}

type wsClient struct {
	conn *websocket.Conn
	send chan *models.Batch
}

func NewHub(logger *xlogger.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Broadcast queues the batch for every connected client.
func (h *Hub) Broadcast(b *models.Batch) {
	h.mu.Lock()
	h.last = b
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			// Slow consumer: drop it rather than block publication.
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// Serve upgrades the connection and streams batches until the client
// disconnects.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		conn: conn,
		send: make(chan *models.Batch, clientSendSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	if h.last != nil {
		client.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(client)
	go h.readLoop(client)
	return nil
}

func (h *Hub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case batch, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(batch); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

// readLoop discards inbound frames; its job is noticing the close.
func (h *Hub) readLoop(c *wsClient) {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
