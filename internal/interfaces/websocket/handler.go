package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// MessageType 消息类型
type MessageType string

const (
	MessageTypeNotification MessageType = "notification"
	MessageTypePing         MessageType = "ping"
	MessageTypePong         MessageType = "pong"
)

// WSMessage WebSocket 消息
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Client is one live dashboard connection of a host.
type Client struct {
	ID     string
	HostID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger *zap.Logger
}

// Hub fans host notifications out to that host's open connections.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewHub 创建连接中心. allowedOrigins empty accepts any origin.
func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// Run 运行连接中心
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, c := range h.clients {
				c.conn.Close()
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Client connected",
				zap.String("client_id", client.ID),
				zap.String("host_id", client.HostID),
			)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client disconnected", zap.String("client_id", client.ID))
		}
	}
}

// SendToHost delivers msg to every connection of hostID and returns how
// many accepted it. Slow clients are skipped, never waited on.
func (h *Hub) SendToHost(hostID string, msg *WSMessage) int {
	msg.Timestamp = time.Now().Unix()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode message", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, client := range h.clients {
		if client.HostID != hostID {
			continue
		}
		select {
		case client.send <- data:
			delivered++
		default:
			h.logger.Warn("Dropping notification for slow client", zap.String("client_id", client.ID))
		}
	}
	return delivered
}

// HandleIssueReported is an eventbus.Handler for issue notifications.
func (h *Hub) HandleIssueReported(_ context.Context, event eventbus.Event) {
	p, ok := event.Payload().(eventbus.IssueReportedPayload)
	if !ok {
		return
	}
	n := h.SendToHost(p.HostID, &WSMessage{Type: MessageTypeNotification, Data: p})
	h.logger.Debug("Issue notification pushed",
		zap.String("host_id", p.HostID),
		zap.Int("connections", n),
	)
}

// GetClientCount 获取客户端数量
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an authenticated host request.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, hostID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		HostID: hostID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
		logger: h.logger,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump 读取消息; hosts only send pings.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == MessageTypePing {
			select {
			case c.send <- mustMarshal(&WSMessage{Type: MessageTypePong, Timestamp: time.Now().Unix()}):
			default:
			}
		}
	}
}

// writePump 写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func mustMarshal(v interface{}) []byte {
	data, _ := json.Marshal(v)
	return data
}
