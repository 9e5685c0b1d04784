package collab

import (
	"codehabit_backend/pkg/logger"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// ClientOptions tune a single websocket connection.
type ClientOptions struct {
	MaxMessageSize    int64
	MessagesPerSecond float64
	Burst             int
	CheckOrigin       func(r *http.Request) bool
}

type Client struct {
	ID      string
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Limiter *rate.Limiter
}

func newClient(hub *Hub, conn *websocket.Conn, opts ClientOptions) *Client {
	return &Client{
		ID:      uuid.NewString(),
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Limiter: rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), opts.Burst),
	}
}

// enqueue never blocks the hub; a client that cannot keep up loses messages.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.Send <- payload:
	default:
		logger.Log.Warn("Collab send buffer full, dropping message", zap.String("connId", c.ID))
	}
}

func (c *Client) readPump(maxMessageSize int64) {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.stopped:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("connId", c.ID))
			}
			return
		}

		if !c.Limiter.Allow() {
			continue
		}

		// an unreadable frame reaches the hub with an empty type
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = Message{}
		}

		select {
		case c.Hub.inbound <- inbound{client: c, msg: msg}:
		case <-c.Hub.stopped:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one frame per event, clients parse each text frame as a single JSON document
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and attaches the connection to the hub.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, opts ClientOptions) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     opts.CheckOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	client := newClient(hub, conn, opts)

	select {
	case hub.register <- client:
	case <-hub.stopped:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(opts.MaxMessageSize)
}
