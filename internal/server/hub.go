package server

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types on the feed socket.
const (
	MsgFrame    = "frame"
	MsgError    = "error"
	MsgSnapshot = "snapshot"
	MsgStep     = "step"
	MsgPause    = "pause"
	MsgResume   = "resume"
)

// sendBuffer is how many messages a client may fall behind.
const sendBuffer = 64

// WSMessage is the envelope for every websocket message in both directions.
type WSMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Client is one websocket connection and its outgoing queue.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func newHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("client registered", zap.String("client_id", client.id), zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("client unregistered", zap.String("client_id", client.id), zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("client is behind, dropping frame", zap.String("client_id", client.id))
				}
			}
		}
	}
}

// publish hands message to the hub unless it has stopped.
func (h *Hub) publish(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// reply queues message for this client only. Replies are dropped for
// clients that have fallen behind.
func (c *Client) reply(message []byte) {
	select {
	case c.send <- message:
	default:
	}
}

func (c *Client) readPump(s *Server) {
	defer func() {
		s.hub.leave(c)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("failed to unmarshal message", zap.String("client_id", c.id), zap.Error(err))
			c.reply(encode(WSMessage{Type: MsgError, Data: "malformed message"}))
			continue
		}
		s.handleMessage(c, msg)
	}
}

func (c *Client) writePump(hub *Hub) {
	defer c.conn.Close()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-hub.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"))
			return
		}
	}
}

func encode(msg WSMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		// every payload is built from plain structs
		panic(err)
	}
	return data
}
