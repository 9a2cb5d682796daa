package assistant

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// chatMessage is the inbound frame from the storefront widget.
type chatMessage struct {
	Message string `json:"message"`
}

// ChatServer upgrades HTTP connections to websocket chat sessions and
// answers each message through the configured Responder.
type ChatServer struct {
	responder Responder
}

func NewChatServer(responder Responder) *ChatServer {
	return &ChatServer{responder: responder}
}

// ServeWS handles a websocket chat session. Each inbound text frame is a
// JSON chatMessage; each outbound frame is a JSON Reply.
func (s *ChatServer) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Assistant] websocket upgrade failed: %v", err)
		return
	}

	session := &chatSession{
		server:  s,
		conn:    conn,
		replies: make(chan *Reply, 8),
	}

	go session.writePump()
	session.readPump(r.Context())
}

type chatSession struct {
	server  *ChatServer
	conn    *websocket.Conn
	replies chan *Reply
}

func (c *chatSession) readPump(ctx context.Context) {
	defer func() {
		close(c.replies)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Assistant] websocket read error: %v", err)
			}
			return
		}

		var msg chatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.replies <- &Reply{Message: "Sorry, I couldn't read that message."}
			continue
		}

		reply, err := c.server.responder.Respond(ctx, msg.Message)
		if err != nil {
			log.Printf("[Assistant] responder error: %v", err)
			c.replies <- &Reply{Message: "Sorry, something went wrong. Please try again."}
			continue
		}
		c.replies <- reply
	}
}

func (c *chatSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case reply, ok := <-c.replies:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(reply); err != nil {
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
