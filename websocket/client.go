package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/harshith2312008/leon-chat-app/chat"
	"github.com/harshith2312008/leon-chat-app/logger"
	"github.com/harshith2312008/leon-chat-app/models"
	"github.com/harshith2312008/leon-chat-app/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MessageSender is the slice of the chat service the socket layer
// needs for the client->server send_message action.
type MessageSender interface {
	SendMessage(senderID, receiverID, content, originConnID string) (*models.Message, error)
}

var chatService MessageSender

// BindService wires the chat service used by connection read loops.
func BindService(svc MessageSender) {
	chatService = svc
}

// Client is one live connection: the ephemeral (user, connection)
// pair tracked by the hub. Never persisted.
type Client struct {
	ID     string
	UserID string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
}

// ClientMessage is the client->server frame.
type ClientMessage struct {
	Action     string `json:"action"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read", "user_id", c.UserID, "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) WritePump() {
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

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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

func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendEvent(&models.Event{Event: models.EventError, Data: gin.H{"message": "malformed frame"}})
		return
	}

	switch msg.Action {
	case "ping":
		c.sendEvent(&models.Event{Event: models.EventPong})
	case "send_message":
		c.handleSendMessage(&msg)
	default:
		c.sendEvent(&models.Event{Event: models.EventError, Data: gin.H{"message": "unknown action"}})
	}
}

func (c *Client) handleSendMessage(msg *ClientMessage) {
	stored, err := chatService.SendMessage(c.UserID, msg.ReceiverID, msg.Content, c.ID)
	if err != nil {
		c.sendEvent(&models.Event{Event: models.EventError, Data: gin.H{"message": sendErrorMessage(err)}})
		return
	}

	// Ack to the originating connection; other devices get the
	// message_sent echo from the pipeline.
	c.sendEvent(&models.Event{Event: models.EventMessageSent, Data: stored})
}

// sendErrorMessage keeps internal failure detail off the wire.
func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrInvalidRequest):
		return "invalid message"
	case errors.Is(err, chat.ErrForbidden):
		return "you can only message friends"
	default:
		return "failed to send message"
	}
}

func (c *Client) sendEvent(event *models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// HandleWebSocket upgrades the connection. The JWT carried in the
// token query parameter is the identity announcement: a connection is
// only registered once it maps to a verified user id.
func HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade", "error", err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Hub:    HubInstance,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	client.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
