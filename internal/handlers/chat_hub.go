// institution-portal/internal/handlers/chat_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"institution-portal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsEvent struct {
	Type    string             `json:"type"`
	Payload models.ChatMessage `json:"payload"`
}

type chatClient struct {
	hub           *ChatHub
	conn          *websocket.Conn
	send          chan []byte
	userID        uint
	userName      string
	institutionID uint
}

// ChatHub fans messages out to the online members of each institution.
// Messages are persisted before broadcast so offline members see them on
// their next fetch.
type ChatHub struct {
	db         *gorm.DB
	clients    map[*chatClient]struct{}
	broadcast  chan models.ChatMessage
	register   chan *chatClient
	unregister chan *chatClient
	mu         sync.Mutex
}

func NewChatHub(db *gorm.DB) *ChatHub {
	return &ChatHub{
		db:         db,
		clients:    make(map[*chatClient]struct{}),
		broadcast:  make(chan models.ChatMessage),
		register:   make(chan *chatClient),
		unregister: make(chan *chatClient),
	}
}

// Run owns the client set; start it once from main.
func (h *ChatHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			slog.Info("Chat client registered", "userID", client.userID, "institutionID", client.institutionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Chat client unregistered", "userID", client.userID)

		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

func (h *ChatHub) handleBroadcast(msg models.ChatMessage) {
	if err := h.db.Create(&msg).Error; err != nil {
		slog.Error("Failed to save chat message", "error", err)
		return
	}

	data, err := json.Marshal(wsEvent{Type: "newMessage", Payload: msg})
	if err != nil {
		slog.Error("Failed to marshal chat message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.institutionID != msg.InstitutionID {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (c *chatClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Unexpected websocket close", "error", err)
			}
			break
		}

		var event wsEvent
		if err := json.Unmarshal(data, &event); err != nil {
			slog.Error("Invalid chat message from client", "error", err)
			continue
		}
		// Sender and institution always come from the authenticated
		// connection, never from the payload.
		msg := models.ChatMessage{
			InstitutionID: c.institutionID,
			SenderID:      c.userID,
			SenderName:    c.userName,
			Type:          event.Payload.Type,
			Content:       event.Payload.Content,
		}
		if msg.Content == "" {
			continue
		}
		c.hub.broadcast <- msg
	}
}

func (c *chatClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("Failed to write chat message", "error", err)
			return
		}
	}
}

// ServeWS upgrades the request and attaches the caller to their
// institution's room.
func (h *ChatHub) ServeWS(c *gin.Context) {
	instID, ident, ok := requireInstitution(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	client := &chatClient{
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, 256),
		userID:        ident.UserID,
		userName:      ident.Name,
		institutionID: instID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// History returns the institution's recent messages, oldest first.
func (h *ChatHub) History(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	limit := 100
	var messages []models.ChatMessage
	if err := h.db.Where("institution_id = ?", instID).
		Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch messages"})
		return
	}
	// reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	c.JSON(http.StatusOK, gin.H{"count": len(messages), "messages": messages})
}
