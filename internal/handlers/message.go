package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/handlers/dto"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/models"
	"github.com/buddyboard/buddyboard/internal/session"
	ws "github.com/buddyboard/buddyboard/internal/websocket"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler owns the message write path: persist, then fan out to the
// group's room. The HTTP endpoint and the send_message realtime event are
// both thin triggers over Post.
type MessageHandler struct {
	db  *database.Database
	hub *ws.Hub
	log *zap.SugaredLogger
}

func NewMessageHandler(db *database.Database, hub *ws.Hub, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{db: db, hub: hub, log: log}
}

// Post appends the message to the group's log and broadcasts it. The
// broadcast is independent of any HTTP response: a slow subscriber never
// blocks or fails the write.
func (h *MessageHandler) Post(groupID uint, author session.Identity, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ws.ErrInvalidEvent
	}

	message := &models.Message{
		GroupID:   groupID,
		UserName:  author.Name,
		Content:   content,
		UserImage: author.Picture,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.db.SaveMessage(message); err != nil {
		return err
	}

	payload := dto.ChatMessage{
		User:      author.Name,
		Message:   content,
		UserImage: author.Picture,
	}
	if err := h.hub.BroadcastEvent(groupID, ws.TypeGroupMessage, payload); err != nil {
		h.log.Warnw("broadcast message", "group_id", groupID, "error", err)
	}

	return nil
}

// SendMessage is the HTTP trigger: POST /api/groups/:id/send-message.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	exists, err := h.db.GroupExists(groupID)
	if err != nil {
		h.log.Errorw("check group", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	if err := h.Post(groupID, identity, req.Message); err != nil {
		if err == ws.ErrInvalidEvent {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}
		h.log.Errorw("save message", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

// ListMessages returns the group's chat log in creation order.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	messages, err := h.db.ListGroupMessages(groupID)
	if err != nil {
		h.log.Errorw("list messages", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	result := make([]dto.ChatMessage, len(messages))
	for i, msg := range messages {
		result[i] = dto.ChatMessage{
			User:      msg.UserName,
			Message:   msg.Content,
			UserImage: msg.UserImage,
		}
	}

	c.JSON(http.StatusOK, gin.H{"messages": result})
}

// HandleEvent is the realtime trigger; it funnels send_message events into
// the same write path as the HTTP endpoint.
func (h *MessageHandler) HandleEvent(client *ws.Client, event *ws.Event) error {
	switch event.Type {
	case ws.TypeSendMessage:
		return h.handleSendMessage(client, event)
	default:
		h.log.Debugw("unknown event type", "type", event.Type)
		return nil
	}
}

func (h *MessageHandler) handleSendMessage(client *ws.Client, event *ws.Event) error {
	if event.GroupID == 0 {
		return ws.ErrInvalidEvent
	}
	if !client.IsInGroup(event.GroupID) {
		return ws.ErrNotInGroupRoom
	}

	var payload dto.SendMessagePayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return ws.ErrInvalidEvent
	}

	return h.Post(event.GroupID, client.Identity, payload.Message)
}
