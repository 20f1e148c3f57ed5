package websocket

import (
	"encoding/json"
	"time"

	"github.com/buddyboard/buddyboard/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024 // 64KB
)

// EventHandler processes application-level events read off a connection.
// Join/leave are handled by the read pump itself.
type EventHandler interface {
	HandleEvent(client *Client, event *Event) error
}

func NewClient(hub *Hub, conn *websocket.Conn, identity session.Identity) *Client {
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Groups:   make(map[uint]bool),
		Hub:      hub,
	}
}

// ReadPump reads events from the client until the connection drops.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event Event
		if err := c.Conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warnw("websocket read error", "client_id", c.ID, "error", err)
			}
			break
		}

		switch event.Type {
		case TypePong:
			continue

		case TypeJoinGroup:
			if event.GroupID != 0 {
				c.Hub.JoinRoom(c, event.GroupID)
			}
			continue

		case TypeLeaveGroup:
			if event.GroupID != 0 {
				c.Hub.LeaveRoom(c, event.GroupID)
			}
			continue
		}

		if handler != nil {
			if err := handler.HandleEvent(c, &event); err != nil {
				c.Hub.log.Warnw("event handling failed", "client_id", c.ID, "type", event.Type, "error", err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump forwards queued payloads to the connection and keeps it alive
// with pings.
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
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues a single event for this client only.
func (c *Client) SendEvent(eventType EventType, payload any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		event.Data = data
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.Send <- raw:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(message string) {
	c.SendEvent(TypeError, map[string]string{"error": message})
}

func (c *Client) IsInGroup(groupID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Groups[groupID]
}
