package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/buddyboard/buddyboard/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventType names the realtime events exchanged with clients.
type EventType string

const (
	TypeJoinGroup    EventType = "join_group"
	TypeLeaveGroup   EventType = "leave_group"
	TypeSendMessage  EventType = "send_message"
	TypeGroupMessage EventType = "group_message"
	TypeError        EventType = "error"
	TypePing         EventType = "ping"
	TypePong         EventType = "pong"
)

// Event is the wire envelope for all realtime traffic.
type Event struct {
	Type      EventType       `json:"type"`
	GroupID   uint            `json:"group_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID       uuid.UUID
	Identity session.Identity
	Conn     *websocket.Conn
	Send     chan []byte
	Groups   map[uint]bool
	Hub      *Hub
	mu       sync.RWMutex
}

// Hub fans newly created messages out to every client subscribed to a
// group's room. Room membership is explicit: clients join and leave by
// group ID.
type Hub struct {
	clients map[uuid.UUID]*Client

	// rooms maps group ID to the clients currently subscribed to it.
	rooms map[uint]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	log *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(log *zap.SugaredLogger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		rooms:      make(map[uint]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes registrations until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop shuts down the hub and closes every connection.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[uint]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Debugw("client registered", "client_id", client.ID, "user", client.Identity.Email)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for groupID := range client.Groups {
		h.removeFromRoomLocked(client, groupID)
	}

	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Debugw("client unregistered", "client_id", client.ID, "user", client.Identity.Email)
}

// JoinRoom subscribes a client to a group's room.
func (h *Hub) JoinRoom(client *Client, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[groupID]; !ok {
		h.rooms[groupID] = make(map[uuid.UUID]*Client)
	}

	h.rooms[groupID][client.ID] = client
	client.mu.Lock()
	client.Groups[groupID] = true
	client.mu.Unlock()
}

// LeaveRoom unsubscribes a client from a group's room.
func (h *Hub) LeaveRoom(client *Client, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(client, groupID)
}

func (h *Hub) removeFromRoomLocked(client *Client, groupID uint) {
	room, ok := h.rooms[groupID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}

	delete(room, client.ID)
	client.mu.Lock()
	delete(client.Groups, groupID)
	client.mu.Unlock()

	if len(room) == 0 {
		delete(h.rooms, groupID)
	}
}

// SendToRoom delivers a payload to every client in the group's room.
func (h *Hub) SendToRoom(groupID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[groupID]
	if !ok {
		return
	}

	for _, client := range room {
		select {
		case client.Send <- message:
		default:
			h.log.Warnw("client send queue full, dropping event", "client_id", client.ID)
		}
	}
}

// BroadcastEvent marshals the event and fans it out to the group's room.
func (h *Hub) BroadcastEvent(groupID uint, eventType EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := Event{
		Type:      eventType,
		GroupID:   groupID,
		Data:      data,
		Timestamp: time.Now(),
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.SendToRoom(groupID, raw)
	return nil
}

// RoomSize reports how many clients are subscribed to a group's room.
func (h *Hub) RoomSize(groupID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[groupID])
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := Event{Type: TypePing, Timestamp: time.Now()}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}
