package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/buddyboard/buddyboard/internal/session"
	"go.uber.org/zap"
)

func testClient(hub *Hub, userID uint, email string) *Client {
	return NewClient(hub, nil, session.Identity{UserID: userID, Email: email})
}

func drain(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("expected a queued message")
		return nil
	}
}

func TestJoinAndLeaveRoom(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	alice := testClient(hub, 1, "alice@example.com")
	bob := testClient(hub, 2, "bob@example.com")

	hub.JoinRoom(alice, 42)
	hub.JoinRoom(bob, 42)
	if got := hub.RoomSize(42); got != 2 {
		t.Fatalf("expected room size 2, got %d", got)
	}
	if !alice.IsInGroup(42) {
		t.Fatalf("expected alice to track her room membership")
	}

	hub.LeaveRoom(alice, 42)
	if got := hub.RoomSize(42); got != 1 {
		t.Fatalf("expected room size 1 after leave, got %d", got)
	}
	if alice.IsInGroup(42) {
		t.Fatalf("expected alice's membership to be cleared")
	}

	// Leaving a room twice is a no-op.
	hub.LeaveRoom(alice, 42)
	if got := hub.RoomSize(42); got != 1 {
		t.Fatalf("expected room size to stay 1, got %d", got)
	}
}

func TestSendToRoomOnlyReachesSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	member := testClient(hub, 1, "member@example.com")
	outsider := testClient(hub, 2, "outsider@example.com")

	hub.JoinRoom(member, 7)
	hub.JoinRoom(outsider, 8)

	hub.SendToRoom(7, []byte("hello"))

	if got := string(drain(t, member)); got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
	select {
	case msg := <-outsider.Send:
		t.Fatalf("outsider should not receive room traffic, got %q", msg)
	default:
	}
}

func TestBroadcastEventEnvelope(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())

	client := testClient(hub, 1, "member@example.com")
	hub.JoinRoom(client, 3)

	payload := map[string]string{"user": "Avery", "message": "hi"}
	if err := hub.BroadcastEvent(3, TypeGroupMessage, payload); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	var event Event
	if err := json.Unmarshal(drain(t, client), &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Type != TypeGroupMessage {
		t.Fatalf("expected event type %q, got %q", TypeGroupMessage, event.Type)
	}
	if event.GroupID != 3 {
		t.Fatalf("expected group id 3, got %d", event.GroupID)
	}

	var got map[string]string
	if err := json.Unmarshal(event.Data, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got["message"] != "hi" || got["user"] != "Avery" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	go hub.Run()
	defer hub.Stop()

	client := testClient(hub, 1, "member@example.com")
	hub.Register(client)
	hub.JoinRoom(client, 1)
	hub.JoinRoom(client, 2)

	hub.Unregister(client)

	deadline := time.After(time.Second)
	for hub.RoomSize(1) != 0 || hub.RoomSize(2) != 0 {
		select {
		case <-deadline:
			t.Fatalf("expected client to be removed from all rooms")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, ok := <-client.Send; ok {
		t.Fatalf("expected send channel to be closed on unregister")
	}
}
