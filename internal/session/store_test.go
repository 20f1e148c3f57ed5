package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	identity := Identity{UserID: 7, Name: "Avery", Email: "x@y.com", Picture: "pic"}
	sid, err := store.Create(ctx, identity)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sid == "" {
		t.Fatalf("expected session id")
	}

	got, err := store.Get(ctx, sid)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != identity {
		t.Fatalf("expected %+v, got %+v", identity, got)
	}
}

func TestSessionExpires(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, Identity{UserID: 1, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	mr.FastForward(SessionTTL + 1)

	if _, err := store.Get(ctx, sid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestDeleteClearsSession(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, Identity{UserID: 2, Email: "b@c.com"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := store.Delete(ctx, sid); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := store.Get(ctx, sid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOAuthStateConsumedOnce(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	if err := store.SaveOAuthState(ctx, "nonce-1"); err != nil {
		t.Fatalf("save state: %v", err)
	}

	ok, err := store.ConsumeOAuthState(ctx, "nonce-1")
	if err != nil || !ok {
		t.Fatalf("expected valid state, ok=%v err=%v", ok, err)
	}

	ok, err = store.ConsumeOAuthState(ctx, "nonce-1")
	if err != nil || ok {
		t.Fatalf("expected state to be single-use, ok=%v err=%v", ok, err)
	}

	ok, err = store.ConsumeOAuthState(ctx, "never-saved")
	if err != nil || ok {
		t.Fatalf("expected unknown state to be rejected, ok=%v err=%v", ok, err)
	}
}
