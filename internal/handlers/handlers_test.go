package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/session"
	ws "github.com/buddyboard/buddyboard/internal/websocket"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db       *database.Database
	sessions *session.Store
	hub      *ws.Hub
	activity *ActivityHandler
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db := database.NewDatabase(gdb)

	mr := miniredis.RunT(t)
	sessions, err := session.NewStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	log := zap.NewNop().Sugar()
	hub := ws.NewHub(log)

	authH := NewAuthHandler(db, sessions, nil, "http://localhost:3000", CookieOptions{}, log)
	groupH := NewGroupHandler(db, log)
	messageH := NewMessageHandler(db, hub, log)
	activityH := NewActivityHandler(db, log)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/logout", authH.Logout)

	authed := api.Group("")
	authed.Use(middleware.RequireLogin(sessions))
	{
		authed.GET("/profile", authH.Profile)

		groups := authed.Group("/groups")
		groups.GET("/discover", groupH.Discover)
		groups.POST("/create", groupH.Create)
		groups.POST("/:id/join", groupH.Join)
		groups.GET("/:id/messages", messageH.ListMessages)
		groups.POST("/:id/send-message", messageH.SendMessage)
		groups.POST("/:id/complete", activityH.Complete)
		groups.GET("/:id/check-habit", activityH.CheckHabit)
		groups.GET("/:id/leaderboard", activityH.Leaderboard)
		groups.GET("/:id/activity", activityH.RecentActivity)
	}

	return &testEnv{db: db, sessions: sessions, hub: hub, activity: activityH, router: router}
}

// login seeds a user row and a live session, returning the identity and its
// session cookie.
func (e *testEnv) login(t *testing.T, email, name string) (session.Identity, *http.Cookie) {
	t.Helper()

	user, err := e.db.UpsertUserByEmail(email, name, "https://img.example/"+name)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	identity := session.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	}
	sid, err := e.sessions.Create(context.Background(), identity)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return identity, &http.Cookie{Name: session.CookieName, Value: sid}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestProfileRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/profile", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Not logged in" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestProfileReturnsSessionIdentity(t *testing.T) {
	env := newTestEnv(t)
	identity, cookie := env.login(t, "ava@example.com", "Ava")

	rec := env.request(t, http.MethodGet, "/api/profile", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body)
	}
	if user["email"] != identity.Email || user["name"] != identity.Name {
		t.Fatalf("unexpected profile: %v", user)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "ava@example.com", "Ava")

	rec := env.request(t, http.MethodPost, "/api/logout", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.request(t, http.MethodGet, "/api/profile", nil, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}
