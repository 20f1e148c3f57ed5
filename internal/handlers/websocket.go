package handlers

import (
	"net/http"

	"github.com/buddyboard/buddyboard/internal/middleware"
	ws "github.com/buddyboard/buddyboard/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler upgrades authenticated requests and hands the connection
// to the hub's pumps. Application events are dispatched to the message
// handler so both transports share one write path.
type WebSocketHandler struct {
	hub      *ws.Hub
	messages *MessageHandler
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

func NewWebSocketHandler(hub *ws.Hub, messages *MessageHandler, allowedOrigin string, log *zap.SugaredLogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		messages: messages,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Connect handles GET /ws. The session middleware has already resolved the
// caller's identity from the cookie.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(h.hub, conn, identity)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.messages)
}
