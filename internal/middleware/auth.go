package middleware

import (
	"errors"
	"net/http"

	"github.com/buddyboard/buddyboard/internal/session"
	"github.com/gin-gonic/gin"
)

// IdentityKey is where the resolved session identity lives in the gin
// context.
const IdentityKey = "identity"

// RequireLogin resolves the caller's identity from the session cookie and
// injects it into the request context. Requests without a live session are
// rejected before any handler work happens.
func RequireLogin(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(session.CookieName)
		if err != nil || sid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			c.Abort()
			return
		}

		identity, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			}
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// CurrentIdentity pulls the resolved identity out of the gin context. Only
// valid behind RequireLogin.
func CurrentIdentity(c *gin.Context) session.Identity {
	return c.MustGet(IdentityKey).(session.Identity)
}
