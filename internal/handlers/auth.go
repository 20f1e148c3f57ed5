package handlers

import (
	"net/http"

	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/oauth"
	"github.com/buddyboard/buddyboard/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieOptions carries the session cookie attributes, which differ between
// local dev (http) and production (https, cross-site).
type CookieOptions struct {
	Domain string
	Secure bool
}

type AuthHandler struct {
	db          *database.Database
	sessions    *session.Store
	google      *oauth.Google
	log         *zap.SugaredLogger
	frontendURL string
	cookie      CookieOptions
}

func NewAuthHandler(db *database.Database, sessions *session.Store, google *oauth.Google, frontendURL string, cookie CookieOptions, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		db:          db,
		sessions:    sessions,
		google:      google,
		log:         log,
		frontendURL: frontendURL,
		cookie:      cookie,
	}
}

// GoogleLogin redirects the browser to Google's consent screen with a fresh
// state nonce.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.google.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured"})
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		h.log.Errorw("generate oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	if err := h.sessions.SaveOAuthState(c.Request.Context(), state); err != nil {
		h.log.Errorw("save oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthCodeURL(state))
}

// GoogleCallback exchanges the code, upserts the user record and writes the
// session, then sends the browser back to the frontend profile page.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()

	if errParam := c.Query("error"); errParam != "" {
		h.log.Warnw("google oauth denied", "error", errParam)
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=google_denied")
		return
	}

	state := c.Query("state")
	if state == "" {
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=invalid_state")
		return
	}

	ok, err := h.sessions.ConsumeOAuthState(ctx, state)
	if err != nil {
		h.log.Errorw("validate oauth state", "error", err)
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=internal")
		return
	}
	if !ok {
		h.log.Warnw("invalid or expired oauth state")
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=invalid_code")
		return
	}

	info, err := h.google.Exchange(ctx, code)
	if err != nil {
		h.log.Errorw("google token exchange", "error", err)
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=token_exchange")
		return
	}

	user, err := h.db.UpsertUserByEmail(info.Email, info.Name, info.Picture)
	if err != nil {
		h.log.Errorw("upsert user", "error", err)
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=internal")
		return
	}

	sid, err := h.sessions.Create(ctx, session.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	})
	if err != nil {
		h.log.Errorw("create session", "error", err)
		c.Redirect(http.StatusSeeOther, h.frontendURL+"/login?error=internal")
		return
	}

	h.setSessionCookie(c, sid, int(session.SessionTTL.Seconds()))
	c.Redirect(http.StatusSeeOther, h.frontendURL+"/profile")
}

// Logout clears all session state.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(session.CookieName); err == nil && sid != "" {
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			h.log.Warnw("delete session", "error", err)
		}
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Profile returns the current session identity.
func (h *AuthHandler) Profile(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"name":    identity.Name,
			"email":   identity.Email,
			"picture": identity.Picture,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	if h.cookie.Secure {
		// Cross-site frontend needs SameSite=None, which requires Secure.
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(session.CookieName, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}
