package middleware

import (
	"net/http"

	"wayfinder/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Session keys. Visitor and admin identities are independent; both can be
// present in the same session.
const (
	keyUserID    = "user_id"
	keyAdminID   = "admin_id"
	keyAdminRole = "admin_role"
)

// Identity is the request-scoped view of the session, resolved once per
// request instead of read from ambient state in handlers.
type Identity struct {
	UserID    uint
	AdminID   uint
	AdminRole string
}

func (id Identity) IsUser() bool  { return id.UserID != 0 }
func (id Identity) IsAdmin() bool { return id.AdminID != 0 }
func (id Identity) IsRoot() bool  { return id.AdminID != 0 && id.AdminRole == "root" }

// Sessions returns the cookie-backed session middleware.
func Sessions(cfg *config.Config) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
	})
	return sessions.Sessions(cfg.Session.CookieName, store)
}

// CurrentIdentity reads the caller's identity from the session.
func CurrentIdentity(c *gin.Context) Identity {
	session := sessions.Default(c)
	var id Identity
	if v, ok := session.Get(keyUserID).(uint); ok {
		id.UserID = v
	}
	if v, ok := session.Get(keyAdminID).(uint); ok {
		id.AdminID = v
	}
	if v, ok := session.Get(keyAdminRole).(string); ok {
		id.AdminRole = v
	}
	return id
}

// SetUser records a visitor login.
func SetUser(c *gin.Context, userID uint) {
	session := sessions.Default(c)
	session.Set(keyUserID, userID)
	session.Save()
}

// ClearUser ends the visitor part of the session.
func ClearUser(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(keyUserID)
	session.Save()
}

// SetAdmin records an admin login with its role.
func SetAdmin(c *gin.Context, adminID uint, role string) {
	session := sessions.Default(c)
	session.Set(keyAdminID, adminID)
	session.Set(keyAdminRole, role)
	session.Save()
}

// ClearAdmin ends the admin part of the session.
func ClearAdmin(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(keyAdminID)
	session.Delete(keyAdminRole)
	session.Save()
}

// ClearAll ends the whole session.
func ClearAll(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
}

// Flash queues a one-shot notice for the next page load.
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

// TakeFlashes drains the queued notices.
func TakeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save()
	}
	notices := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			notices = append(notices, s)
		}
	}
	return notices
}

// RequireUser gates chat and profile routes behind a visitor login.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsUser() {
			Flash(c, "Please login first")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates management routes behind an admin login of either role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsAdmin() {
			Flash(c, "Please login as admin")
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoot gates admin-account management behind the root role.
func RequireRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsRoot() {
			Flash(c, "Access denied")
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
