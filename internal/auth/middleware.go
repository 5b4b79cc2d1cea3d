package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContextKeyUserID = "auth_user_id"

// Middleware resolves the session user for every request.
type Middleware struct {
	service  *Service
	sessions *SessionManager
}

func NewMiddleware(service *Service, sessions *SessionManager) *Middleware {
	return &Middleware{
		service:  service,
		sessions: sessions,
	}
}

// Handler puts the logged-in user's id into the gin context. Anonymous
// requests pass through untouched; so do sessions whose user has been
// deleted.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessions != nil {
			if userID := m.sessions.GetUserID(c.Request); userID != "" {
				if _, err := m.service.GetUser(c.Request.Context(), userID); err == nil {
					c.Set(ContextKeyUserID, userID)
				}
			}
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
