package api

import (
	"log"
	"net/http"

	"github.com/avdeyev/flightbook/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "flightbook.session"

// SessionMiddleware resolves the request's session once and stashes it in the
// gin context for the handlers.
func SessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Current(c.Request.Context(), c.Request)
		if err != nil {
			log.Printf("resolve session: %v", err)
		}
		if sess != nil {
			c.Set(sessionContextKey, sess)
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// RequireAdmin gates the admin dashboard routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin login required."})
			return
		}
		c.Next()
	}
}
