package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "wordbook_session"
	sessionKey    = "session"
)

// SessionMiddleware loads the caller's session, starting a new one when the
// cookie is missing or the session has expired.
func SessionMiddleware(store session.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session

		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			sess, err = store.Load(c.Request.Context(), id)
			if err != nil && !errors.Is(err, session.ErrNotFound) {
				log.Printf("Warning: failed to load session %s: %v", id, err)
			}
		}

		if sess == nil {
			sess = session.New()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(ttl.Seconds()), "/", "", false, true)

		// Set session in context
		c.Set(sessionKey, sess)

		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
