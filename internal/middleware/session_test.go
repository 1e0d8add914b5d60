package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drizzlenote/chatbot/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRouter(store session.Store, seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(store, time.Hour))
	r.GET("/", func(c *gin.Context) {
		sess := CurrentSession(c)
		*seen = sess.ID
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSessionMiddleware_NewSession(t *testing.T) {
	var seen string
	r := newSessionRouter(session.NewMemoryStore(time.Hour), &seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddleware_LoadsExisting(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	existing := session.New()
	require.NoError(t, store.Save(context.Background(), existing))

	var seen string
	r := newSessionRouter(store, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: existing.ID})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, existing.ID, seen)
}

func TestSessionMiddleware_UnknownIDStartsFresh(t *testing.T) {
	var seen string
	r := newSessionRouter(session.NewMemoryStore(time.Hour), &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-id"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "expired-id", seen)
}

func TestCurrentSession_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentSession(c))
}
