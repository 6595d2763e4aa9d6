package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(sessions SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireSession(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserIDFromContext(c)})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	sessions := NewMemoryStore(time.Hour)
	id, err := sessions.Create(context.Background(), 7)
	require.NoError(t, err)
	r := newTestRouter(sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "unknown"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	sessions := NewMemoryStore(time.Minute)
	sessions.now = func() time.Time { return now }
	ctx := context.Background()

	id, err := sessions.Create(ctx, 3)
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	userID, ok := sessions.GetUserID(ctx, id)
	require.True(t, ok)
	assert.Equal(t, int64(3), userID)

	// The lookup above extended the session.
	now = now.Add(50 * time.Second)
	_, ok = sessions.GetUserID(ctx, id)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = sessions.GetUserID(ctx, id)
	assert.False(t, ok)

	id, err = sessions.Create(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, sessions.Delete(ctx, id))
	_, ok = sessions.GetUserID(ctx, id)
	assert.False(t, ok)
}

func TestUserIDFromContext_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, UserIDFromContext(c))
	c.Set(contextKeyUserID, "7")
	assert.Zero(t, UserIDFromContext(c))
}
