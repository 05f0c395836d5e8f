package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjidtools/qurbani-backend/internal/auth"
)

const testSecret = "test-secret"

type stubSessions struct {
	active map[uuid.UUID]bool
}

func (s *stubSessions) Active(_ context.Context, sessionID uuid.UUID) (bool, error) {
	return s.active[sessionID], nil
}

func newTestRouter(sessions SessionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, sessions))
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := newTestRouter(nil)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := newTestRouter(nil)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	mosqueID := uuid.New()
	sessionID := uuid.New()
	token, err := auth.GenerateToken(userID, mosqueID, sessionID, "a@b.com", testSecret, time.Hour)
	require.NoError(t, err)

	r := newTestRouter(nil)
	r.GET("/x", func(c *gin.Context) {
		assert.Equal(t, userID, GetUserID(c))
		assert.Equal(t, mosqueID, GetMosqueID(c))
		assert.Equal(t, sessionID, GetSessionID(c))
		assert.Equal(t, "a@b.com", GetEmail(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRevokedSession(t *testing.T) {
	sessionID := uuid.New()
	token, err := auth.GenerateToken(uuid.New(), uuid.New(), sessionID, "a@b.com", testSecret, time.Hour)
	require.NoError(t, err)

	sessions := &stubSessions{active: map[uuid.UUID]bool{}}
	r := newTestRouter(sessions)
	handlerRan := false
	r.GET("/x", func(c *gin.Context) { handlerRan = true })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)
}

func TestAuthMiddlewareActiveSession(t *testing.T) {
	sessionID := uuid.New()
	token, err := auth.GenerateToken(uuid.New(), uuid.New(), sessionID, "a@b.com", testSecret, time.Hour)
	require.NoError(t, err)

	sessions := &stubSessions{active: map[uuid.UUID]bool{sessionID: true}}
	r := newTestRouter(sessions)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetMosqueIDMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetMosqueID(c))
}
