package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/masjidtools/qurbani-backend/internal/auth"
)

// Context keys for the claims AuthMiddleware stores in gin.Context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyMosqueID  = "mosque_id"
	ContextKeyEmail     = "email"
	ContextKeySessionID = "session_id"
)

// SessionChecker reports whether a session is still live. Implemented by the
// redis session store; nil disables the revocation check (tests).
type SessionChecker interface {
	Active(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// AuthMiddleware validates the Bearer token and resolves the caller's mosque
// identity into the request context. Handlers read the mosque ID from here
// and nowhere else — a client-supplied mosque ID is never trusted. Requests
// with a missing, invalid, expired, or logged-out token are rejected with
// 401 before any handler runs.
func AuthMiddleware(secret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization format, expected: Bearer <token>")
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		if sessions != nil {
			active, err := sessions.Active(c.Request.Context(), claims.SessionID)
			if err != nil || !active {
				unauthorized(c, "session no longer active")
				return
			}
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyMosqueID, claims.MosqueID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeySessionID, claims.SessionID)

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"kind":  "unauthorized",
		"error": msg,
	})
}

func GetUserID(c *gin.Context) uuid.UUID {
	return uuidFromContext(c, ContextKeyUserID)
}

func GetMosqueID(c *gin.Context) uuid.UUID {
	return uuidFromContext(c, ContextKeyMosqueID)
}

func GetSessionID(c *gin.Context) uuid.UUID {
	return uuidFromContext(c, ContextKeySessionID)
}

func GetEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}

func uuidFromContext(c *gin.Context, key string) uuid.UUID {
	val, exists := c.Get(key)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
