package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/masjidtools/qurbani-backend/internal/auth"
	"github.com/masjidtools/qurbani-backend/internal/middleware"
	"github.com/masjidtools/qurbani-backend/internal/repository"
	"github.com/masjidtools/qurbani-backend/internal/session"
)

// AuthHandler handles registration and login — the only public endpoints.
type AuthHandler struct {
	users    repository.UserRepository
	mosques  repository.MosqueRepository
	sessions *session.Store
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	mosques repository.MosqueRepository,
	sessions *session.Store,
	secret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:    users,
		mosques:  mosques,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

type registerRequest struct {
	MosqueName    string `json:"mosque_name" binding:"required"`
	MosqueAddress string `json:"mosque_address"`
	AdminName     string `json:"admin_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Register handles POST /v1/auth/register: create a mosque and its admin
// account in one transaction, then hand back a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	existing, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check existing user", zap.Error(err))
		internalError(c, "registration failed")
		return
	}
	if existing != nil {
		errorJSON(c, http.StatusConflict, kindConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		internalError(c, "registration failed")
		return
	}

	mosque, user, err := h.mosques.CreateWithAdmin(
		c.Request.Context(),
		req.MosqueName,
		req.MosqueAddress,
		req.AdminName,
		req.Email,
		string(hash),
	)
	if err != nil {
		h.logger.Error("failed to register mosque", zap.Error(err))
		internalError(c, "registration failed")
		return
	}

	token, err := h.issueToken(c, user.ID, mosque.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		internalError(c, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token})
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to find user", zap.Error(err))
		internalError(c, "login failed")
		return
	}

	// One message for both unknown email and wrong password, so the
	// endpoint doesn't leak which emails are registered.
	if user == nil {
		errorJSON(c, http.StatusUnauthorized, kindUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		errorJSON(c, http.StatusUnauthorized, kindUnauthorized, "invalid email or password")
		return
	}

	token, err := h.issueToken(c, user.ID, user.MosqueID, user.Email)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		internalError(c, "login failed")
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token})
}

// Logout handles POST /v1/auth/logout (authenticated): revokes the session
// behind the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if h.sessions != nil {
		if err := h.sessions.Revoke(c.Request.Context(), sessionID); err != nil {
			h.logger.Error("failed to revoke session", zap.Error(err))
			internalError(c, "logout failed")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) issueToken(c *gin.Context, userID, mosqueID uuid.UUID, email string) (string, error) {
	sessionID := uuid.New()
	if h.sessions != nil {
		if err := h.sessions.Create(c.Request.Context(), sessionID, userID, h.tokenTTL); err != nil {
			return "", err
		}
	}
	return auth.GenerateToken(userID, mosqueID, sessionID, email, h.secret, h.tokenTTL)
}
