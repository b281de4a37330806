package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/security/auth"
	"github.com/yourorg/agrimarket/internal/service"
)

const tokenLifetime = 24 * time.Hour

// AuthHandler handles registration, login, logout, and session lookup
type AuthHandler struct {
	authService  *service.AuthService
	tokenManager *auth.TokenManager
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, tokenManager *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries the active account and its API token
type SessionResponse struct {
	Account   *domain.Account `json:"account"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode register request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Name == "" || req.Email == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "name, email, and role are required")
		return
	}

	account, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role), req.Location)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondWithToken(w, account, http.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode login request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	account, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Generic error to prevent account enumeration
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.respondWithToken(w, account, http.StatusOK)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		h.logger.Warn("logout failed to clear persisted session", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Session handles GET /api/auth/session, returning the active viewer
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	account := h.authService.Current()
	if account == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Account: account})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, account *domain.Account, status int) {
	token, err := h.tokenManager.GenerateToken(account.ID, account.Email, string(account.Role), tokenLifetime)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, status, SessionResponse{
		Account:   account,
		Token:     token,
		ExpiresAt: time.Now().Add(tokenLifetime),
	})
}
