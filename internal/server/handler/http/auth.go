// Package http provides HTTP handlers for account management and
// owner-scoped document collections.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/service"
)

// AuthService defines the interface for account operations required by
// the HTTP handlers.
type AuthService interface {
	// SignUp registers an account and opens a session.
	SignUp(ctx context.Context, email, password string) (models.Account, string, error)
	// SignIn verifies credentials and opens a session.
	SignIn(ctx context.Context, email, password string) (models.Account, string, error)
	// SignOut revokes a bearer token.
	SignOut(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for registration, login, and logout.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// credentialsRequest represents the JSON payload for registration and
// login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// principalPayload is the wire form of an authenticated user, as the
// clients' identity provider gateway expects it.
type principalPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}

func principalOf(acc models.Account) principalPayload {
	return principalPayload{
		ID:          acc.ID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		AvatarRef:   acc.AvatarRef,
	}
}

// Register handles POST /api/register.
// It expects a JSON body with "email" and "password", creates the
// account, and returns the session token and principal.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	acc, token, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "registration failed", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":     token,
		"principal": principalOf(acc),
	})
}

// Login handles POST /api/login.
// Invalid credentials yield a 401 without distinguishing unknown email
// from wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	acc, token, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":     token,
		"principal": principalOf(acc),
	})
}

// Logout handles POST /api/logout.
// Revoking an unknown token still returns 200: sign-out is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	if err := h.AuthService.SignOut(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
