package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/aibanking/auth-server/internal/logger"
	"github.com/aibanking/auth-server/internal/model"
	"github.com/aibanking/auth-server/internal/service"
)

// AuthService defines the credential-lifecycle operations the handlers use.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, string, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) (model.User, string, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (string, error)
	UpdateDetails(ctx context.Context, userID uuid.UUID, name, email string) (model.User, error)
}

// Auth handles the HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.authService.Register(r.Context(), service.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Debug("Auth handler: registration failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Token:   token,
		Data:    sanitizeUser(user),
	})
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Auth handler: login failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Token:   token,
		Data:    sanitizeUser(user),
	})
}

// ForgotPassword handles POST /api/auth/forgotpassword. The success body is
// identical whether or not the email is registered.
func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.logger.Debug("Auth handler: forgot password failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "If your email is registered, you will receive a reset token",
	})
}

// ResetPassword handles PUT /api/auth/resetpassword/{token}.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rawToken := mux.Vars(r)["token"]

	_, token, err := h.authService.ResetPassword(r.Context(), rawToken, req.Password)
	if err != nil {
		h.logger.Debug("Auth handler: password reset failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Token:   token,
		Message: "Password updated successfully",
	})
}

// Me handles GET /api/auth/me.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sanitizeUser(user),
	})
}

// UpdateDetails handles PUT /api/auth/updatedetails.
func (h *Auth) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req updateDetailsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.authService.UpdateDetails(r.Context(), user.ID, req.Name, req.Email)
	if err != nil {
		h.logger.Debug("Auth handler: details update failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sanitizeUser(updated),
		Message: "User details updated",
	})
}

// UpdatePassword handles PUT /api/auth/updatepassword.
func (h *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req updatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.authService.UpdatePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.logger.Debug("Auth handler: password update failed", "error", err.Error())
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Token:   token,
		Message: "Password updated successfully",
	})
}

// Logout handles GET /api/auth/logout. Session tokens are stateless, so the
// server has nothing to revoke; clients drop the token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Logged out",
	})
}
