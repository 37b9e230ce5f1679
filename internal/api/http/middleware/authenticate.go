package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aibanking/auth-server/internal/logger"
	"github.com/aibanking/auth-server/internal/model"
)

// TokenParser resolves a user ID from a bearer token.
type TokenParser interface {
	Parse(tokenString string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens, re-loads the user and injects it
// into the request context. A token referencing a deleted account is
// rejected the same way as an invalid one.
type Authenticate struct {
	tokens         TokenParser
	userStore      model.UserStore
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, userStore model.UserStore, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, userStore: userStore, contextManager: contextManager, logger: logger}
}

// Handle wraps next with bearer-token authentication.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeUnauthorized(w, "Not authorized, no token")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := m.authenticateUser(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				writeUnauthorized(w, "User not found")
				return
			}
			writeUnauthorized(w, "Token is not valid")
			return
		}

		ctx := m.contextManager.SetUserToContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (model.User, error) {
	userID, err := m.tokens.Parse(tokenString)
	if err != nil {
		return model.User{}, err
	}

	user, err := m.userStore.GetByID(ctx, userID)
	if err != nil {
		m.logger.Debug("Authenticate middleware: user lookup failed",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, err
	}

	return user, nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
