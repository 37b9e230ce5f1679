package handler

import (
	"errors"
	"net/http"

	"github.com/aibanking/auth-server/internal/model"
)

// handleError maps service errors onto the response envelope. Anything
// outside the known taxonomy becomes a generic 500 so store details and
// stack traces never reach the client.
func handleError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, model.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, model.ErrNotificationFailure):
		writeError(w, http.StatusInternalServerError, "Email could not be sent")
	default:
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
