package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aibanking/auth-server/internal/model"
)

// Response is the fixed JSON envelope for every endpoint.
type Response struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	Data    *UserData `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

// UserData is the sanitized user representation. It never carries the
// password hash or the reset-token fields.
type UserData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func sanitizeUser(user model.User) *UserData {
	return &UserData{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}
