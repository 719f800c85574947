package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type guestResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Guest issues a token for a new anonymous user. The token can create
// sessions; session tokens are handed out per session.
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	claims, token, err := h.service.Guest()
	if err != nil {
		slog.Error("issue guest token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, guestResponse{Token: token, UserID: claims.UserID})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
