package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/editor"
)

type Handler struct {
	registry *Registry
	tokens   *auth.Service
}

func NewHandler(registry *Registry, tokens *auth.Service) *Handler {
	return &Handler{registry: registry, tokens: tokens}
}

type createRequest struct {
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

type createResponse struct {
	Session Info   `json:"session"`
	Token   string `json:"token"`
}

type getResponse struct {
	Session Info      `json:"session"`
	Role    auth.Role `json:"role"`
}

type shareRequest struct {
	Role auth.Role `json:"role"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	s, err := h.registry.Create(req.Name, userID, req.Sample)
	if err != nil {
		slog.Error("create session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token, err := h.tokens.IssueToken(userID, s.ID, auth.RoleEditor)
	if err != nil {
		slog.Error("issue session token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{Session: s.Info(), Token: token})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.registry.List(userID))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	s, role, err := h.registry.Get(sessionID, claims)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getResponse{Session: s.Info(), Role: role})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.registry.Delete(sessionID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Render returns the session's current draw commands.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	s, _, err := h.registry.Get(sessionID, claims)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var commands string
	s.Do(func(e *editor.Editor) error {
		commands = e.Render()
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(commands))
}

// Share issues a token for another user to join the session. Only the owner
// may share.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !req.Role.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be editor or viewer"})
		return
	}

	s, err := h.registry.Lookup(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if s.OwnerID != userID {
		handleServiceError(w, ErrForbidden)
		return
	}

	// The invitee is identified when they connect; the token carries a fresh
	// guest identity.
	guest, _, err := h.tokens.Guest()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	token, err := h.tokens.IssueToken(guest.UserID, s.ID, req.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token, "role": string(req.Role)})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrNotMember):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "no access to session"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
