package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/session"
)

const maxPreviewSize = 4096

type Handler struct {
	registry      *session.Registry
	width, height int
}

func NewHandler(registry *session.Registry, width, height int) *Handler {
	return &Handler{registry: registry, width: width, height: height}
}

// Preview streams a PNG of the whole drawing. Routes without a session ID
// serve the playground; any other session needs a token with access to it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	width, err := dimension(r.URL.Query().Get("width"), h.width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r.URL.Query().Get("height"), h.height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var s *session.Session
	if sessionID == "" || sessionID == session.PlaygroundID {
		s = h.registry.Playground()
	} else {
		s, _, err = h.registry.Get(sessionID, auth.ClaimsFromContext(r.Context()))
	}
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return
	default:
		http.Error(w, "no access to session", http.StatusForbidden)
		return
	}

	var png []byte
	err = s.Do(func(e *editor.Editor) error {
		png, err = e.Preview(width, height)
		return err
	})
	if err != nil {
		slog.Error("render preview", "session", sessionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, s.Name)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)

	slog.Debug("preview rendered", "session", sessionID, "width", width, "height", height, "size", len(png))
}

// dimension parses a width or height query value, falling back to def when
// empty and clamping to maxPreviewSize.
func dimension(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid dimension %q", v)
	}
	return min(n, maxPreviewSize), nil
}
