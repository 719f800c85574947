package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/typeid"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("no access to session")
)

// Session is one live drawing and the editor that mutates it. All access to
// the editor goes through Do, which serializes callers.
type Session struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time

	mu     sync.Mutex
	editor *editor.Editor
}

// Do runs fn with exclusive access to the session's editor.
func (s *Session) Do(fn func(e *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

type Info struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Shapes    int    `json:"shapes"`
	CreatedAt string `json:"createdAt"`
}

func (s *Session) Info() Info {
	s.mu.Lock()
	n := s.editor.Drawing().Len()
	s.mu.Unlock()
	return Info{
		ID:        s.ID,
		Name:      s.Name,
		OwnerID:   s.OwnerID,
		Shapes:    n,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Access returns the role claims grant on s. Owners always edit; everyone
// else needs a token scoped to the session.
func (s *Session) Access(c *auth.Claims) (auth.Role, error) {
	switch {
	case c == nil:
		return "", ErrNotMember
	case c.UserID == s.OwnerID:
		return auth.RoleEditor, nil
	case c.SessionID == s.ID:
		return c.Role, nil
	default:
		return "", ErrNotMember
	}
}

// Registry holds the live sessions in memory.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session
	opts     editor.Options
}

// NewRegistry creates a registry whose editors start from opts.
func NewRegistry(opts editor.Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// PlaygroundID is the shared sample session that anyone may join without a
// token.
const PlaygroundID = "playground"

// Create starts a session owned by ownerID. With sample set the drawing is
// seeded with one shape of every kind.
func (r *Registry) Create(name, ownerID string, sample bool) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create session: empty name")
	}

	s := r.newSession(typeid.NewSessionID(), name, ownerID, sample)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	slog.Info("session created", "session", s.ID, "owner", ownerID, "sample", sample)
	return s, nil
}

// Playground returns the playground session, creating it on first use.
func (r *Registry) Playground() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[PlaygroundID]; ok {
		return s
	}
	s := r.newSession(PlaygroundID, "Playground", "", true)
	r.sessions[PlaygroundID] = s
	return s
}

func (r *Registry) newSession(id, name, ownerID string, sample bool) *Session {
	d := drawing.New()
	if sample {
		d = drawing.NewSampleDrawing()
	}

	opts := r.opts
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("session", id)

	return &Session{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		editor:    editor.New(d, opts),
	}
}

// Lookup returns a session without an access check.
func (r *Registry) Lookup(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Get returns a session and the role the claims hold on it.
func (r *Registry) Get(id string, c *auth.Claims) (*Session, auth.Role, error) {
	s, err := r.Lookup(id)
	if err != nil {
		return nil, "", err
	}
	role, err := s.Access(c)
	if err != nil {
		return nil, "", err
	}
	return s, role, nil
}

// List returns the sessions owned by userID, oldest first.
func (r *Registry) List(userID string) []Info {
	r.mu.RLock()
	owned := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.OwnerID == userID {
			owned = append(owned, s)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(owned, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	infos := make([]Info, len(owned))
	for i, s := range owned {
		infos[i] = s.Info()
	}
	return infos
}

// Delete removes a session. Only the owner may delete it.
func (r *Registry) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if s.OwnerID != userID {
		return ErrForbidden
	}
	delete(r.sessions, id)
	slog.Info("session deleted", "session", id)
	return nil
}
