package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/session"
	"github.com/vectorpad/vectorpad/internal/typeid"
)

// Room is the set of clients connected to one session. seq and lastRender
// are only touched while holding the session lock.
type Room struct {
	sessionID  string
	session    *session.Session
	clients    map[string]*Client // clientID -> client
	presence   *PresenceManager
	seq        int64
	lastRender string
}

func NewRoom(s *session.Session) *Room {
	return &Room{
		sessionID: s.ID,
		session:   s,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sessionID -> room
	registry   *session.Registry
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(registry *session.Registry) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		registry:   registry,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register joins client to its session room. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	s, err := h.registry.Lookup(client.SessionID)
	if err != nil {
		client.sendError(TypeWelcome, err)
		client.closeSend()
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		room = NewRoom(s)
		h.rooms[client.SessionID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	var welcome WelcomePayload
	s.Do(func(e *editor.Editor) error {
		room.lastRender = e.Render()
		welcome = WelcomePayload{
			ClientID: client.ClientID,
			Role:     string(client.Role),
			Tool:     string(e.Tool()),
			Seq:      room.seq,
			Commands: json.RawMessage(room.lastRender),
		}
		return nil
	})
	payload, _ := json.Marshal(welcome)
	client.Send(&Message{Type: TypeWelcome, SessionID: client.SessionID, Payload: payload})

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.SessionID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "session", client.SessionID, "role", client.Role)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.SessionID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(client.SessionID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.closeSend()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) room(sessionID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[sessionID]
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch {
	case msg.Type == TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case !isEdit(msg.Type):
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.sendError(msg.Type, ErrUnknownMessage)
	case !sender.Role.CanEdit():
		sender.sendError(msg.Type, ErrReadOnly)
	default:
		h.handleEdit(sender, msg)
	}
}

// handleEdit applies msg to the session's editor and broadcasts the new draw
// commands to the whole room when they changed.
func (h *Hub) handleEdit(sender *Client, msg *Message) {
	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	var out *Message
	err := room.session.Do(func(e *editor.Editor) error {
		if err := apply(e, msg); err != nil {
			return err
		}
		commands := e.Render()
		if commands == room.lastRender {
			return nil
		}
		payload, err := json.Marshal(RenderPayload{
			OpID:     typeid.NewOpID(),
			Commands: json.RawMessage(commands),
		})
		if err != nil {
			return err
		}
		room.lastRender = commands
		room.seq++
		out = &Message{
			Type:      TypeDrawingRender,
			SessionID: sender.SessionID,
			UserID:    sender.UserID,
			Seq:       room.seq,
			Payload:   payload,
		}
		return nil
	})
	if err != nil {
		slog.Debug("operation rejected", "type", msg.Type, "user", sender.UserID, "error", err)
		sender.sendError(msg.Type, err)
		return
	}
	if out != nil {
		h.broadcastToRoom(sender.SessionID, out, "")
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		sender.sendError(msg.Type, ErrBadPayload)
		return
	}

	presence.DisplayName = sender.DisplayName

	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.SessionID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(sessionID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[sessionID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
