package collab

import (
	"encoding/json"

	"github.com/vectorpad/vectorpad/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Canvas input, in view coordinates
	TypePointerPress   = "pointer.press"
	TypePointerDrag    = "pointer.drag"
	TypePointerRelease = "pointer.release"
	TypePointerMove    = "pointer.move"

	// Editor commands
	TypeToolSet      = "tool.set"
	TypeColorSet     = "color.set"
	TypeViewZoom     = "view.zoom"
	TypeViewPan      = "view.pan"
	TypeShapeDelete  = "shape.delete"
	TypeShapeColor   = "shape.color"
	TypeShapeReorder = "shape.reorder"

	// Server to client
	TypeDrawingRender = "drawing.render"
)

type PresencePayload struct {
	Cursor      *geom.Point `json:"cursor,omitempty"`
	Tool        string      `json:"tool,omitempty"`
	DisplayName string      `json:"displayName,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID string          `json:"clientId"`
	Role     string          `json:"role"`
	Tool     string          `json:"tool"`
	Seq      int64           `json:"seq"`
	Commands json.RawMessage `json:"commands"`
}

type ErrorPayload struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

// RenderPayload carries the draw commands after an operation changed them.
type RenderPayload struct {
	OpID     string          `json:"opId"`
	Commands json.RawMessage `json:"commands"`
}

// --- Request payloads ---

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type ColorPayload struct {
	Color string `json:"color"`
}

type ZoomPayload struct {
	Zoom float64 `json:"zoom"`
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ReorderPayload struct {
	Order string `json:"order"`
}
