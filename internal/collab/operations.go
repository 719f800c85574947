package collab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vectorpad/vectorpad/internal/controller"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/geom"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadPayload     = errors.New("invalid payload")
	ErrReadOnly       = errors.New("viewers cannot edit")
)

// isEdit reports whether a message type mutates the editor.
func isEdit(msgType string) bool {
	switch msgType {
	case TypePointerPress, TypePointerDrag, TypePointerRelease, TypePointerMove,
		TypeToolSet, TypeColorSet, TypeViewZoom, TypeViewPan,
		TypeShapeDelete, TypeShapeColor, TypeShapeReorder:
		return true
	}
	return false
}

// apply runs one client message against the editor. The caller holds the
// session lock.
func apply(e *editor.Editor, msg *Message) error {
	switch msg.Type {
	case TypePointerPress, TypePointerDrag, TypePointerRelease, TypePointerMove:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		pt := geom.Pt(p.X, p.Y)
		switch msg.Type {
		case TypePointerPress:
			e.PointerPressed(pt)
		case TypePointerDrag:
			e.PointerDragged(pt)
		case TypePointerRelease:
			e.PointerReleased(pt)
		default:
			e.PointerMoved(pt)
		}
		return nil

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.SetTool(controller.Kind(p.Tool))

	case TypeColorSet, TypeShapeColor:
		var p ColorPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		c, err := drawing.ParseColor(p.Color)
		if err != nil {
			return err
		}
		if msg.Type == TypeShapeColor {
			return e.SetSelectedColor(c)
		}
		e.SetColor(c)
		return nil

	case TypeViewZoom:
		var p ZoomPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.SetZoom(p.Zoom)

	case TypeViewPan:
		var p PanPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Pan(geom.Pt(p.DX, p.DY))
		return nil

	case TypeShapeDelete:
		return e.DeleteSelected()

	case TypeShapeReorder:
		var p ReorderPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.Reorder(p.Order)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s: empty", ErrBadPayload, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadPayload, msg.Type, err)
	}
	return nil
}
