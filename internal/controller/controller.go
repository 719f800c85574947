package controller

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

var (
	// ErrInvalidShape means a pinned index no longer holds the shape a tool
	// was editing, e.g. after a concurrent delete.
	ErrInvalidShape = errors.New("invalid shape")
	ErrUnknownTool  = errors.New("unknown tool")
)

// Kind names a tool.
type Kind string

const (
	KindLine      Kind = "line"
	KindSquare    Kind = "square"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindTriangle  Kind = "triangle"
	KindSelect    Kind = "select"
)

// Host is what a tool needs from the editor that feeds it events.
type Host interface {
	Drawing() *drawing.Drawing
	Color() color.RGBA
	ZoomFactor() float64
	// Tolerance is the hit tolerance in view units.
	Tolerance() float64
	Logger() *slog.Logger
}

// Tool turns pointer events into drawing mutations. Every point is already in
// world space.
type Tool interface {
	Pressed(pt geom.Point)
	Dragged(pt geom.Point)
	Released(pt geom.Point)
	Moved(pt geom.Point)
	Close()
}

// New returns the tool for kind.
func New(kind Kind, h Host) (Tool, error) {
	switch kind {
	case KindLine:
		return NewLineTool(h), nil
	case KindSquare, KindRectangle, KindCircle, KindEllipse:
		return NewBoxTool(kind, h), nil
	case KindTriangle:
		return NewTriangleTool(h), nil
	case KindSelect:
		return NewSelectTool(h), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, kind)
	}
}

// resolve fetches the shape at a pinned index and checks its variant.
func resolve[S drawing.Shape](d *drawing.Drawing, index int) (S, error) {
	var zero S
	s, err := d.Shape(index)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	v, ok := s.(S)
	if !ok {
		return zero, fmt.Errorf("%w: expected %T at index %d, found %s", ErrInvalidShape, zero, index, s.Kind())
	}
	return v, nil
}

// worldTolerance converts the host's view-space tolerance into world units.
func worldTolerance(h Host) float64 {
	zoom := h.ZoomFactor()
	if zoom <= 0 {
		zoom = 1
	}
	return h.Tolerance() / zoom
}
