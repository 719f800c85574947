package controller

import (
	"fmt"
	"math"

	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragRotate
	dragStart
	dragEnd
)

// SelectTool picks shapes, moves them, and drags their handles.
//
// A press first checks the handles of the current selection, then hit tests
// shapes front to back. The shape found is pinned by index and ID; a drag
// re-resolves both and does nothing if they no longer agree.
type SelectTool struct {
	host  Host
	index int
	id    drawing.ShapeID
	mode  dragMode
	last  geom.Point
}

func NewSelectTool(h Host) *SelectTool {
	return &SelectTool{host: h, index: -1}
}

func (t *SelectTool) Pressed(pt geom.Point) {
	d := t.host.Drawing()
	tol := worldTolerance(t.host)
	t.last = pt

	if h, s := d.HandleAt(pt, t.host.ZoomFactor(), tol); h != nil {
		t.pin(d.IndexOf(s.ID()), s.ID())
		switch h.Role() {
		case drawing.HandleStart:
			t.mode = dragStart
		case drawing.HandleEnd:
			t.mode = dragEnd
		default:
			t.mode = dragRotate
		}
		return
	}

	i := d.HitTest(pt, tol)
	if err := d.Select(i); err != nil {
		t.host.Logger().Warn("select failed", "index", i, "error", err)
		return
	}
	if i < 0 {
		t.pin(-1, "")
		t.mode = dragNone
		return
	}
	s, _ := d.Shape(i)
	t.pin(i, s.ID())
	t.mode = dragMove
}

func (t *SelectTool) pin(index int, id drawing.ShapeID) {
	t.index = index
	t.id = id
}

func (t *SelectTool) Dragged(pt geom.Point) {
	if t.mode == dragNone {
		return
	}
	if err := t.drag(pt); err != nil {
		t.host.Logger().Warn("drag ignored", "tool", KindSelect, "index", t.index, "error", err)
		return
	}
	t.last = pt
}

func (t *SelectTool) drag(pt geom.Point) error {
	d := t.host.Drawing()
	s, err := d.Shape(t.index)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if s.ID() != t.id {
		return fmt.Errorf("%w: index %d now holds %s", ErrInvalidShape, t.index, s.ID())
	}

	switch t.mode {
	case dragMove:
		s.SetCenter(s.Center().Add(pt.Sub(t.last)))
	case dragRotate:
		c := s.Center()
		from, to := t.last.Sub(c), pt.Sub(c)
		if from.Hypot() == 0 || to.Hypot() == 0 {
			return nil
		}
		delta := math.Atan2(to.Y, to.X) - math.Atan2(from.Y, from.X)
		s.SetRotation(s.Rotation() + delta)
	case dragStart, dragEnd:
		line, err := resolve[*drawing.Line](d, t.index)
		if err != nil {
			return err
		}
		if t.mode == dragStart {
			line.MoveStart(pt)
		} else {
			line.SetEnd(line.WorldToObj().Apply(pt))
		}
	}
	return nil
}

func (t *SelectTool) Released(pt geom.Point) { t.mode = dragNone }

func (t *SelectTool) Moved(pt geom.Point) {}

// Close clears the selection when switching away from the tool.
func (t *SelectTool) Close() {
	t.mode = dragNone
	t.pin(-1, "")
	if err := t.host.Drawing().Select(-1); err != nil {
		t.host.Logger().Warn("clear selection", "error", err)
	}
}
