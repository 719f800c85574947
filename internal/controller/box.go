package controller

import (
	"math"

	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

// BoxTool authors shapes sized by dragging a box from the press corner:
// squares, rectangles, circles and ellipses. Squares and circles use the
// shorter side of the box.
type BoxTool struct {
	host   Host
	kind   Kind
	index  int
	corner geom.Point // world space press point
}

func NewBoxTool(kind Kind, h Host) *BoxTool {
	return &BoxTool{host: h, kind: kind, index: -1}
}

func (t *BoxTool) Editing() bool { return t.index >= 0 }

func (t *BoxTool) Pressed(pt geom.Point) {
	c := t.host.Color()
	var s drawing.Shape
	switch t.kind {
	case KindSquare:
		s = drawing.NewSquare(c, pt, 0)
	case KindRectangle:
		s = drawing.NewRectangle(c, pt, 0, 0)
	case KindCircle:
		s = drawing.NewCircle(c, pt, 0)
	default:
		s = drawing.NewEllipse(c, pt, 0, 0)
	}
	t.corner = pt
	t.index = t.host.Drawing().AddShape(s)
}

func (t *BoxTool) Dragged(pt geom.Point) {
	if t.index < 0 {
		return
	}
	if err := t.resize(pt); err != nil {
		t.host.Logger().Warn("drag ignored", "tool", t.kind, "index", t.index, "error", err)
	}
}

func (t *BoxTool) resize(pt geom.Point) error {
	d := t.host.Drawing()
	switch t.kind {
	case KindSquare:
		s, err := resolve[*drawing.Square](d, t.index)
		if err != nil {
			return err
		}
		center, w, h := t.box(s, pt, true)
		s.SetCenter(center)
		s.SetSize(min(w, h))
	case KindRectangle:
		s, err := resolve[*drawing.Rectangle](d, t.index)
		if err != nil {
			return err
		}
		center, w, h := t.box(s, pt, false)
		s.SetCenter(center)
		s.SetWidth(w)
		s.SetHeight(h)
	case KindCircle:
		s, err := resolve[*drawing.Circle](d, t.index)
		if err != nil {
			return err
		}
		center, w, h := t.box(s, pt, true)
		s.SetCenter(center)
		s.SetRadius(min(w, h) / 2)
	default:
		s, err := resolve[*drawing.Ellipse](d, t.index)
		if err != nil {
			return err
		}
		center, w, h := t.box(s, pt, false)
		s.SetCenter(center)
		s.SetWidth(w)
		s.SetHeight(h)
	}
	return nil
}

// box works out the new world center and extent from the pointer. Both the
// corner and the pointer are taken into the shape's object space so a rotated
// shape grows along its own axes.
func (t *BoxTool) box(s drawing.Shape, pt geom.Point, uniform bool) (geom.Point, float64, float64) {
	toObj := s.WorldToObj()
	corner := toObj.Apply(t.corner)
	delta := toObj.Apply(pt).Sub(corner)

	w, h := math.Abs(delta.X), math.Abs(delta.Y)
	if uniform {
		side := min(w, h)
		delta = geom.Pt(math.Copysign(side, delta.X), math.Copysign(side, delta.Y))
	}
	center := s.ObjToWorld().Apply(corner.Add(delta.Mul(0.5)))
	return center, w, h
}

func (t *BoxTool) Released(pt geom.Point) {}

func (t *BoxTool) Moved(pt geom.Point) {}

func (t *BoxTool) Close() { t.index = -1 }
