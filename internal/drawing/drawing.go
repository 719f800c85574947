package drawing

import (
	"errors"
	"fmt"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// ErrInvalidIndex is returned for indices outside the drawing.
var ErrInvalidIndex = errors.New("invalid shape index")

// Drawing owns every shape. Slice order is z-order, back to front, and the ID
// map is the registry handles resolve their shape through.
//
// A Drawing is not safe for concurrent use; all mutation happens on the single
// goroutine that delivers pointer events.
type Drawing struct {
	shapes    []Shape
	byID      map[ShapeID]Shape
	notifiers []Notifier
}

// New creates an empty drawing.
func New() *Drawing {
	return &Drawing{byID: make(map[ShapeID]Shape)}
}

// Subscribe registers n for every change to the drawing or its shapes.
func (d *Drawing) Subscribe(n Notifier) {
	d.notifiers = append(d.notifiers, n)
}

// Notify fans a change out to subscribers. Shapes in the drawing report here.
func (d *Drawing) Notify(c Change) {
	for _, n := range d.notifiers {
		n.Notify(c)
	}
}

// AddShape appends s on top of the drawing and returns its index.
func (d *Drawing) AddShape(s Shape) int {
	s.base().notifier = d
	d.shapes = append(d.shapes, s)
	d.byID[s.ID()] = s
	d.Notify(Change{ShapeID: s.ID(), Kind: ChangeAdded})
	return len(d.shapes) - 1
}

// Shape returns the shape at index i.
func (d *Drawing) Shape(i int) (Shape, error) {
	if i < 0 || i >= len(d.shapes) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(d.shapes))
	}
	return d.shapes[i], nil
}

// RemoveShape deletes the shape at index i together with its handles.
func (d *Drawing) RemoveShape(i int) error {
	s, err := d.Shape(i)
	if err != nil {
		return err
	}
	d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
	delete(d.byID, s.ID())

	b := s.base()
	b.notifier = nil
	b.handles = nil
	b.handlesDirty = true

	d.Notify(Change{ShapeID: s.ID(), Kind: ChangeRemoved})
	return nil
}

// Len returns the number of shapes.
func (d *Drawing) Len() int { return len(d.shapes) }

// Shapes returns the shapes in z-order, back to front.
func (d *Drawing) Shapes() []Shape {
	out := make([]Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// Lookup resolves a shape by ID.
func (d *Drawing) Lookup(id ShapeID) (Shape, bool) {
	s, ok := d.byID[id]
	return s, ok
}

// IndexOf returns the index of the shape with the given ID, or -1.
func (d *Drawing) IndexOf(id ShapeID) int {
	for i, s := range d.shapes {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// MoveToFront moves the shape at i to the top of the z-order.
func (d *Drawing) MoveToFront(i int) error { return d.move(i, len(d.shapes)-1) }

// MoveToBack moves the shape at i to the bottom of the z-order.
func (d *Drawing) MoveToBack(i int) error { return d.move(i, 0) }

// MoveForward swaps the shape at i with the one above it.
func (d *Drawing) MoveForward(i int) error { return d.move(i, min(i+1, len(d.shapes)-1)) }

// MoveBackward swaps the shape at i with the one below it.
func (d *Drawing) MoveBackward(i int) error { return d.move(i, max(i-1, 0)) }

func (d *Drawing) move(from, to int) error {
	s, err := d.Shape(from)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	d.shapes = append(d.shapes[:from], d.shapes[from+1:]...)
	d.shapes = append(d.shapes[:to], append([]Shape{s}, d.shapes[to:]...)...)
	d.Notify(Change{ShapeID: s.ID(), Kind: ChangeOrder})
	return nil
}

// HitTest returns the index of the topmost shape containing the world point,
// or -1. Each shape tests the point in its own object space.
func (d *Drawing) HitTest(pt geom.Point, tolerance float64) int {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		s := d.shapes[i]
		if s.PointInShape(s.WorldToObj().Apply(pt), tolerance) {
			return i
		}
	}
	return -1
}

// Selected returns the first selected shape and its index, or -1 and nil.
func (d *Drawing) Selected() (int, Shape) {
	for i, s := range d.shapes {
		if s.Selected() {
			return i, s
		}
	}
	return -1, nil
}

// Select makes the shape at i the only selected shape. A negative index clears
// the selection.
func (d *Drawing) Select(i int) error {
	if i >= len(d.shapes) {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(d.shapes))
	}
	for j, s := range d.shapes {
		want := j == i
		if s.Selected() != want {
			s.SetSelected(want)
		}
	}
	return nil
}

// HandleAt returns the handle of the selected shape under the world point, if
// any. Handles are repositioned for zoom first.
func (d *Drawing) HandleAt(pt geom.Point, zoom, tolerance float64) (*Handle, Shape) {
	_, s := d.Selected()
	if s == nil {
		return nil, nil
	}
	s.UpdateHandles(zoom)
	for _, h := range s.Handles() {
		if h.PointInside(pt, tolerance) {
			return h, s
		}
	}
	return nil, nil
}

// WorldBounds returns the world-space bounding box of a shape.
func WorldBounds(s Shape) geom.Rect {
	return s.ObjToWorld().TransformRect(s.Bounds())
}
