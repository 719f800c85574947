package drawing

import (
	"image/color"

	"github.com/vectorpad/vectorpad/internal/geom"
	"github.com/vectorpad/vectorpad/internal/typeid"
)

// ShapeID identifies a shape in a Drawing.
type ShapeID string

// Kind is the closed set of shape variants.
type Kind string

const (
	KindLine      Kind = "line"
	KindSquare    Kind = "square"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindTriangle  Kind = "triangle"
)

// Shape is implemented by every variant in this package.
//
// Geometry is kept in object space: the shape's own unrotated frame with the
// center at the origin. WorldToObj and ObjToWorld move points between that frame
// and world space and are derived fresh from the current center and rotation on
// every call.
type Shape interface {
	ID() ShapeID
	Kind() Kind

	Color() color.RGBA
	SetColor(c color.RGBA)
	Center() geom.Point
	SetCenter(p geom.Point)
	// Rotation is in radians, counter-clockwise, object to world.
	Rotation() float64
	SetRotation(r float64)
	Selected() bool
	SetSelected(selected bool)

	NumHandles() int
	SetNumHandles(n int)
	Handles() []*Handle
	HandlesDirty() bool
	RebuildHandles()

	WorldToObj() geom.Matrix2D
	ObjToWorld() geom.Matrix2D

	// UpdateHandles repositions handles for the current geometry. Footprints are
	// sized by 1/zoom so they keep a constant size on screen.
	UpdateHandles(zoom float64)
	// MinimumY is the smallest object-space Y the shape reaches.
	MinimumY() float64
	// PointInShape tests a point that the caller has already mapped into object
	// space with WorldToObj. Only line-like shapes use tolerance.
	PointInShape(pt geom.Point, tolerance float64) bool
	// Bounds is the object-space bounding box.
	Bounds() geom.Rect

	base() *Base
}

// Base carries the attributes shared by all variants. Variants embed it.
type Base struct {
	id       ShapeID
	color    color.RGBA
	center   geom.Point
	rotation float64
	selected bool

	numHandles   int
	handles      []*Handle
	handlesDirty bool

	notifier Notifier
}

func newBase(c color.RGBA, center geom.Point) Base {
	return Base{
		id:           ShapeID(typeid.NewShapeID()),
		color:        c,
		center:       center,
		numHandles:   1,
		handlesDirty: true,
	}
}

func (b *Base) base() *Base { return b }

func (b *Base) ID() ShapeID { return b.id }

func (b *Base) Color() color.RGBA { return b.color }

func (b *Base) SetColor(c color.RGBA) {
	b.color = c
	b.changed(ChangeColor)
}

func (b *Base) Center() geom.Point { return b.center }

func (b *Base) SetCenter(p geom.Point) {
	b.center = p
	b.handlesDirty = true
	b.changed(ChangeCenter)
}

func (b *Base) Rotation() float64 { return b.rotation }

func (b *Base) SetRotation(r float64) {
	b.rotation = r
	b.handlesDirty = true
	b.changed(ChangeRotation)
}

func (b *Base) Selected() bool { return b.selected }

func (b *Base) SetSelected(selected bool) {
	b.selected = selected
	b.changed(ChangeSelected)
}

func (b *Base) NumHandles() int { return b.numHandles }

// SetNumHandles records the desired handle count. The list is rebuilt the next
// time Handles or RebuildHandles is called.
func (b *Base) SetNumHandles(n int) {
	if n < 1 {
		n = 1
	}
	b.numHandles = n
	b.handlesDirty = true
}

// Handles returns the handle list, rebuilding it when its length no longer
// matches NumHandles. Positions are only meaningful once UpdateHandles has run
// after the last geometry change; HandlesDirty reports when they are stale.
func (b *Base) Handles() []*Handle {
	if len(b.handles) != b.numHandles {
		b.RebuildHandles()
	}
	return b.handles
}

// HandlesDirty reports whether handle positions are stale.
func (b *Base) HandlesDirty() bool { return b.handlesDirty }

// RebuildHandles discards the handle list and creates NumHandles new handles
// anchored at the object-space origin.
func (b *Base) RebuildHandles() {
	b.handles = make([]*Handle, b.numHandles)
	for i := range b.handles {
		b.handles[i] = NewHandle(b.id, geom.Point{})
	}
	b.handlesDirty = true
}

func (b *Base) WorldToObj() geom.Matrix2D {
	return geom.WorldToObject(b.center, b.rotation)
}

func (b *Base) ObjToWorld() geom.Matrix2D {
	return geom.ObjectToWorld(b.center, b.rotation)
}

// updateCenterHandles is the handle policy for area shapes: every handle is a
// rotation handle that sits on the shape's center.
func (b *Base) updateCenterHandles(zoom float64) {
	for _, h := range b.Handles() {
		h.role = HandleRotate
		h.anchor = geom.Point{}
		h.UpdateHandle(b.center, b.center, zoom)
	}
	b.handlesDirty = false
}

func (b *Base) geometryChanged() {
	b.handlesDirty = true
	b.changed(ChangeGeometry)
}

func (b *Base) changed(kind ChangeKind) {
	if b.notifier == nil {
		return
	}
	b.notifier.Notify(Change{ShapeID: b.id, Kind: kind})
}
