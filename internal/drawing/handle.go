package drawing

import "github.com/vectorpad/vectorpad/internal/geom"

// HandleRadius is the on-screen radius of a handle footprint, in view units.
var HandleRadius = 5.0

// HandleRole says which attribute dragging a handle edits.
type HandleRole int

const (
	HandleRotate HandleRole = iota
	HandleStart
	HandleEnd
)

func (r HandleRole) String() string {
	switch r {
	case HandleStart:
		return "start"
	case HandleEnd:
		return "end"
	default:
		return "rotate"
	}
}

// Handle is a draggable control point bound to one shape.
//
// The shape is referenced by ID only; resolve it through Drawing.Lookup. The
// circular footprint belongs to the handle and is positioned by UpdateHandle.
type Handle struct {
	shape  ShapeID
	role   HandleRole
	anchor geom.Point // object space, relative to the shape's center
	tether geom.Point // world space point the handle hangs from

	footprint *Circle
}

// NewHandle creates a handle for shape anchored at an object-space offset.
func NewHandle(shape ShapeID, anchor geom.Point) *Handle {
	return &Handle{
		shape:     shape,
		anchor:    anchor,
		footprint: &Circle{Base: Base{numHandles: 1}, radius: HandleRadius},
	}
}

func (h *Handle) Shape() ShapeID     { return h.shape }
func (h *Handle) Role() HandleRole   { return h.role }
func (h *Handle) Anchor() geom.Point { return h.anchor }

// Tether is the world point passed as the anchor reference on the last update.
// Renderers draw a connector from it when it differs from Center.
func (h *Handle) Tether() geom.Point { return h.tether }

// Center is the footprint center in world space.
func (h *Handle) Center() geom.Point { return h.footprint.center }

// Radius is the footprint radius in world units.
func (h *Handle) Radius() float64 { return h.footprint.radius }

// UpdateHandle moves the footprint onto target and sizes it to HandleRadius/zoom.
// Non-positive zoom factors are treated as 1.
func (h *Handle) UpdateHandle(anchorRef, target geom.Point, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	h.tether = anchorRef
	h.footprint.center = target
	h.footprint.radius = HandleRadius / zoom
}

// PointInside tests a world-space point against the footprint grown by tolerance.
func (h *Handle) PointInside(pt geom.Point, tolerance float64) bool {
	obj := h.footprint.WorldToObj().Apply(pt)
	return obj.Hypot() <= h.footprint.radius+tolerance
}
