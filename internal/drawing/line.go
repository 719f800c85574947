package drawing

import (
	"image/color"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// Line is a segment. Its center is the start point, so the start is always
// the object-space origin and only the end is stored.
type Line struct {
	Base
	end geom.Point // object space
}

// NewLine creates a line starting at start (world) with end given in object space.
func NewLine(c color.RGBA, start, end geom.Point) *Line {
	l := &Line{Base: newBase(c, start), end: end}
	l.SetNumHandles(2)
	return l
}

func (l *Line) Kind() Kind { return KindLine }

// Start is the world-space start point.
func (l *Line) Start() geom.Point { return l.center }

// End is the object-space end point.
func (l *Line) End() geom.Point { return l.end }

// EndWorld is the end point in world space.
func (l *Line) EndWorld() geom.Point { return l.ObjToWorld().Apply(l.end) }

// SetEnd sets the object-space end point.
func (l *Line) SetEnd(end geom.Point) {
	l.end = end
	l.geometryChanged()
}

// MoveStart moves the start to a world point while keeping the end fixed in world space.
func (l *Line) MoveStart(start geom.Point) {
	endWorld := l.EndWorld()
	l.center = start
	l.end = l.WorldToObj().Apply(endWorld)
	l.handlesDirty = true
	l.changed(ChangeCenter)
	l.changed(ChangeGeometry)
}

// PointInShape reports whether pt lies within tolerance of the segment.
// A zero-length line is hit only within tolerance of its start.
func (l *Line) PointInShape(pt geom.Point, tolerance float64) bool {
	return geom.SegmentDistance(pt, geom.Point{}, l.end) <= tolerance
}

func (l *Line) MinimumY() float64 { return min(0, l.end.Y) }

func (l *Line) Bounds() geom.Rect { return geom.RectFromPoints(geom.Point{}, l.end) }

// UpdateHandles puts the first handle on the start and the second on the end.
func (l *Line) UpdateHandles(zoom float64) {
	toWorld := l.ObjToWorld()
	for i, h := range l.Handles() {
		anchor := geom.Point{}
		h.role = HandleStart
		if i > 0 {
			anchor = l.end
			h.role = HandleEnd
		}
		h.anchor = anchor
		target := toWorld.Apply(anchor)
		h.UpdateHandle(target, target, zoom)
	}
	l.handlesDirty = false
}
