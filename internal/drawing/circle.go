package drawing

import (
	"image/color"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// Circle is also used as the footprint of every Handle.
type Circle struct {
	Base
	radius float64
}

func NewCircle(c color.RGBA, center geom.Point, radius float64) *Circle {
	ci := &Circle{Base: newBase(c, center), radius: radius}
	ci.SetNumHandles(1)
	return ci
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Radius() float64 { return c.radius }

func (c *Circle) SetRadius(r float64) {
	c.radius = r
	c.geometryChanged()
}

func (c *Circle) PointInShape(pt geom.Point, tolerance float64) bool {
	if c.radius <= 0 {
		return false
	}
	return pt.X*pt.X+pt.Y*pt.Y <= c.radius*c.radius
}

func (c *Circle) MinimumY() float64 { return -c.radius }

func (c *Circle) Bounds() geom.Rect {
	return geom.Rect{X: -c.radius, Y: -c.radius, Width: 2 * c.radius, Height: 2 * c.radius}
}

func (c *Circle) UpdateHandles(zoom float64) { c.updateCenterHandles(zoom) }

// Ellipse is described by its full width and height.
type Ellipse struct {
	Base
	width  float64
	height float64
}

func NewEllipse(c color.RGBA, center geom.Point, width, height float64) *Ellipse {
	e := &Ellipse{Base: newBase(c, center), width: width, height: height}
	e.SetNumHandles(1)
	return e
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Width() float64  { return e.width }
func (e *Ellipse) Height() float64 { return e.height }

func (e *Ellipse) SetWidth(w float64) {
	e.width = w
	e.geometryChanged()
}

func (e *Ellipse) SetHeight(h float64) {
	e.height = h
	e.geometryChanged()
}

func (e *Ellipse) PointInShape(pt geom.Point, tolerance float64) bool {
	if e.width <= 0 || e.height <= 0 {
		return false
	}
	rx, ry := e.width/2, e.height/2
	nx, ny := pt.X/rx, pt.Y/ry
	return nx*nx+ny*ny <= 1
}

func (e *Ellipse) MinimumY() float64 { return -e.height / 2 }

func (e *Ellipse) Bounds() geom.Rect {
	return geom.Rect{X: -e.width / 2, Y: -e.height / 2, Width: e.width, Height: e.height}
}

func (e *Ellipse) UpdateHandles(zoom float64) { e.updateCenterHandles(zoom) }
