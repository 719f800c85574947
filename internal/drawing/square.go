package drawing

import (
	"image/color"
	"math"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// Square is an axis-aligned (in object space) square with one rotation handle.
type Square struct {
	Base
	size float64
}

func NewSquare(c color.RGBA, center geom.Point, size float64) *Square {
	s := &Square{Base: newBase(c, center), size: size}
	s.SetNumHandles(1)
	return s
}

func (s *Square) Kind() Kind { return KindSquare }

func (s *Square) Size() float64 { return s.size }

func (s *Square) SetSize(size float64) {
	s.size = size
	s.geometryChanged()
}

func (s *Square) PointInShape(pt geom.Point, tolerance float64) bool {
	if s.size <= 0 {
		return false
	}
	half := s.size / 2
	return math.Abs(pt.X) <= half && math.Abs(pt.Y) <= half
}

func (s *Square) MinimumY() float64 { return -s.size / 2 }

func (s *Square) Bounds() geom.Rect {
	half := s.size / 2
	return geom.Rect{X: -half, Y: -half, Width: s.size, Height: s.size}
}

func (s *Square) UpdateHandles(zoom float64) { s.updateCenterHandles(zoom) }

// Rectangle is a width by height box centered on its center.
type Rectangle struct {
	Base
	width  float64
	height float64
}

func NewRectangle(c color.RGBA, center geom.Point, width, height float64) *Rectangle {
	r := &Rectangle{Base: newBase(c, center), width: width, height: height}
	r.SetNumHandles(1)
	return r
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Width() float64  { return r.width }
func (r *Rectangle) Height() float64 { return r.height }

func (r *Rectangle) SetWidth(w float64) {
	r.width = w
	r.geometryChanged()
}

func (r *Rectangle) SetHeight(h float64) {
	r.height = h
	r.geometryChanged()
}

func (r *Rectangle) PointInShape(pt geom.Point, tolerance float64) bool {
	if r.width <= 0 || r.height <= 0 {
		return false
	}
	return math.Abs(pt.X) <= r.width/2 && math.Abs(pt.Y) <= r.height/2
}

func (r *Rectangle) MinimumY() float64 { return -r.height / 2 }

func (r *Rectangle) Bounds() geom.Rect {
	return geom.Rect{X: -r.width / 2, Y: -r.height / 2, Width: r.width, Height: r.height}
}

func (r *Rectangle) UpdateHandles(zoom float64) { r.updateCenterHandles(zoom) }
