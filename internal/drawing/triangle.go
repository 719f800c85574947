package drawing

import (
	"image/color"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// Triangle stores its vertices in object space around its center.
type Triangle struct {
	Base
	a, b, c geom.Point
}

// NewTriangle creates a triangle from three world-space vertices. The center is
// their centroid.
func NewTriangle(col color.RGBA, a, b, c geom.Point) *Triangle {
	centroid := a.Add(b).Add(c).Mul(1.0 / 3)
	t := &Triangle{
		Base: newBase(col, centroid),
		a:    a.Sub(centroid),
		b:    b.Sub(centroid),
		c:    c.Sub(centroid),
	}
	t.SetNumHandles(1)
	return t
}

func (t *Triangle) Kind() Kind { return KindTriangle }

// Vertices returns the object-space vertices.
func (t *Triangle) Vertices() (a, b, c geom.Point) { return t.a, t.b, t.c }

// SetVertices sets the object-space vertices.
func (t *Triangle) SetVertices(a, b, c geom.Point) {
	t.a, t.b, t.c = a, b, c
	t.geometryChanged()
}

// PointInShape uses the same-side test on all three edges. Degenerate triangles
// contain nothing.
func (t *Triangle) PointInShape(pt geom.Point, tolerance float64) bool {
	area := cross(t.a, t.b, t.c)
	if area == 0 {
		return false
	}
	var positive, negative bool
	for _, e := range [3][2]geom.Point{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
		switch c := cross(e[0], e[1], pt); {
		case c > 0:
			positive = true
		case c < 0:
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

func (t *Triangle) MinimumY() float64 { return min(t.a.Y, t.b.Y, t.c.Y) }

func (t *Triangle) Bounds() geom.Rect { return geom.RectFromPoints(t.a, t.b, t.c) }

func (t *Triangle) UpdateHandles(zoom float64) { t.updateCenterHandles(zoom) }

func cross(o, a, b geom.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
