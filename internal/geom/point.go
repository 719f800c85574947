package geom

import (
	"fmt"
	"math"
)

// Point is a 2D point or offset. The same type is used in object, world and
// view space; which one is meant depends on where the value came from.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Hypot returns the length of p treated as a vector.
func (p Point) Hypot() float64 { return math.Hypot(p.X, p.Y) }

// Near reports whether p and q are within eps of each other.
func (p Point) Near(q Point, eps float64) bool {
	return p.Sub(q).Hypot() <= eps
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// SegmentDistance returns the distance from p to the closed segment a-b.
// A zero-length segment degrades to the distance from p to a.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Hypot()
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = max(0, min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Hypot()
}
