package controller

import (
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

// TriangleTool collects three presses and creates the triangle on the third.
type TriangleTool struct {
	host   Host
	points []geom.Point
}

func NewTriangleTool(h Host) *TriangleTool {
	return &TriangleTool{host: h}
}

// Pending returns how many vertices have been placed so far.
func (t *TriangleTool) Pending() int { return len(t.points) }

func (t *TriangleTool) Pressed(pt geom.Point) {
	t.points = append(t.points, pt)
	if len(t.points) < 3 {
		return
	}
	tri := drawing.NewTriangle(t.host.Color(), t.points[0], t.points[1], t.points[2])
	t.host.Drawing().AddShape(tri)
	t.points = t.points[:0]
}

func (t *TriangleTool) Dragged(pt geom.Point)  {}
func (t *TriangleTool) Released(pt geom.Point) {}
func (t *TriangleTool) Moved(pt geom.Point)    {}

func (t *TriangleTool) Close() { t.points = nil }
