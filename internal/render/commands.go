package render

import (
	"encoding/json"
	"math"

	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

// Draw operations.
const (
	OpPath    = "path"    // a shape
	OpOutline = "outline" // selection box around a shape
	OpHandle  = "handle"  // handle footprint
	OpTether  = "tether"  // connector from a handle to its anchor reference
)

var (
	selectionStroke = drawing.Hex(colornames.Dodgerblue)
	handleFill      = drawing.Hex(colornames.White)
)

// PathCommand is a single path segment in Canvas2D form:
// ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []any

// DrawCommand is one drawing operation for a canvas client or the rasterizer.
// Path coordinates are in the shape's object space; Transform maps them to view
// space.
type DrawCommand struct {
	Op          string        `json:"op"`
	ShapeID     string        `json:"shapeId,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	Transform   []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f]
	Path        []PathCommand `json:"path,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // in path units
}

// Compile generates the command buffer for a drawing in painter's order.
// Selected shapes are followed by their outline and handles, which are
// repositioned for zoom first.
func Compile(d *drawing.Drawing, view geom.Matrix2D, zoom float64) []DrawCommand {
	if zoom <= 0 {
		zoom = 1
	}
	var commands []DrawCommand
	for _, s := range d.Shapes() {
		toView := view.Multiply(s.ObjToWorld())
		cmd := DrawCommand{
			Op:        OpPath,
			ShapeID:   string(s.ID()),
			Kind:      string(s.Kind()),
			Transform: toView.ToSlice(),
			Path:      shapePath(s),
		}
		if s.Kind() == drawing.KindLine {
			cmd.Stroke = drawing.Hex(s.Color())
			cmd.StrokeWidth = 1 / zoom
		} else {
			cmd.Fill = drawing.Hex(s.Color())
		}
		commands = append(commands, cmd)

		if s.Selected() {
			commands = appendSelection(commands, s, view, zoom)
		}
	}
	return commands
}

func appendSelection(commands []DrawCommand, s drawing.Shape, view geom.Matrix2D, zoom float64) []DrawCommand {
	b := s.Bounds()
	commands = append(commands, DrawCommand{
		Op:          OpOutline,
		ShapeID:     string(s.ID()),
		Transform:   view.Multiply(s.ObjToWorld()).ToSlice(),
		Path:        cornerRectPath(b.X, b.Y, b.Width, b.Height),
		Stroke:      selectionStroke,
		StrokeWidth: 1 / zoom,
	})

	s.UpdateHandles(zoom)
	for _, h := range s.Handles() {
		if !h.Tether().Near(h.Center(), 1e-9) {
			commands = append(commands, DrawCommand{
				Op:          OpTether,
				ShapeID:     string(s.ID()),
				Transform:   view.ToSlice(),
				Path:        segmentPath(h.Tether(), h.Center()),
				Stroke:      selectionStroke,
				StrokeWidth: 1 / zoom,
			})
		}
		c := h.Center()
		commands = append(commands, DrawCommand{
			Op:          OpHandle,
			ShapeID:     string(s.ID()),
			Kind:        h.Role().String(),
			Transform:   view.Multiply(geom.Translate(c.X, c.Y)).ToSlice(),
			Path:        ellipsePath(h.Radius(), h.Radius()),
			Fill:        handleFill,
			Stroke:      selectionStroke,
			StrokeWidth: 1 / zoom,
		})
	}
	return commands
}

// shapePath generates the object-space outline of a shape.
func shapePath(s drawing.Shape) []PathCommand {
	switch v := s.(type) {
	case *drawing.Line:
		return segmentPath(geom.Point{}, v.End())
	case *drawing.Square:
		return centeredRectPath(v.Size(), v.Size())
	case *drawing.Rectangle:
		return centeredRectPath(v.Width(), v.Height())
	case *drawing.Circle:
		return ellipsePath(v.Radius(), v.Radius())
	case *drawing.Ellipse:
		return ellipsePath(v.Width()/2, v.Height()/2)
	case *drawing.Triangle:
		a, b, c := v.Vertices()
		return []PathCommand{
			{"M", a.X, a.Y},
			{"L", b.X, b.Y},
			{"L", c.X, c.Y},
			{"Z"},
		}
	default:
		b := s.Bounds()
		return cornerRectPath(b.X, b.Y, b.Width, b.Height)
	}
}

func segmentPath(a, b geom.Point) []PathCommand {
	return []PathCommand{
		{"M", a.X, a.Y},
		{"L", b.X, b.Y},
	}
}

func centeredRectPath(w, h float64) []PathCommand {
	return cornerRectPath(-w/2, -h/2, w, h)
}

func cornerRectPath(x, y, w, h float64) []PathCommand {
	return []PathCommand{
		{"M", x, y},
		{"L", x + w, y},
		{"L", x + w, y + h},
		{"L", x, y + h},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse centered on the origin with four cubic
// beziers.
func ellipsePath(rx, ry float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 0.5522847498
	kx, ky := rx*k, ry*k

	return []PathCommand{
		{"M", rx, 0.0},
		{"C", rx, ky, kx, ry, 0.0, ry},
		{"C", -kx, ry, -rx, ky, -rx, 0.0},
		{"C", -rx, -ky, -kx, -ry, 0.0, -ry},
		{"C", kx, -ry, rx, -ky, rx, 0.0},
		{"Z"},
	}
}

// Extent returns the view-space bounding box of every command.
func Extent(commands []DrawCommand) geom.Rect {
	var out geom.Rect
	first := true
	for _, cmd := range commands {
		b, ok := pathBounds(cmd.Path, matrixOf(cmd.Transform))
		if !ok {
			continue
		}
		if first {
			out, first = b, false
			continue
		}
		minX, minY := math.Min(out.X, b.X), math.Min(out.Y, b.Y)
		maxX := math.Max(out.X+out.Width, b.X+b.Width)
		maxY := math.Max(out.Y+out.Height, b.Y+b.Height)
		out = geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return out
}

// pathBounds computes the axis-aligned box of a path's points and control
// points after transformation. Unlike Rect.Union it keeps degenerate boxes, so
// a horizontal line still has an extent.
func pathBounds(path []PathCommand, m geom.Matrix2D) (geom.Rect, bool) {
	var minX, minY, maxX, maxY float64
	first := true
	for _, p := range pathPoints(path) {
		wx, wy := m.TransformPoint(p.X, p.Y)
		if first {
			minX, maxX = wx, wx
			minY, maxY = wy, wy
			first = false
			continue
		}
		minX = math.Min(minX, wx)
		maxX = math.Max(maxX, wx)
		minY = math.Min(minY, wy)
		maxY = math.Max(maxY, wy)
	}
	if first {
		return geom.Rect{}, false
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

func pathPoints(path []PathCommand) []geom.Point {
	var pts []geom.Point
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}
		var n int
		switch op {
		case "M", "L":
			n = 1
		case "Q":
			n = 2
		case "C":
			n = 3
		default:
			continue
		}
		if len(cmd) < 1+2*n {
			continue
		}
		for i := range n {
			pts = append(pts, geom.Pt(toFloat64(cmd[1+2*i]), toFloat64(cmd[2+2*i])))
		}
	}
	return pts
}

func matrixOf(s []float64) geom.Matrix2D {
	if len(s) != 6 {
		return geom.Identity()
	}
	return geom.Matrix2D{s[0], s[1], s[2], s[3], s[4], s[5]}
}

// toFloat64 converts a decoded path operand to float64.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// ToJSON serializes draw commands.
func ToJSON(commands []DrawCommand) (string, error) {
	if len(commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
