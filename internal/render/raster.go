package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

const curveSteps = 16

type polyline struct {
	points []geom.Point
	closed bool
}

// Rasterize paints commands onto a new width x height image. Transforms in the
// commands must map to pixel space.
func Rasterize(commands []DrawCommand, width, height int, background color.Color) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(width, height)
	for _, cmd := range commands {
		m := matrixOf(cmd.Transform)
		lines := flatten(cmd.Path, m)
		if len(lines) == 0 {
			continue
		}

		if cmd.Fill != "" {
			c, err := drawing.ParseColor(cmd.Fill)
			if err != nil {
				return nil, fmt.Errorf("fill of %s %s: %w", cmd.Op, cmd.ShapeID, err)
			}
			z.Reset(width, height)
			for _, pl := range lines {
				fillPolyline(z, pl)
			}
			z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
		}

		if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
			c, err := drawing.ParseColor(cmd.Stroke)
			if err != nil {
				return nil, fmt.Errorf("stroke of %s %s: %w", cmd.Op, cmd.ShapeID, err)
			}
			w := max(cmd.StrokeWidth*math.Sqrt(math.Abs(m.Determinant())), 1)
			z.Reset(width, height)
			for _, pl := range lines {
				strokePolyline(z, pl, w/2)
			}
			z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
		}
	}
	return dst, nil
}

// flatten transforms a path into pixel space and replaces curves with line
// segments.
func flatten(path []PathCommand, m geom.Matrix2D) []polyline {
	var (
		out      []polyline
		cur      *polyline
		pen      geom.Point
		subStart geom.Point
	)
	start := func(p geom.Point) {
		out = append(out, polyline{points: []geom.Point{m.Apply(p)}})
		cur = &out[len(out)-1]
	}
	lineTo := func(p geom.Point) {
		if cur == nil {
			start(pen)
		}
		cur.points = append(cur.points, m.Apply(p))
	}

	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, _ := cmd[0].(string)
		args := make([]float64, len(cmd)-1)
		for i := range args {
			args[i] = toFloat64(cmd[i+1])
		}

		switch {
		case op == "M" && len(args) >= 2:
			pen = geom.Pt(args[0], args[1])
			subStart = pen
			start(pen)
		case op == "L" && len(args) >= 2:
			pen = geom.Pt(args[0], args[1])
			lineTo(pen)
		case op == "Q" && len(args) >= 4:
			p0, p1, p2 := pen, geom.Pt(args[0], args[1]), geom.Pt(args[2], args[3])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				lineTo(p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t)))
			}
			pen = p2
		case op == "C" && len(args) >= 6:
			p0, p1, p2, p3 := pen, geom.Pt(args[0], args[1]), geom.Pt(args[2], args[3]), geom.Pt(args[4], args[5])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				lineTo(p0.Mul(u * u * u).Add(p1.Mul(3 * u * u * t)).Add(p2.Mul(3 * u * t * t)).Add(p3.Mul(t * t * t)))
			}
			pen = p3
		case op == "Z":
			if cur != nil {
				cur.closed = true
				cur = nil
			}
			pen = subStart
		}
	}
	return out
}

func fillPolyline(z *vector.Rasterizer, pl polyline) {
	if len(pl.points) < 3 {
		return
	}
	p := pl.points[0]
	z.MoveTo(float32(p.X), float32(p.Y))
	for _, p := range pl.points[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

// strokePolyline adds one quad per segment. All quads share a winding so
// overlaps at joints do not cancel.
func strokePolyline(z *vector.Rasterizer, pl polyline, halfWidth float64) {
	pts := pl.points
	if pl.closed && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Hypot()
		if l == 0 {
			continue
		}
		n := geom.Pt(-d.Y, d.X).Mul(halfWidth / l)
		quad := [4]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
		z.MoveTo(float32(quad[0].X), float32(quad[0].Y))
		for _, q := range quad[1:] {
			z.LineTo(float32(q.X), float32(q.Y))
		}
		z.ClosePath()
	}
}
