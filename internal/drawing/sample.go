package drawing

import (
	"math"

	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/geom"
)

// NewSampleDrawing returns a drawing with one shape of every kind, used by the
// playground session and the wasm demo.
func NewSampleDrawing() *Drawing {
	d := New()

	rect := NewRectangle(colornames.Steelblue, geom.Pt(160, 120), 200, 120)
	rect.SetRotation(math.Pi / 12)
	d.AddShape(rect)

	d.AddShape(NewEllipse(colornames.Tomato, geom.Pt(420, 140), 180, 100))

	d.AddShape(NewTriangle(colornames.Gold, geom.Pt(560, 320), geom.Pt(680, 320), geom.Pt(620, 220)))

	sq := NewSquare(colornames.Mediumseagreen, geom.Pt(200, 360), 90)
	sq.SetRotation(math.Pi / 4)
	d.AddShape(sq)

	d.AddShape(NewCircle(colornames.Orchid, geom.Pt(380, 360), 55))

	d.AddShape(NewLine(colornames.White, geom.Pt(60, 460), geom.Pt(600, -20)))

	return d
}
