package editor

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/controller"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
	"github.com/vectorpad/vectorpad/internal/render"
)

func newTestEditor(t *testing.T, opts Options) (*Editor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	return New(drawing.New(), opts), &logs
}

func assertNear(t *testing.T, got, want geom.Point, epsilon float64) {
	t.Helper()
	if !got.Near(want, epsilon) {
		t.Fatalf("got %s, expected %s", got, want)
	}
}

func TestViewRoundTrip(t *testing.T) {
	v := View{Zoom: 2, Offset: geom.Pt(10, -5)}
	assertNear(t, v.WorldToView().Apply(geom.Pt(10, -5)), geom.Pt(0, 0), 1e-12)
	assertNear(t, v.WorldToView().Apply(geom.Pt(11, -4)), geom.Pt(2, 2), 1e-12)

	inv, err := v.ViewToWorld()
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, inv.Apply(geom.Pt(2, 2)), geom.Pt(11, -4), 1e-12)
}

func TestDefaults(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	if e.Tool() != controller.KindSelect {
		t.Errorf("tool = %s", e.Tool())
	}
	if e.ZoomFactor() != 1 || e.Tolerance() != 4 || e.Color() != colornames.White {
		t.Errorf("defaults zoom=%v tol=%v color=%v", e.ZoomFactor(), e.Tolerance(), e.Color())
	}

	e, logs := newTestEditor(t, Options{Tool: "lasso"})
	if e.Tool() != controller.KindSelect {
		t.Errorf("fallback tool = %s", e.Tool())
	}
	if !strings.Contains(logs.String(), "falling back") {
		t.Errorf("expected a warning, got %q", logs.String())
	}
}

func TestAuthorLineThroughView(t *testing.T) {
	e, _ := newTestEditor(t, Options{Color: colornames.Tomato})
	if err := e.SetTool(controller.KindLine); err != nil {
		t.Fatal(err)
	}
	if err := e.SetZoom(2); err != nil {
		t.Fatal(err)
	}

	e.PointerPressed(geom.Pt(20, 20))
	e.PointerDragged(geom.Pt(40, 20))
	e.PointerReleased(geom.Pt(40, 20))

	s, err := e.Drawing().Shape(0)
	if err != nil {
		t.Fatal(err)
	}
	line := s.(*drawing.Line)
	assertNear(t, line.Start(), geom.Pt(10, 10), 1e-12)
	assertNear(t, line.End(), geom.Pt(10, 0), 1e-12)
	if line.Color() != colornames.Tomato {
		t.Errorf("color = %v", line.Color())
	}
}

func TestSetZoomRejectsNonPositive(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	for _, z := range []float64{0, -1} {
		if err := e.SetZoom(z); !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("SetZoom(%v) err = %v", z, err)
		}
	}
	if e.ZoomFactor() != 1 {
		t.Errorf("zoom changed to %v", e.ZoomFactor())
	}
}

func TestPan(t *testing.T) {
	e, _ := newTestEditor(t, Options{Zoom: 2})
	e.Pan(geom.Pt(10, 4))
	if diff := cmp.Diff(View{Zoom: 2, Offset: geom.Pt(-5, -2)}, e.View()); diff != "" {
		t.Errorf("view (-want +got):\n%s", diff)
	}
	// Content follows the pan: the world origin now sits at the pan delta.
	assertNear(t, e.View().WorldToView().Apply(geom.Point{}), geom.Pt(10, 4), 1e-12)
}

func TestSelectionCommands(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	d := e.Drawing()
	a := drawing.NewSquare(colornames.Red, geom.Pt(0, 0), 10)
	b := drawing.NewCircle(colornames.Blue, geom.Pt(100, 100), 10)
	d.AddShape(a)
	d.AddShape(b)

	if err := e.DeleteSelected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("DeleteSelected err = %v", err)
	}
	if err := e.SetSelectedColor(colornames.Green); !errors.Is(err, ErrNoSelection) {
		t.Errorf("SetSelectedColor err = %v", err)
	}
	if err := e.Reorder(OrderFront); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Reorder err = %v", err)
	}

	e.PointerPressed(geom.Pt(1, 1))
	e.PointerReleased(geom.Pt(1, 1))
	if id, ok := e.Selected(); !ok || id != a.ID() {
		t.Fatalf("selected %q %v", id, ok)
	}

	if err := e.SetSelectedColor(colornames.Green); err != nil {
		t.Fatal(err)
	}
	if a.Color() != colornames.Green {
		t.Errorf("color = %v", a.Color())
	}

	if err := e.Reorder("sideways"); !errors.Is(err, ErrUnknownOrder) {
		t.Errorf("Reorder err = %v", err)
	}
	if err := e.Reorder(OrderFront); err != nil {
		t.Fatal(err)
	}
	if d.IndexOf(a.ID()) != 1 {
		t.Errorf("a at index %d", d.IndexOf(a.ID()))
	}

	if err := e.DeleteSelected(); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Fatalf("len = %d", d.Len())
	}
	if _, ok := d.Lookup(a.ID()); ok {
		t.Error("deleted shape still registered")
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection should be empty")
	}
}

func TestSwitchingToolClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	e.Drawing().AddShape(drawing.NewSquare(colornames.Red, geom.Pt(0, 0), 10))
	e.PointerPressed(geom.Pt(0, 0))
	if _, ok := e.Selected(); !ok {
		t.Fatal("expected selection")
	}
	if err := e.SetTool(controller.KindCircle); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection should be cleared")
	}
	if err := e.SetTool("lasso"); !errors.Is(err, controller.ErrUnknownTool) {
		t.Errorf("SetTool err = %v", err)
	}
	if e.Tool() != controller.KindCircle {
		t.Errorf("tool = %s", e.Tool())
	}
}

func TestCommandsAreCached(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	sq := drawing.NewSquare(colornames.Red, geom.Pt(0, 0), 10)
	e.Drawing().AddShape(sq)

	first := e.Commands()
	second := e.Commands()
	if len(first) != 1 || &first[0] != &second[0] {
		t.Fatal("expected cached command buffer")
	}

	sq.SetCenter(geom.Pt(5, 5))
	third := e.Commands()
	if &third[0] == &first[0] {
		t.Fatal("shape change should recompile")
	}
	if diff := cmp.Diff([]float64{1, 0, 0, 1, 5, 5}, third[0].Transform); diff != "" {
		t.Errorf("transform (-want +got):\n%s", diff)
	}

	if err := e.SetZoom(3); err != nil {
		t.Fatal(err)
	}
	if got := e.Commands()[0].Transform; got[0] != 3 || got[4] != 15 {
		t.Errorf("zoomed transform %v", got)
	}
}

func TestRenderJSON(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	if got := e.Render(); got != "[]" {
		t.Errorf("empty render = %s", got)
	}
	e.Drawing().AddShape(drawing.NewSquare(colornames.Red, geom.Pt(0, 0), 10))
	if got := e.Render(); !strings.Contains(got, `"fill":"#ff0000"`) {
		t.Errorf("render = %s", got)
	}
}

func TestHitTest(t *testing.T) {
	e, _ := newTestEditor(t, Options{Zoom: 2})
	c := drawing.NewCircle(colornames.Red, geom.Pt(10, 10), 5)
	e.Drawing().AddShape(c)

	if id, ok := e.HitTest(geom.Pt(20, 20)); !ok || id != c.ID() {
		t.Errorf("hit at center = %q %v", id, ok)
	}
	if _, ok := e.HitTest(geom.Pt(0, 0)); ok {
		t.Error("expected miss")
	}
}

func TestPreview(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	if _, err := e.Preview(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Preview err = %v", err)
	}

	sq := drawing.NewSquare(colornames.Red, geom.Pt(500, 500), 100)
	e.Drawing().AddShape(sq)
	e.PointerPressed(geom.Pt(500, 500))

	data, err := e.Preview(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds %v", b)
	}
	if r, g, b, _ := img.At(32, 16).RGBA(); r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("center pixel %v", img.At(32, 16))
	}
	if r, g, b, _ := img.At(2, 16).RGBA(); r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("margin pixel %v", img.At(2, 16))
	}
}

func TestPreviewEmptyDrawing(t *testing.T) {
	e, _ := newTestEditor(t, Options{})
	data, err := e.Preview(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
}

func TestFitView(t *testing.T) {
	world := []render.DrawCommand{{
		Op:        render.OpPath,
		Transform: geom.Translate(10, 10).ToSlice(),
		Path:      []render.PathCommand{{"M", 0.0, 0.0}, {"L", 20.0, 10.0}},
	}}
	fit, scale := fitView(world, 100, 100)
	if math.Abs(scale-4.5) > 1e-9 {
		t.Errorf("scale = %v", scale)
	}
	assertNear(t, fit.Apply(geom.Pt(20, 15)), geom.Pt(50, 50), 1e-9)
}
