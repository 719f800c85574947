package drawing

import (
	"errors"
	"image/color"
	"testing"

	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/geom"
)

func ids(d *Drawing) []ShapeID {
	var out []ShapeID
	for _, s := range d.Shapes() {
		out = append(out, s.ID())
	}
	return out
}

func TestAddGetRemove(t *testing.T) {
	d := New()
	rec := &Recorder{}
	d.Subscribe(rec)

	a := NewSquare(colornames.Red, geom.Pt(0, 0), 10)
	b := NewCircle(colornames.Blue, geom.Pt(5, 5), 3)
	if i := d.AddShape(a); i != 0 {
		t.Fatalf("first index = %d", i)
	}
	if i := d.AddShape(b); i != 1 {
		t.Fatalf("second index = %d", i)
	}

	got, err := d.Shape(1)
	if err != nil || got != Shape(b) {
		t.Fatalf("Shape(1) = %v, %v", got, err)
	}
	if _, err := d.Shape(2); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Shape(2) err = %v", err)
	}
	if _, err := d.Shape(-1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Shape(-1) err = %v", err)
	}

	if err := d.RemoveShape(0); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Lookup(a.ID()); ok {
		t.Error("removed shape still resolvable")
	}
	if d.IndexOf(b.ID()) != 0 {
		t.Error("remaining shape should shift to index 0")
	}
	if err := d.RemoveShape(5); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("RemoveShape(5) err = %v", err)
	}

	diff(t, []Change{
		{a.ID(), ChangeAdded},
		{b.ID(), ChangeAdded},
		{a.ID(), ChangeRemoved},
	}, rec.Changes)

	// Removed shapes no longer report changes.
	rec.Reset()
	a.SetColor(colornames.Green)
	if len(rec.Changes) != 0 {
		t.Errorf("removed shape notified: %v", rec.Changes)
	}
}

func TestReorder(t *testing.T) {
	d := New()
	var s []Shape
	for i := 0; i < 4; i++ {
		sh := NewCircle(color.RGBA{A: 0xff}, geom.Pt(float64(i), 0), 1)
		d.AddShape(sh)
		s = append(s, sh)
	}
	a, b, c, e := s[0].ID(), s[1].ID(), s[2].ID(), s[3].ID()

	steps := []struct {
		name string
		op   func() error
		want []ShapeID
	}{
		{"front", func() error { return d.MoveToFront(0) }, []ShapeID{b, c, e, a}},
		{"back", func() error { return d.MoveToBack(3) }, []ShapeID{a, b, c, e}},
		{"forward", func() error { return d.MoveForward(1) }, []ShapeID{a, c, b, e}},
		{"backward", func() error { return d.MoveBackward(2) }, []ShapeID{a, b, c, e}},
		{"forward at top", func() error { return d.MoveForward(3) }, []ShapeID{a, b, c, e}},
		{"backward at bottom", func() error { return d.MoveBackward(0) }, []ShapeID{a, b, c, e}},
	}
	for _, st := range steps {
		if err := st.op(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		diff(t, st.want, ids(d))
	}

	if err := d.MoveToFront(9); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("MoveToFront(9) err = %v", err)
	}
}

func TestHitTestTopmost(t *testing.T) {
	d := New()
	back := NewSquare(colornames.Red, geom.Pt(50, 50), 40)
	front := NewCircle(colornames.Blue, geom.Pt(60, 50), 10)
	line := NewLine(colornames.Green, geom.Pt(0, 0), geom.Pt(10, 0))
	d.AddShape(back)
	d.AddShape(front)
	d.AddShape(line)

	tests := []struct {
		name      string
		pt        geom.Point
		tolerance float64
		want      int
	}{
		{"front circle", geom.Pt(62, 50), 0, 1},
		{"back square only", geom.Pt(35, 35), 0, 0},
		{"nothing", geom.Pt(200, 200), 0, -1},
		{"line with tolerance", geom.Pt(5, 2), 3, 2},
		{"line without tolerance", geom.Pt(5, 2), 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.HitTest(tt.pt, tt.tolerance); got != tt.want {
				t.Errorf("HitTest(%s) = %d, want %d", tt.pt, got, tt.want)
			}
		})
	}
}

func TestSelectAndHandleAt(t *testing.T) {
	d := New()
	sq := NewSquare(colornames.Red, geom.Pt(50, 50), 40)
	l := NewLine(colornames.Green, geom.Pt(0, 0), geom.Pt(10, 0))
	d.AddShape(sq)
	d.AddShape(l)

	if h, _ := d.HandleAt(geom.Pt(50, 50), 1, 0); h != nil {
		t.Fatal("no selection should mean no handle")
	}

	if err := d.Select(1); err != nil {
		t.Fatal(err)
	}
	if i, s := d.Selected(); i != 1 || s != Shape(l) {
		t.Fatalf("Selected() = %d, %v", i, s)
	}

	h, owner := d.HandleAt(geom.Pt(10, 1), 1, 0)
	if h == nil || owner != Shape(l) || h.Role() != HandleEnd {
		t.Fatalf("HandleAt end = %v, %v", h, owner)
	}
	resolved, ok := d.Lookup(h.Shape())
	if !ok || resolved != Shape(l) {
		t.Fatal("handle does not resolve to its shape")
	}

	if err := d.Select(-1); err != nil {
		t.Fatal(err)
	}
	if i, _ := d.Selected(); i != -1 {
		t.Fatal("selection not cleared")
	}
	if err := d.Select(7); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Select(7) err = %v", err)
	}
}

func TestWorldBounds(t *testing.T) {
	r := NewRectangle(colornames.Red, geom.Pt(10, 20), 8, 4)
	diff(t, geom.Rect{X: 6, Y: 18, Width: 8, Height: 4}, WorldBounds(r))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff8000", color.RGBA{0xff, 0x80, 0x00, 0xff}, false},
		{"#F80", color.RGBA{0xff, 0x88, 0x00, 0xff}, false},
		{"tomato", colornames.Tomato, false},
		{" White ", colornames.White, false},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
		{"nope", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q) err = %v, want ErrInvalidColor", tt.in, err)
			}
			continue
		}
		diff(t, tt.want, got)
	}
	if got := Hex(color.RGBA{0x1a, 0x1a, 0x2e, 0xff}); got != "#1a1a2e" {
		t.Errorf("Hex = %q", got)
	}
}

func TestSampleDrawing(t *testing.T) {
	d := NewSampleDrawing()
	kinds := map[Kind]bool{}
	for _, s := range d.Shapes() {
		kinds[s.Kind()] = true
	}
	for _, k := range []Kind{KindLine, KindSquare, KindRectangle, KindCircle, KindEllipse, KindTriangle} {
		if !kinds[k] {
			t.Errorf("sample drawing lacks a %s", k)
		}
	}
}
