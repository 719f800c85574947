package editor

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"

	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/controller"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
	"github.com/vectorpad/vectorpad/internal/render"
)

var (
	ErrInvalidZoom  = errors.New("zoom must be positive")
	ErrNoSelection  = errors.New("no shape selected")
	ErrUnknownOrder = errors.New("unknown reorder operation")
	ErrInvalidSize  = errors.New("invalid preview size")
)

// Reorder operations.
const (
	OrderFront    = "front"
	OrderBack     = "back"
	OrderForward  = "forward"
	OrderBackward = "backward"
)

// Options configures a new Editor. Zero values fall back to defaults.
type Options struct {
	Zoom      float64
	Tolerance float64 // hit tolerance in view units
	Color     color.RGBA
	Tool      controller.Kind
	Logger    *slog.Logger
}

// View maps world space onto the canvas: world points are shifted by -Offset
// and then scaled by Zoom.
type View struct {
	Zoom   float64    `json:"zoom"`
	Offset geom.Point `json:"offset"`
}

func (v View) WorldToView() geom.Matrix2D {
	return geom.Scale(v.Zoom, v.Zoom).Multiply(geom.Translate(-v.Offset.X, -v.Offset.Y))
}

func (v View) ViewToWorld() (geom.Matrix2D, error) {
	return v.WorldToView().Invert()
}

// Editor owns a drawing and routes canvas input to the current tool.
// It processes commands from a client and answers render queries.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	drawing   *drawing.Drawing
	view      View
	tolerance float64
	color     color.RGBA
	log       *slog.Logger

	toolKind controller.Kind
	tool     controller.Tool

	// Dirty flag - command buffer needs recompiling
	dirty    bool
	commands []render.DrawCommand
}

// New creates an editor for d.
func New(d *drawing.Drawing, opts Options) *Editor {
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 4
	}
	if opts.Color == (color.RGBA{}) {
		opts.Color = colornames.White
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tool == "" {
		opts.Tool = controller.KindSelect
	}

	e := &Editor{
		drawing:   d,
		view:      View{Zoom: opts.Zoom},
		tolerance: opts.Tolerance,
		color:     opts.Color,
		log:       opts.Logger,
		dirty:     true,
	}
	d.Subscribe(drawing.NotifierFunc(func(drawing.Change) { e.dirty = true }))
	if err := e.SetTool(opts.Tool); err != nil {
		e.log.Warn("falling back to select tool", "tool", opts.Tool, "error", err)
		e.tool = controller.NewSelectTool(e)
		e.toolKind = controller.KindSelect
	}
	return e
}

// --- controller.Host ---

func (e *Editor) Drawing() *drawing.Drawing { return e.drawing }
func (e *Editor) Color() color.RGBA         { return e.color }
func (e *Editor) ZoomFactor() float64       { return e.view.Zoom }
func (e *Editor) Tolerance() float64        { return e.tolerance }
func (e *Editor) Logger() *slog.Logger      { return e.log }

// --- Commands ---

// SetTool switches the active tool. The previous tool is closed first.
func (e *Editor) SetTool(kind controller.Kind) error {
	t, err := controller.New(kind, e)
	if err != nil {
		return err
	}
	if e.tool != nil {
		e.tool.Close()
	}
	e.tool = t
	e.toolKind = kind
	e.dirty = true
	return nil
}

// SetColor sets the color used for new shapes.
func (e *Editor) SetColor(c color.RGBA) {
	e.color = c
}

// SetZoom sets the view zoom factor.
func (e *Editor) SetZoom(zoom float64) error {
	if zoom <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}
	if e.view.Zoom != zoom {
		e.view.Zoom = zoom
		e.dirty = true
	}
	return nil
}

// Pan scrolls the view by a delta in view units. Content follows the delta.
func (e *Editor) Pan(delta geom.Point) {
	if delta == (geom.Point{}) {
		return
	}
	e.view.Offset = e.view.Offset.Sub(delta.Mul(1 / e.view.Zoom))
	e.dirty = true
}

func (e *Editor) PointerPressed(pt geom.Point) {
	if w, ok := e.toWorld(pt); ok {
		e.tool.Pressed(w)
	}
}

func (e *Editor) PointerDragged(pt geom.Point) {
	if w, ok := e.toWorld(pt); ok {
		e.tool.Dragged(w)
	}
}

func (e *Editor) PointerReleased(pt geom.Point) {
	if w, ok := e.toWorld(pt); ok {
		e.tool.Released(w)
	}
}

func (e *Editor) PointerMoved(pt geom.Point) {
	if w, ok := e.toWorld(pt); ok {
		e.tool.Moved(w)
	}
}

func (e *Editor) toWorld(pt geom.Point) (geom.Point, bool) {
	m, err := e.view.ViewToWorld()
	if err != nil {
		e.log.Warn("pointer event dropped", "zoom", e.view.Zoom, "error", err)
		return geom.Point{}, false
	}
	return m.Apply(pt), true
}

// DeleteSelected removes the selected shape.
func (e *Editor) DeleteSelected() error {
	i, _ := e.drawing.Selected()
	if i < 0 {
		return ErrNoSelection
	}
	return e.drawing.RemoveShape(i)
}

// SetSelectedColor recolors the selected shape.
func (e *Editor) SetSelectedColor(c color.RGBA) error {
	_, s := e.drawing.Selected()
	if s == nil {
		return ErrNoSelection
	}
	s.SetColor(c)
	return nil
}

// Reorder moves the selected shape in the z-order.
func (e *Editor) Reorder(op string) error {
	i, _ := e.drawing.Selected()
	if i < 0 {
		return ErrNoSelection
	}
	switch op {
	case OrderFront:
		return e.drawing.MoveToFront(i)
	case OrderBack:
		return e.drawing.MoveToBack(i)
	case OrderForward:
		return e.drawing.MoveForward(i)
	case OrderBackward:
		return e.drawing.MoveBackward(i)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrder, op)
	}
}

// --- Queries ---

// Commands returns the draw command buffer, recompiling it if anything
// changed since the last call.
func (e *Editor) Commands() []render.DrawCommand {
	if e.dirty {
		e.commands = render.Compile(e.drawing, e.view.WorldToView(), e.view.Zoom)
		e.dirty = false
	}
	return e.commands
}

// Render returns the draw commands as JSON.
func (e *Editor) Render() string {
	result, err := render.ToJSON(e.Commands())
	if err != nil {
		e.log.Error("encode draw commands", "error", err)
	}
	return result
}

// Tool returns the active tool kind.
func (e *Editor) Tool() controller.Kind { return e.toolKind }

// View returns the current view.
func (e *Editor) View() View { return e.view }

// Selected returns the ID of the selected shape.
func (e *Editor) Selected() (drawing.ShapeID, bool) {
	_, s := e.drawing.Selected()
	if s == nil {
		return "", false
	}
	return s.ID(), true
}

// HitTest returns the topmost shape under a view-space point.
func (e *Editor) HitTest(pt geom.Point) (drawing.ShapeID, bool) {
	w, ok := e.toWorld(pt)
	if !ok {
		return "", false
	}
	i := e.drawing.HitTest(w, e.tolerance/e.view.Zoom)
	if i < 0 {
		return "", false
	}
	s, err := e.drawing.Shape(i)
	if err != nil {
		return "", false
	}
	return s.ID(), true
}

// Preview renders the whole drawing, scaled to fit, as a PNG. Selection
// decorations are left out.
func (e *Editor) Preview(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	fit, scale := fitView(shapesOnly(render.Compile(e.drawing, geom.Identity(), 1)), width, height)
	shapes := shapesOnly(render.Compile(e.drawing, fit, scale))

	img, err := render.Rasterize(shapes, width, height, colornames.White)
	if err != nil {
		return nil, fmt.Errorf("rasterize preview: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func shapesOnly(commands []render.DrawCommand) []render.DrawCommand {
	var out []render.DrawCommand
	for _, cmd := range commands {
		if cmd.Op == render.OpPath {
			out = append(out, cmd)
		}
	}
	return out
}

// fitView centers the world extent of commands in a width x height image with
// a small margin.
func fitView(world []render.DrawCommand, width, height int) (geom.Matrix2D, float64) {
	const margin = 0.9

	w, h := float64(width), float64(height)
	ext := render.Extent(world)
	scale := 1.0
	switch {
	case ext.Width > 0 && ext.Height > 0:
		scale = min(w/ext.Width, h/ext.Height) * margin
	case ext.Width > 0:
		scale = w / ext.Width * margin
	case ext.Height > 0:
		scale = h / ext.Height * margin
	}
	c := ext.Center()
	fit := geom.Translate(w/2, h/2).
		Multiply(geom.Scale(scale, scale)).
		Multiply(geom.Translate(-c.X, -c.Y))
	return fit, scale
}
