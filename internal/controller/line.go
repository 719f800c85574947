package controller

import (
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/geom"
)

// LineTool authors segments. A press creates a zero-length line whose start is
// the press point; drags move the end.
type LineTool struct {
	host  Host
	index int // pinned between a press and the next press, -1 when idle
}

func NewLineTool(h Host) *LineTool {
	return &LineTool{host: h, index: -1}
}

// Editing reports whether a line is pinned.
func (t *LineTool) Editing() bool { return t.index >= 0 }

func (t *LineTool) Pressed(pt geom.Point) {
	line := drawing.NewLine(t.host.Color(), pt, geom.Point{})
	t.index = t.host.Drawing().AddShape(line)
}

func (t *LineTool) Dragged(pt geom.Point) {
	if t.index < 0 {
		return
	}
	line, err := resolve[*drawing.Line](t.host.Drawing(), t.index)
	if err != nil {
		t.host.Logger().Warn("drag ignored", "tool", KindLine, "index", t.index, "error", err)
		return
	}
	line.SetEnd(line.WorldToObj().Apply(pt))
}

func (t *LineTool) Released(pt geom.Point) {}

func (t *LineTool) Moved(pt geom.Point) {}

func (t *LineTool) Close() { t.index = -1 }
