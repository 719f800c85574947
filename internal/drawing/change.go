package drawing

// ChangeKind names the attribute a Change refers to.
type ChangeKind string

const (
	ChangeColor    ChangeKind = "color"
	ChangeCenter   ChangeKind = "center"
	ChangeRotation ChangeKind = "rotation"
	ChangeSelected ChangeKind = "selected"
	ChangeGeometry ChangeKind = "geometry" // size, radii, endpoints, vertices

	// Emitted by Drawing rather than by a shape.
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeOrder   ChangeKind = "order"
)

// Change describes one mutation of the drawing.
type Change struct {
	ShapeID ShapeID    `json:"shapeId"`
	Kind    ChangeKind `json:"kind"`
}

// Notifier receives every Change. Repaint triggers, collab broadcasts and test
// recorders all sit behind this interface.
type Notifier interface {
	Notify(c Change)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(c Change)

func (f NotifierFunc) Notify(c Change) { f(c) }

// Recorder is a Notifier that keeps every Change it sees, in order.
type Recorder struct {
	Changes []Change
}

func (r *Recorder) Notify(c Change) { r.Changes = append(r.Changes, c) }

// Reset drops recorded changes.
func (r *Recorder) Reset() { r.Changes = nil }
