package collab

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/colornames"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/geom"
	"github.com/vectorpad/vectorpad/internal/render"
	"github.com/vectorpad/vectorpad/internal/session"
	"github.com/vectorpad/vectorpad/internal/typeid"
)

func newTestClient(h *Hub, sessionID, userID string, role auth.Role) *Client {
	return &Client{
		hub:         h,
		send:        make(chan []byte, 64),
		UserID:      userID,
		DisplayName: userID,
		SessionID:   sessionID,
		ClientID:    "client-" + userID,
		Role:        role,
	}
}

// drain returns the messages currently buffered for c.
func drain(t *testing.T, c *Client) []*Message {
	t.Helper()
	var out []*Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatal(err)
			}
			out = append(out, &msg)
		default:
			return out
		}
	}
}

func types(msgs []*Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func send(h *Hub, c *Client, msgType string, payload any) {
	raw, _ := json.Marshal(payload)
	h.handleMessage(c, &Message{Type: msgType, Payload: raw})
}

func newRoom(t *testing.T) (*Hub, *session.Session, *Client, *Client) {
	t.Helper()
	reg := session.NewRegistry(editor.Options{})
	s, err := reg.Create("room", "user_owner", false)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHub(reg)
	ed := newTestClient(h, s.ID, "user_owner", auth.RoleEditor)
	viewer := newTestClient(h, s.ID, "user_viewer", auth.RoleViewer)
	h.addClient(ed)
	h.addClient(viewer)
	return h, s, ed, viewer
}

func TestJoinAndLeave(t *testing.T) {
	h, _, ed, viewer := newRoom(t)

	if diff := cmp.Diff([]string{TypeWelcome, TypePresenceState, TypePresenceJoin}, types(drain(t, ed))); diff != "" {
		t.Errorf("editor messages (-want +got):\n%s", diff)
	}
	msgs := drain(t, viewer)
	if diff := cmp.Diff([]string{TypeWelcome, TypePresenceState}, types(msgs)); diff != "" {
		t.Fatalf("viewer messages (-want +got):\n%s", diff)
	}
	var welcome WelcomePayload
	if err := json.Unmarshal(msgs[0].Payload, &welcome); err != nil {
		t.Fatal(err)
	}
	if welcome.Role != "viewer" || welcome.Tool != "select" || string(welcome.Commands) != "[]" {
		t.Errorf("welcome %+v", welcome)
	}

	h.removeClient(viewer)
	if diff := cmp.Diff([]string{TypePresenceLeave}, types(drain(t, ed))); diff != "" {
		t.Errorf("after leave (-want +got):\n%s", diff)
	}
	if _, ok := <-viewer.send; ok {
		t.Error("viewer send channel still open")
	}

	h.removeClient(ed)
	if h.room(ed.SessionID) != nil {
		t.Error("empty room not removed")
	}
}

func TestEditBroadcastsRender(t *testing.T) {
	h, s, ed, viewer := newRoom(t)
	drain(t, ed)
	drain(t, viewer)

	// Switching tools on an empty drawing does not change the commands.
	send(h, ed, TypeToolSet, ToolPayload{Tool: "square"})
	if msgs := drain(t, viewer); len(msgs) != 0 {
		t.Errorf("unexpected broadcast %v", types(msgs))
	}

	send(h, ed, TypePointerPress, PointerPayload{X: 10, Y: 10})
	send(h, ed, TypePointerDrag, PointerPayload{X: 30, Y: 30})
	send(h, ed, TypePointerRelease, PointerPayload{X: 30, Y: 30})

	for _, c := range []*Client{ed, viewer} {
		msgs := drain(t, c)
		if len(msgs) == 0 {
			t.Fatalf("%s got no render", c.UserID)
		}
		last := msgs[len(msgs)-1]
		if last.Type != TypeDrawingRender || last.UserID != ed.UserID {
			t.Fatalf("last message %+v", last)
		}
		if last.Seq != int64(len(msgs)) {
			t.Errorf("seq = %d after %d renders", last.Seq, len(msgs))
		}
		var p RenderPayload
		if err := json.Unmarshal(last.Payload, &p); err != nil {
			t.Fatal(err)
		}
		if err := typeid.Validate(p.OpID, typeid.PrefixOp); err != nil {
			t.Error(err)
		}
		var commands []render.DrawCommand
		if err := json.Unmarshal(p.Commands, &commands); err != nil {
			t.Fatal(err)
		}
		if len(commands) != 1 || commands[0].Kind != "square" {
			t.Errorf("commands %+v", commands)
		}
	}

	if n := s.Info().Shapes; n != 1 {
		t.Errorf("shapes = %d", n)
	}
}

func TestViewerCannotEdit(t *testing.T) {
	h, s, ed, viewer := newRoom(t)
	drain(t, ed)
	drain(t, viewer)

	send(h, viewer, TypeToolSet, ToolPayload{Tool: "line"})
	send(h, viewer, TypePointerPress, PointerPayload{X: 1, Y: 1})

	msgs := drain(t, viewer)
	if diff := cmp.Diff([]string{TypeError, TypeError}, types(msgs)); diff != "" {
		t.Fatalf("viewer messages (-want +got):\n%s", diff)
	}
	var p ErrorPayload
	json.Unmarshal(msgs[0].Payload, &p)
	if p.Request != TypeToolSet || p.Message != ErrReadOnly.Error() {
		t.Errorf("error payload %+v", p)
	}
	if len(drain(t, ed)) != 0 {
		t.Error("editor saw a broadcast")
	}
	s.Do(func(e *editor.Editor) error {
		if e.Tool() != "select" || e.Drawing().Len() != 0 {
			t.Errorf("editor changed: tool %s, %d shapes", e.Tool(), e.Drawing().Len())
		}
		return nil
	})

	// Presence is open to viewers.
	send(h, viewer, TypePresenceUpdate, PresencePayload{Tool: "select"})
	msgs = drain(t, ed)
	if len(msgs) != 1 || msgs[0].Type != TypePresenceUpdate {
		t.Fatalf("editor messages %v", types(msgs))
	}
	var presence PresencePayload
	json.Unmarshal(msgs[0].Payload, &presence)
	if presence.DisplayName != viewer.DisplayName {
		t.Errorf("presence %+v", presence)
	}
}

func TestRejectedOperations(t *testing.T) {
	h, _, ed, viewer := newRoom(t)
	drain(t, ed)
	drain(t, viewer)

	tests := []struct {
		msgType string
		payload string
		want    string
	}{
		{"shape.explode", `{}`, ErrUnknownMessage.Error()},
		{TypeToolSet, `{"tool":"lasso"}`, "unknown tool"},
		{TypeViewZoom, `{"zoom":0}`, editor.ErrInvalidZoom.Error()},
		{TypeShapeDelete, `{}`, editor.ErrNoSelection.Error()},
		{TypeColorSet, `{"color":"notacolor"}`, "notacolor"},
		{TypePointerPress, `"x"`, ErrBadPayload.Error()},
		{TypeShapeReorder, ``, ErrBadPayload.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			h.handleMessage(ed, &Message{Type: tt.msgType, Payload: json.RawMessage(tt.payload)})
			msgs := drain(t, ed)
			if len(msgs) != 1 || msgs[0].Type != TypeError {
				t.Fatalf("messages %v", types(msgs))
			}
			var p ErrorPayload
			json.Unmarshal(msgs[0].Payload, &p)
			if !strings.Contains(p.Message, tt.want) {
				t.Errorf("error %q does not mention %q", p.Message, tt.want)
			}
		})
	}
	if msgs := drain(t, viewer); len(msgs) != 0 {
		t.Errorf("viewer saw %v", types(msgs))
	}
}

func TestApply(t *testing.T) {
	d := drawing.New()
	d.AddShape(drawing.NewSquare(colornames.Red, geom.Pt(0, 0), 10))
	d.AddShape(drawing.NewCircle(colornames.Blue, geom.Pt(50, 0), 5))
	if err := d.Select(0); err != nil {
		t.Fatal(err)
	}
	e := editor.New(d, editor.Options{})

	steps := []struct {
		msgType string
		payload string
	}{
		{TypeShapeColor, `{"color":"#00ff00"}`},
		{TypeShapeReorder, `{"order":"front"}`},
		{TypeColorSet, `{"color":"tomato"}`},
		{TypeViewZoom, `{"zoom":2}`},
		{TypeViewPan, `{"dx":10,"dy":-4}`},
	}
	for _, st := range steps {
		if err := apply(e, &Message{Type: st.msgType, Payload: json.RawMessage(st.payload)}); err != nil {
			t.Fatalf("%s: %v", st.msgType, err)
		}
	}

	i, sel := d.Selected()
	if i != 1 || sel.Color() != (color.RGBA{G: 0xff, A: 0xff}) {
		t.Errorf("selected index %d color %v", i, sel.Color())
	}
	if e.Color() != colornames.Tomato {
		t.Errorf("color = %v", e.Color())
	}
	if diff := cmp.Diff(editor.View{Zoom: 2, Offset: geom.Pt(-5, 2)}, e.View()); diff != "" {
		t.Errorf("view (-want +got):\n%s", diff)
	}

	if err := apply(e, &Message{Type: TypeShapeDelete}); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Errorf("len = %d", d.Len())
	}
}

func TestRegisterUnknownSession(t *testing.T) {
	h := NewHub(session.NewRegistry(editor.Options{}))
	c := newTestClient(h, "draw_missing", "user_1", auth.RoleEditor)
	h.addClient(c)

	msgs := drain(t, c)
	if len(msgs) != 1 || msgs[0].Type != TypeError {
		t.Fatalf("messages %v", types(msgs))
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel still open")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	reg := session.NewRegistry(editor.Options{})
	h := NewHub(reg)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newTestClient(h, reg.Playground().ID, "user_1", auth.RoleEditor)
	if !h.Register(c) {
		t.Fatal("register refused")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// The buffered welcome is still delivered before the channel closes.
	var got []string
	for data := range c.send {
		var msg Message
		json.Unmarshal(data, &msg)
		got = append(got, msg.Type)
	}
	if len(got) == 0 || got[0] != TypeWelcome {
		t.Errorf("messages %v", got)
	}

	if h.Register(newTestClient(h, session.PlaygroundID, "user_2", auth.RoleEditor)) {
		t.Error("register accepted after stop")
	}
	h.Unregister(c)
}

func TestIsEdit(t *testing.T) {
	if isEdit(TypePresenceUpdate) || isEdit(TypeWelcome) || !isEdit(TypeShapeReorder) {
		t.Error("isEdit misclassifies message types")
	}
	if err := apply(nil, &Message{Type: "nope"}); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("err = %v", err)
	}
}
