//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/vectorpad/vectorpad/internal/controller"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/geom"
)

var ed *editor.Editor

func main() {
	ed = editor.New(drawing.NewSampleDrawing(), editor.Options{})

	// Create the editor API object
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("clear", js.FuncOf(clearDrawing))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setColor", js.FuncOf(setColor))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("pan", js.FuncOf(pan))
	api.Set("pointerPressed", js.FuncOf(pointer((*editor.Editor).PointerPressed)))
	api.Set("pointerDragged", js.FuncOf(pointer((*editor.Editor).PointerDragged)))
	api.Set("pointerReleased", js.FuncOf(pointer((*editor.Editor).PointerReleased)))
	api.Set("pointerMoved", js.FuncOf(pointer((*editor.Editor).PointerMoved)))
	api.Set("deleteSelected", js.FuncOf(deleteSelected))
	api.Set("setSelectedColor", js.FuncOf(setSelectedColor))
	api.Set("reorder", js.FuncOf(reorder))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getTool", js.FuncOf(getTool))
	api.Set("getView", js.FuncOf(getView))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("preview", js.FuncOf(preview))

	// Register on global scope
	js.Global().Set("vectorpadEditor", api)

	// Signal that WASM is ready
	js.Global().Set("vectorpadWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() any { return js.ValueOf(map[string]any{"ok": true}) }

func fail(err error) any { return js.ValueOf(map[string]any{"error": err.Error()}) }

func result(err error) any {
	if err != nil {
		return fail(err)
	}
	return ok()
}

// --- Command Handlers ---

// replace swaps in a new drawing, keeping the current tool and view.
func replace(d *drawing.Drawing) {
	view, tool, color := ed.View(), ed.Tool(), ed.Color()
	ed = editor.New(d, editor.Options{Zoom: view.Zoom, Tool: tool, Color: color})
	ed.Pan(view.Offset.Mul(-view.Zoom))
}

func loadSample(this js.Value, args []js.Value) any {
	replace(drawing.NewSampleDrawing())
	return ok()
}

func clearDrawing(this js.Value, args []js.Value) any {
	replace(drawing.New())
	return ok()
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing tool"})
	}
	return result(ed.SetTool(controller.Kind(args[0].String())))
}

func setColor(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing color"})
	}
	c, err := drawing.ParseColor(args[0].String())
	if err != nil {
		return fail(err)
	}
	ed.SetColor(c)
	return ok()
}

func setZoom(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing zoom"})
	}
	return result(ed.SetZoom(args[0].Float()))
}

func pan(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	ed.Pan(geom.Pt(args[0].Float(), args[1].Float()))
	return nil
}

// pointer adapts an editor pointer method to a JS function taking view
// coordinates (x, y). The editor is looked up per call since loadSample and
// clear replace it.
func pointer(method func(*editor.Editor, geom.Point)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		method(ed, geom.Pt(args[0].Float(), args[1].Float()))
		return nil
	}
}

func deleteSelected(this js.Value, args []js.Value) any {
	return result(ed.DeleteSelected())
}

func setSelectedColor(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing color"})
	}
	c, err := drawing.ParseColor(args[0].String())
	if err != nil {
		return fail(err)
	}
	return result(ed.SetSelectedColor(c))
}

func reorder(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing order"})
	}
	return result(ed.Reorder(args[0].String()))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(ed.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	id, found := ed.HitTest(geom.Pt(args[0].Float(), args[1].Float()))
	if !found {
		return js.ValueOf("")
	}
	return js.ValueOf(string(id))
}

func getTool(this js.Value, args []js.Value) any {
	return js.ValueOf(string(ed.Tool()))
}

func getView(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(ed.View())
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) any {
	id, found := ed.Selected()
	if !found {
		return js.ValueOf("")
	}
	return js.ValueOf(string(id))
}

// preview returns a PNG of the drawing as a Uint8Array.
func preview(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(map[string]any{"error": "missing size"})
	}
	png, err := ed.Preview(args[0].Int(), args[1].Int())
	if err != nil {
		return fail(err)
	}
	out := js.Global().Get("Uint8Array").New(len(png))
	js.CopyBytesToJS(out, png)
	return out
}
