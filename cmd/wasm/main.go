//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/canvas-go/internal/engine"
	"github.com/inamate/canvas-go/internal/surface/jscanvas"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(nil, nil)

	canvasEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	canvasEngine.Set("attachCanvas", js.FuncOf(attachCanvas))
	canvasEngine.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	canvasEngine.Set("addShape", js.FuncOf(addShape))
	canvasEngine.Set("applyOperation", js.FuncOf(applyOperation))
	canvasEngine.Set("setSelection", js.FuncOf(setSelection))
	canvasEngine.Set("setOffset", js.FuncOf(setOffset))
	canvasEngine.Set("draw", js.FuncOf(draw))

	// --- Queries (frontend ← engine) ---
	canvasEngine.Set("render", js.FuncOf(render))
	canvasEngine.Set("hitTest", js.FuncOf(hitTest))
	canvasEngine.Set("cursorAt", js.FuncOf(cursorAt))
	canvasEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	canvasEngine.Set("getDocument", js.FuncOf(getDocument))

	js.Global().Set("canvasEngine", canvasEngine)
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

// --- Command Handlers ---

func attachCanvas(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing canvas id")
	}
	ctx, ok := jscanvas.New(args[0].String())
	if !ok {
		return errorResult("canvas not found: " + args[0].String())
	}
	eng.Attach(ctx)
	return okResult()
}

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing document JSON")
	}
	if err := eng.LoadDocument(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	boardID := "board_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		boardID = args[0].String()
	}
	if err := eng.LoadSampleDocument(boardID); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func addShape(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing shape JSON")
	}
	if err := eng.AddShape(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func applyOperation(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing operation JSON")
	}
	if err := eng.ApplyOperation(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	ids := make([]string, arr.Length())
	for i := range ids {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func setOffset(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetOffset(args[0].Float(), args[1].Float())
	return nil
}

func draw(this js.Value, args []js.Value) any {
	eng.Draw()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func cursorAt(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("default")
	}
	return js.ValueOf(eng.CursorAt(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getDocument(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetDocument())
}
