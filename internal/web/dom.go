//go:build js && wasm

package web

import (
	"math"
	"syscall/js"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/render"
)

// canvasSurface sizes a <canvas>. Viewport surfaces read the window size;
// element surfaces read their layout box.
type canvasSurface struct {
	el       js.Value
	viewport bool
}

func (s canvasSurface) Size() (float64, float64) {
	if s.viewport {
		win := js.Global()
		return number(win.Get("innerWidth")), number(win.Get("innerHeight"))
	}
	rect := s.el.Call("getBoundingClientRect")
	return number(rect.Get("width")), number(rect.Get("height"))
}

func (s canvasSurface) SetBackingSize(w, h int) {
	s.el.Set("width", w)
	s.el.Set("height", h)
}

func (s canvasSurface) PinToViewport() {
	style := s.el.Get("style")
	style.Set("width", "100vw")
	style.Set("height", "100vh")
}

// browserEnv answers environment queries from the live window.
type browserEnv struct {
	class   bubble.DeviceClass
	reduced bool
}

func newBrowserEnv() browserEnv {
	win := js.Global()
	ua := win.Get("navigator").Get("userAgent").String()
	env := browserEnv{class: ClassifyUserAgent(ua)}
	if mm := win.Get("matchMedia"); mm.Type() == js.TypeFunction {
		env.reduced = win.Call("matchMedia", "(prefers-reduced-motion: reduce)").Get("matches").Bool()
	}
	return env
}

func (e browserEnv) DevicePixelRatio() float64 {
	dpr := number(js.Global().Get("devicePixelRatio"))
	if math.IsNaN(dpr) || dpr == 0 {
		return 1
	}
	return dpr
}

func (e browserEnv) DeviceClass() bubble.DeviceClass { return e.class }
func (e browserEnv) ReducedMotion() bool              { return e.reduced }

// rafScheduler drives frames with requestAnimationFrame. Each request owns a
// js.Func that is released once it fires or is cancelled.
type rafScheduler struct {
	funcs map[bubble.FrameID]js.Func
}

func newRAFScheduler() *rafScheduler {
	return &rafScheduler{funcs: make(map[bubble.FrameID]js.Func)}
}

func (s *rafScheduler) RequestFrame(fn func()) bubble.FrameID {
	var id bubble.FrameID
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		s.release(id)
		fn()
		return nil
	})
	id = bubble.FrameID(js.Global().Call("requestAnimationFrame", cb).Int())
	s.funcs[id] = cb
	return id
}

func (s *rafScheduler) CancelFrame(id bubble.FrameID) {
	if _, ok := s.funcs[id]; !ok {
		return
	}
	js.Global().Call("cancelAnimationFrame", int(id))
	s.release(id)
}

func (s *rafScheduler) release(id bubble.FrameID) {
	if cb, ok := s.funcs[id]; ok {
		cb.Release()
		delete(s.funcs, id)
	}
}

// canvasRenderer paints sprites with the 2D context's radial gradients.
type canvasRenderer struct {
	ctx js.Value
	pal render.Palette
}

func newCanvasRenderer(el js.Value, pal render.Palette) *canvasRenderer {
	return &canvasRenderer{ctx: el.Call("getContext", "2d"), pal: pal}
}

func (r *canvasRenderer) Render(w, h int, sprites []bubble.Sprite) {
	ctx := r.ctx
	ctx.Call("clearRect", 0, 0, w, h)
	if bg := r.pal.Background; bg != nil {
		ctx.Set("fillStyle", bg.Hex())
		ctx.Call("fillRect", 0, 0, w, h)
	}
	for _, s := range sprites {
		if s.R <= 0 {
			continue
		}
		g := r.pal.Gradient(s)
		grad := ctx.Call("createRadialGradient", g.FX, g.FY, g.R0, g.CX, g.CY, g.R1)
		for _, st := range g.Stops {
			grad.Call("addColorStop", st.Offset, st.CSS())
		}
		ctx.Set("fillStyle", grad)
		ctx.Call("beginPath")
		ctx.Call("arc", s.X, s.Y, s.R, 0, 2*math.Pi)
		ctx.Call("fill")
	}
}

// number reads a JS number, mapping null, undefined and other types to NaN.
func number(v js.Value) float64 {
	if v.Type() != js.TypeNumber {
		return math.NaN()
	}
	return v.Float()
}
