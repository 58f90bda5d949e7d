//go:build js && wasm

package web

import (
	"log/slog"
	"syscall/js"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/render"
)

type Options struct {
	Palette render.Palette
	Logger  *slog.Logger
}

// Host owns the animators mounted on one document and the DOM listeners
// feeding them.
type Host struct {
	opts       Options
	env        browserEnv
	elements   []*bubble.Animator
	background *bubble.Animator
	listeners  []listener
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

func NewHost(opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Host{opts: opts, env: newBrowserEnv()}
}

// Mount attaches animators once the document is parsed.
func (h *Host) Mount() {
	doc := js.Global().Get("document")
	if doc.Get("readyState").String() != "loading" {
		h.mount(doc)
		return
	}
	var once js.Func
	once = js.FuncOf(func(this js.Value, args []js.Value) any {
		doc.Call("removeEventListener", "DOMContentLoaded", once)
		once.Release()
		h.mount(doc)
		return nil
	})
	doc.Call("addEventListener", "DOMContentLoaded", once)
}

func (h *Host) mount(doc js.Value) {
	nodes := doc.Call("querySelectorAll", "."+ElementClass)
	for i := 0; i < nodes.Length(); i++ {
		if a := h.attach(nodes.Index(i), bubble.Element); a != nil {
			h.elements = append(h.elements, a)
		}
	}

	if bg := doc.Call("getElementById", BackgroundID); !bg.IsNull() {
		v := BackgroundVariant(bg.Get("dataset").Get("variant").String())
		h.background = h.attach(bg, v)
	}

	h.listen()
	h.opts.Logger.Info("bubbles mounted", "elements", len(h.elements), "background", h.background != nil)
}

func (h *Host) attach(el js.Value, v bubble.Variant) *bubble.Animator {
	p := bubble.DefaultParams(v)
	surface := canvasSurface{el: el, viewport: p.FillViewport}
	a, err := bubble.New(surface, p,
		bubble.WithEnvironment(h.env),
		bubble.WithScheduler(newRAFScheduler()),
		bubble.WithRenderer(newCanvasRenderer(el, h.opts.Palette)),
		bubble.WithLogger(h.opts.Logger),
	)
	if err != nil {
		h.opts.Logger.Error("attach failed", "variant", v.String(), "err", err)
		return nil
	}
	a.Start()
	return a
}

func (h *Host) listen() {
	win := js.Global()
	doc := win.Get("document")

	h.on(win, "resize", func(js.Value) {
		for _, a := range h.all() {
			a.Resize()
		}
	})
	h.on(doc, "visibilitychange", func(js.Value) {
		visible := doc.Get("visibilityState").String() != "hidden"
		for _, a := range h.all() {
			a.SetVisible(visible)
		}
	})

	if h.background == nil || h.background.Variant() != bubble.Parallax || h.background.Disabled() {
		return
	}
	bg := h.background
	h.on(win, "pointermove", func(e js.Value) {
		bg.PointerMove(number(e.Get("clientX")), number(e.Get("clientY")))
	})
	h.on(win, "touchmove", func(e js.Value) {
		touches := e.Get("touches")
		if touches.Length() == 0 {
			return
		}
		t := touches.Index(0)
		bg.PointerMove(number(t.Get("clientX")), number(t.Get("clientY")))
	})
	h.on(win, "deviceorientation", func(e js.Value) {
		bg.Tilt(number(e.Get("gamma")), number(e.Get("beta")))
	})
}

func (h *Host) on(target js.Value, event string, fn func(js.Value)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		} else {
			fn(js.Undefined())
		}
		return nil
	})
	target.Call("addEventListener", event, cb, map[string]any{"passive": true})
	h.listeners = append(h.listeners, listener{target: target, event: event, fn: cb})
}

func (h *Host) all() []*bubble.Animator {
	out := h.elements
	if h.background != nil {
		out = append(out[:len(out):len(out)], h.background)
	}
	return out
}

// Close stops every animator and removes the listeners.
func (h *Host) Close() {
	for _, a := range h.all() {
		a.Stop()
	}
	for _, l := range h.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	h.listeners = nil
	h.elements = nil
	h.background = nil
}
