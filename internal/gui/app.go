package gui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/render"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(33, 199, 217, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
	maxTelemetry  = 200
	tiltStep      = 5
)

// windowSurface is the raylib window seen as a CSS viewport.
type windowSurface struct {
	backingW, backingH int
	pinned             bool
}

func (s *windowSurface) Size() (float64, float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func (s *windowSurface) SetBackingSize(w, h int) { s.backingW, s.backingH = w, h }
func (s *windowSurface) PinToViewport()          { s.pinned = true }

// windowEnv reads the DPI scale from the window on every resize.
type windowEnv struct {
	class   bubble.DeviceClass
	reduced bool
}

func (e windowEnv) DevicePixelRatio() float64 {
	return float64(rl.GetWindowScaleDPI().X)
}
func (e windowEnv) DeviceClass() bubble.DeviceClass { return e.class }
func (e windowEnv) ReducedMotion() bool             { return e.reduced }

type Options struct {
	Title   string
	Params  bubble.Params
	Palette render.Palette
	Device  bubble.DeviceClass
	Reduced bool
	Seed    int64
	FPS     int
	Logger  *slog.Logger
}

type App struct {
	anim    *bubble.Animator
	queue   *bubble.FrameQueue
	surface *windowSurface
	raster  *render.Raster
	log     *slog.Logger
	title   string

	tex    rl.Texture2D
	texW   int
	texH   int
	hasTex bool

	paused    bool
	minimized bool
	showHUD   bool
	gamma     float64
	beta      float64
	Telemetry []float64
	status    string
}

func initWindow(title string, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagVsyncHint)
	rl.InitWindow(defaultWidth, defaultHeight, title)
	if fps > 0 {
		rl.SetTargetFPS(int32(fps))
	}
	rl.SetExitKey(0)
}

// NewApp creates the animator on the open window and starts it.
func NewApp(o Options) (*App, error) {
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{
		queue:     bubble.NewFrameQueue(),
		surface:   &windowSurface{},
		raster:    render.NewRaster(o.Palette),
		log:       log,
		title:     o.Title,
		showHUD:   true,
		beta:      45,
		Telemetry: make([]float64, 0, maxTelemetry),
	}

	opts := []bubble.Option{
		bubble.WithEnvironment(windowEnv{class: o.Device, reduced: o.Reduced}),
		bubble.WithScheduler(a.queue),
		bubble.WithRenderer(a.raster),
		bubble.WithLogger(log),
		bubble.WithObserver(a),
	}
	if o.Seed != 0 {
		opts = append(opts, bubble.WithSeed(o.Seed))
	}
	anim, err := bubble.New(a.surface, o.Params, opts...)
	if err != nil {
		return nil, err
	}
	a.anim = anim
	a.anim.Start()
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(o Options) error {
	if o.Title == "" {
		o.Title = "neonbubbles"
	}
	initWindow(o.Title, o.FPS)
	defer rl.CloseWindow()

	app, err := NewApp(o)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return
		}
		a.Draw()
	}
}

// OnFrame records the offset for the telemetry strip.
func (a *App) OnFrame(info bubble.FrameInfo) {
	v := float64(info.Recycled)
	if a.anim != nil && a.anim.Variant() == bubble.Parallax {
		v = info.Offset.X
	}
	a.Telemetry = append(a.Telemetry, v)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

// Update feeds window events to the animator and fires one frame.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}

	if rl.IsWindowResized() {
		a.anim.Resize()
	}
	if minimized := rl.IsWindowMinimized(); minimized != a.minimized {
		a.minimized = minimized
		a.anim.SetVisible(!minimized)
	}

	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		p := rl.GetMousePosition()
		a.anim.PointerMove(float64(p.X), float64(p.Y))
	}
	if rl.GetTouchPointCount() > 0 {
		p := rl.GetTouchPosition(0)
		a.anim.PointerMove(float64(p.X), float64(p.Y))
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyR):
		a.anim.Start()
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyV):
		a.anim.SetVisible(a.anim.Hidden())
	case rl.IsKeyPressed(rl.KeyP):
		a.screenshot()
	case rl.IsKeyPressed(rl.KeyLeft):
		a.tilt(-tiltStep, 0)
	case rl.IsKeyPressed(rl.KeyRight):
		a.tilt(tiltStep, 0)
	case rl.IsKeyPressed(rl.KeyUp):
		a.tilt(0, -tiltStep)
	case rl.IsKeyPressed(rl.KeyDown):
		a.tilt(0, tiltStep)
	}

	if !a.paused {
		a.queue.Fire()
	}
	return false
}

func (a *App) tilt(dg, db float64) {
	a.gamma = max(-90, min(90, a.gamma+dg))
	a.beta = max(-180, min(180, a.beta+db))
	a.anim.Tilt(a.gamma, a.beta)
}

func (a *App) screenshot() {
	path := fmt.Sprintf("neonbubbles_%05d.png", a.anim.Frames())
	if err := a.raster.SavePNG(path); err != nil {
		a.status = "screenshot: " + err.Error()
		a.log.Warn("screenshot failed", "err", err)
		return
	}
	a.status = "saved " + path
}

// upload copies the last raster frame into the window texture, recreating
// the texture when the backing size changed.
func (a *App) upload() {
	img := a.raster.Image()
	if img == nil {
		return
	}
	b := img.Bounds()
	if !a.hasTex || b.Dx() != a.texW || b.Dy() != a.texH {
		if a.hasTex {
			rl.UnloadTexture(a.tex)
		}
		im := rl.NewImageFromImage(img)
		a.tex = rl.LoadTextureFromImage(im)
		rl.UnloadImage(im)
		a.texW, a.texH, a.hasTex = b.Dx(), b.Dy(), true
		return
	}
	rl.UpdateTexture(a.tex, a.raster.Pixels())
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.upload()
	if a.hasTex {
		src := rl.NewRectangle(0, 0, float32(a.texW), float32(a.texH))
		dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	}
	if a.showHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())
	w := int32(rl.GetScreenWidth())

	rl.DrawText(a.title, 30, 30, 24, ColSelect)
	rl.DrawText(":: "+a.anim.Variant().String(), 30+rl.MeasureText(a.title, 24)+12, 36, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.anim.Disabled():
		status, col = "REDUCED MOTION", ColTextDim
	case a.paused:
		status, col = "PAUSED", ColTextDim
	case a.anim.Hidden():
		status, col = "HIDDEN", ColTextDim
	}
	rl.DrawText(status, w-160, 30, 16, col)

	a.DrawTelemetry(30, h-120, 400, 60)

	bw, bh := a.anim.Size()
	off := a.anim.Offset()
	info := fmt.Sprintf("%d FPS  frame %d  backing %dx%d @%.1fx  offset %+.1f,%+.1f",
		rl.GetFPS(), a.anim.Frames(), bw, bh, a.anim.DevicePixelRatio(), off.X, off.Y)
	rl.DrawText(info, 30, h-40, 14, ColTextDim)
	if a.status != "" {
		rl.DrawText(a.status, 30, h-60, 14, ColText)
	}
	rl.DrawText("[SPACE] PAUSE  [R] RESTART  [V] HIDE  [P] PNG  [H] HUD  [Q] QUIT", w-560, h-40, 14, ColTextDim)
}

func (a *App) DrawTelemetry(x, y, width, height int32) {
	if len(a.Telemetry) < 2 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(x) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("%.2f", a.Telemetry[len(a.Telemetry)-1]), x+width+10, y+height-10, 14, ColText)
}

func (a *App) Close() {
	if a.hasTex {
		rl.UnloadTexture(a.tex)
		a.hasTex = false
	}
	if err := a.raster.Close(); err != nil {
		a.log.Warn("raster close", "err", err)
	}
}
