package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

const (
	defaultCols     = 60
	defaultRows     = 22
	statsWidth      = 45
	historyCapacity = 600
	tiltStep        = 5.0
	gifPath         = "neonbubbles.gif"
)

type TickMsg time.Time

// stats collects per-frame history for the side panel. It is shared by
// pointer between copies of the Model.
type stats struct {
	offsetX  []float64
	recycled []float64
	last     bubble.FrameInfo
}

func (s *stats) OnFrame(info bubble.FrameInfo) {
	s.last = info
	s.offsetX = appendCapped(s.offsetX, info.Offset.X)
	s.recycled = appendCapped(s.recycled, float64(info.Recycled))
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// Model hosts one animator in the terminal. Ticks drive the frame queue,
// mouse motion is the pointer, focus changes are page visibility and the
// window size is the viewport.
type Model struct {
	title   string
	anim    *bubble.Animator
	queue   *bubble.FrameQueue
	surface *termSurface
	canvas  *Canvas
	stats   *stats
	theme   Theme
	fps     int

	paused    bool
	visible   bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	status    string

	gamma, beta float64
}

// NewModel creates and starts an animator on a terminal surface.
func NewModel(title string, p bubble.Params, env bubble.Environment, theme Theme, fps int, log *slog.Logger, opts ...bubble.Option) (Model, error) {
	if fps <= 0 {
		fps = 60
	}
	canvas := NewCanvas(defaultCols, defaultRows)
	surface := &termSurface{cols: defaultCols, rows: defaultRows}
	queue := bubble.NewFrameQueue()
	st := &stats{}

	base := []bubble.Option{
		bubble.WithEnvironment(env),
		bubble.WithScheduler(queue),
		bubble.WithRenderer(canvasRenderer{canvas: canvas}),
		bubble.WithObserver(st),
		bubble.WithLogger(log),
	}
	anim, err := bubble.New(surface, p, append(base, opts...)...)
	if err != nil {
		return Model{}, err
	}
	anim.Start()

	return Model{
		title:   title,
		anim:    anim,
		queue:   queue,
		surface: surface,
		canvas:  canvas,
		stats:   st,
		theme:   theme,
		fps:     fps,
		visible: true,
		beta:    45,
	}, nil
}

func (m Model) Animator() *bubble.Animator { return m.anim }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		// canvas is padded by one row and two columns
		x := (float64(msg.X-2) + 0.5) * cellW
		y := (float64(msg.Y-1) + 0.5) * cellH
		m.anim.PointerMove(x, y)
	case tea.FocusMsg:
		m.setVisible(true)
	case tea.BlurMsg:
		m.setVisible(false)
	case TickMsg:
		if !m.paused {
			m.queue.Fire()
		}
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "v":
		m.setVisible(!m.visible)
	case "r":
		m.anim.Start()
		m.visible = true
	case "t":
		m.theme = NextTheme(m.theme)
	case "left":
		m.tilt(-tiltStep, 0)
	case "right":
		m.tilt(tiltStep, 0)
	case "up":
		m.tilt(0, -tiltStep)
	case "down":
		m.tilt(0, tiltStep)
	case "c":
		w, h := m.surface.Size()
		m.anim.PointerMove(w/2, h/2)
		m.gamma, m.beta = 0, 45
	case "g":
		if m.recording {
			if err := m.saveGIF(gifPath); err != nil {
				m.status = "gif: " + err.Error()
			} else {
				m.status = "saved " + gifPath
			}
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) setVisible(v bool) {
	m.visible = v
	m.anim.SetVisible(v)
}

func (m *Model) tilt(dg, db float64) {
	m.gamma = clampf(m.gamma+dg, -90, 90)
	m.beta = clampf(m.beta+db, -180, 180)
	m.anim.Tilt(m.gamma, m.beta)
}

func (m *Model) resize(w, h int) {
	cols := w - statsWidth - 5
	rows := h - 2
	cols, rows = max(cols, 10), max(rows, 5)
	if cols == m.surface.cols && rows == m.surface.rows {
		return
	}
	m.surface.cols, m.surface.rows = cols, rows
	m.canvas.Resize(cols, rows)
	m.anim.Resize()
}

func (m Model) statusLine() string {
	switch {
	case m.anim.Disabled():
		return StatusHidden.Render("REDUCED MOTION")
	case m.recording:
		return StatusRecording.Render("● REC")
	case m.paused:
		return StatusPaused.Render("PAUSED")
	case m.anim.Hidden():
		return StatusHidden.Render("HIDDEN")
	case !m.anim.Running():
		return StatusPaused.Render("STOPPED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	s.WriteString(headerStyle.Render(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Secondary)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	if m.anim.Variant() == bubble.Parallax && len(m.stats.offsetX) > 1 {
		chart := asciigraph.Plot(m.stats.offsetX, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("offset x"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	} else if len(m.stats.recycled) > 0 {
		s.WriteString(labelStyle.Render("Recycled") + SparklineChart(m.stats.recycled, 28) + "\n\n")
	}

	w, h := m.anim.Size()
	off, tgt := m.anim.Offset(), m.anim.Target()
	rows := [][2]string{
		{"Variant", m.anim.Variant().String()},
		{"Frame", fmt.Sprintf("%d", m.anim.Frames())},
		{"Particles", fmt.Sprintf("%d", len(m.stats.last.Sprites))},
		{"Recycles", fmt.Sprintf("%d", m.anim.Recycles())},
		{"Backing", fmt.Sprintf("%dx%d @%.1fx", w, h, m.anim.DevicePixelRatio())},
		{"Theme", m.theme.Name},
	}
	if m.anim.Variant() == bubble.Parallax {
		rows = append(rows,
			[2]string{"Offset", fmt.Sprintf("%+.2f, %+.2f", off.X, off.Y)},
			[2]string{"Target", fmt.Sprintf("%+.2f, %+.2f", tgt.X, tgt.Y)},
			[2]string{"Tilt", fmt.Sprintf("γ %+.0f β %+.0f", m.gamma, m.beta)},
		)
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + Subtle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("\n" + Separator(21) + "\nSP:Pause V:Hide R:Restart\nT:Theme  G:Record ?:Help Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume frames      ║
║  V        - Toggle page visibility   ║
║  R        - Restart and reseed       ║
║  Arrows   - Tilt (parallax)          ║
║  C        - Centre pointer           ║
║  Mouse    - Pointer (parallax)       ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// captureFrame rasterises the braille grid into a paletted image, one 4x4
// block per dot.
func (m *Model) captureFrame() {
	pal := color.Palette{color.Black, themeColor(m.theme.Muted), themeColor(m.theme.Primary), themeColor(m.theme.Secondary), themeColor(m.theme.Highlight)}
	inkIndex := [...]uint8{InkNone: 1, InkPrimary: 2, InkSecondary: 3, InkHighlight: 4}

	const dotW, dotH = cellW / 2, cellH / 4
	imgW, imgH := m.canvas.Width*cellW, m.canvas.Height*cellH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), pal)
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := inkIndex[m.canvas.Ink[row][col]]
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					bx, by := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(bx+px, by+py, idx)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(100/m.fps, 1)
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func themeColor(c lipgloss.Color) color.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return color.White
	}
	return col.Clamped()
}

func clampf(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// Run starts the live view full screen with mouse motion and focus reporting.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
