package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neonbubbles/internal/bubble"
	"github.com/san-kum/neonbubbles/internal/config"
)

var variantInfo = map[string]string{
	"element":    "rises inside a box",
	"fullscreen": "page background",
	"parallax":   "depth, pointer, tilt",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type entry struct {
	variant, preset string
}

var fields = config.Tunables("count", "count_mobile", "dpr", "radius_min", "radius_max", "smoothing", "parallax_max")

type model struct {
	state, cursor int
	entries       []entry
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           string
	width, height int
	log           *slog.Logger
	liveModel     Model
}

func NewInteractiveApp(log *slog.Logger) *model {
	var entries []entry
	for _, v := range bubble.Variants() {
		for _, p := range config.ListPresets(v.String()) {
			entries = append(entries, entry{v.String(), p})
		}
	}
	return &model{state: stateMenu, entries: entries, width: 80, height: 24, log: log}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			return m.forward(msg)
		}
		return m, nil
	default:
		if m.state == stateSim {
			return m.forward(msg)
		}
	}
	return m, nil
}

func (m model) forward(msg tea.Msg) (model, tea.Cmd) {
	newLive, cmd := m.liveModel.Update(msg)
	m.liveModel = newLive.(Model)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.forward(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		e := m.entries[m.cursor]
		m.cfg = config.GetPreset(e.variant, e.preset)
		m.state, m.fieldCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	f := fields[m.fieldCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				f.Set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", f.Get(m.cfg))
	case "left", "h":
		f.Set(m.cfg, f.Get(m.cfg)-f.Step)
	case "right", "l":
		f.Set(m.cfg, f.Get(m.cfg)+f.Step)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	live, err := NewLiveFromConfig(m.cfg, m.log)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.liveModel = live
	m.state = stateSim
	// hand the current size to the live view straight away
	newLive, _ := m.liveModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.liveModel = newLive.(Model)
	return m, m.liveModel.Init()
}

// NewLiveFromConfig validates cfg and builds a live model from it.
func NewLiveFromConfig(cfg *config.Config, log *slog.Logger) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	p, err := cfg.BubbleParams()
	if err != nil {
		return Model{}, err
	}
	env, err := cfg.Environment()
	if err != nil {
		return Model{}, err
	}
	pal, err := cfg.RenderPalette()
	if err != nil {
		return Model{}, err
	}
	var opts []bubble.Option
	if cfg.Seed != 0 {
		opts = append(opts, bubble.WithSeed(cfg.Seed))
	}
	return NewModel(cfg.Variant, p, env, PaletteTheme(pal), cfg.FPS, log, opts...)
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#21c7d9")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4fa3"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("NEON BUBBLES", "#21c7d9", "#ff4fa3") + "\n    " + subStyle.Render("decorative bubble animations") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		name := fmt.Sprintf("%-22s", e.variant+"/"+e.preset)
		desc := variantInfo[e.variant]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(name), accentStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", idleStyle.Render(name), idleStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.entries[m.cursor].variant+" / "+m.entries[m.cursor].preset)) + "\n    " + subStyle.Render(variantInfo[m.cfg.Variant]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, f := range fields {
		valStr := fmt.Sprintf("%8.3f", f.Get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-13s", f.Name)), accentStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", idleStyle.Render(fmt.Sprintf("%-13s", f.Name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + errStyle.Render(m.err) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive(log *slog.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(log), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus()).Run()
	return err
}
