package viz

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/spring"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 240
	trailLength     = 60
	nudge           = 0.1
)

// Preset is a named spring configuration the view can cycle through.
type Preset struct {
	Name   string
	Config spring.Config
}

type Options struct {
	Presets     []Preset
	Preset      string
	FPS         int
	Theme       string
	SnapshotDir string
	Seed        int64
	Logger      zerolog.Logger
}

type tickMsg time.Time

type point struct{ x, y int }

type keyMap struct {
	up, down, left, right key.Binding
	random, center        key.Binding
	stiffer, softer       key.Binding
	damper, looser        key.Binding
	preset, theme         key.Binding
	pause, snapshot       key.Binding
	help, quit            key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "target up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "target down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "target left")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "target right")),
		random:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random target")),
		center:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center")),
		stiffer:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "tension +10%")),
		softer:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "tension -10%")),
		damper:   key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "friction +10%")),
		looser:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "friction -10%")),
		preset:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next preset")),
		theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
		pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		snapshot: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save svg")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.random, k.stiffer, k.preset, k.pause, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.random, k.center},
		{k.stiffer, k.softer, k.damper, k.looser, k.preset},
		{k.theme, k.pause, k.snapshot, k.help, k.quit},
	}
}

// Model chases a target around the canvas with one spring per axis. Each
// tick flushes the frame queue the springs schedule on.
type Model struct {
	queue    *frame.Queue
	x, y     *spring.Spring
	tx, ty   float64
	cfg      spring.Config
	presets  []Preset
	preset   int
	custom   bool
	interval time.Duration

	canvas  *Canvas
	trail   []point
	history []float64

	keys   keyMap
	help   help.Model
	theme  int
	styles styles

	paused      bool
	status      string
	snapshotDir string
	rng         *rand.Rand
	log         zerolog.Logger
}

func NewModel(opts Options) Model {
	if len(opts.Presets) == 0 {
		opts.Presets = []Preset{{Name: "default", Config: spring.DefaultConfig()}}
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.SnapshotDir == "" {
		opts.SnapshotDir = "."
	}

	idx := 0
	for i, p := range opts.Presets {
		if p.Name == opts.Preset {
			idx = i
		}
	}
	cfg := opts.Presets[idx].Config

	queue := frame.NewQueue()
	log := opts.Logger
	theme := ThemeIndex(opts.Theme)

	return Model{
		queue:       queue,
		x:           spring.New(0.5, queue, spring.WithConfig(cfg), spring.WithLogger(log.With().Str("axis", "x").Logger())),
		y:           spring.New(0.5, queue, spring.WithConfig(cfg), spring.WithLogger(log.With().Str("axis", "y").Logger())),
		tx:          0.5,
		ty:          0.5,
		cfg:         cfg,
		presets:     opts.Presets,
		preset:      idx,
		interval:    time.Second / time.Duration(opts.FPS),
		canvas:      NewCanvas(width, height),
		trail:       make([]point, 0, trailLength),
		history:     make([]float64, 0, historyCapacity),
		keys:        newKeyMap(),
		help:        help.New(),
		theme:       theme,
		styles:      newStyles(Themes[theme]),
		snapshotDir: opts.SnapshotDir,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		log:         log,
	}
}

// Run starts the interactive view and blocks until the user quits.
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Close cancels any pending spring callbacks.
func (m Model) Close() {
	m.x.Close()
	m.y.Close()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tickMsg:
		if !m.paused {
			m.queue.Flush(time.Time(msg))
			m.record()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		m.moveTarget(0, -nudge)
	case key.Matches(msg, m.keys.down):
		m.moveTarget(0, nudge)
	case key.Matches(msg, m.keys.left):
		m.moveTarget(-nudge, 0)
	case key.Matches(msg, m.keys.right):
		m.moveTarget(nudge, 0)
	case key.Matches(msg, m.keys.random):
		m.setTarget(m.rng.Float64(), m.rng.Float64())
	case key.Matches(msg, m.keys.center):
		m.setTarget(0.5, 0.5)
	case key.Matches(msg, m.keys.stiffer):
		m.tune(1.1, 1)
	case key.Matches(msg, m.keys.softer):
		m.tune(1/1.1, 1)
	case key.Matches(msg, m.keys.damper):
		m.tune(1, 1.1)
	case key.Matches(msg, m.keys.looser):
		m.tune(1, 1/1.1)
	case key.Matches(msg, m.keys.preset):
		m.preset = (m.preset + 1) % len(m.presets)
		m.custom = false
		m.cfg = m.presets[m.preset].Config
		m.observe()
	case key.Matches(msg, m.keys.theme):
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case key.Matches(msg, m.keys.pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.snapshot):
		m.snapshot()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) moveTarget(dx, dy float64) {
	m.setTarget(m.tx+dx, m.ty+dy)
}

func (m *Model) setTarget(x, y float64) {
	m.tx, m.ty = clamp01(x), clamp01(y)
	m.observe()
}

func (m *Model) tune(tension, friction float64) {
	m.cfg.Tension *= tension
	m.cfg.Friction *= friction
	m.custom = true
	m.observe()
}

// observe pushes the current target and config to both axes, the same way a
// render pass would.
func (m *Model) observe() {
	m.x.Observe(m.tx, m.cfg)
	m.y.Observe(m.ty, m.cfg)
}

func (m *Model) record() {
	px, py := m.canvas.Project(m.x.Value(), m.y.Value())
	if m.x.Animating() || m.y.Animating() {
		m.trail = append(m.trail, point{px, py})
		if len(m.trail) > trailLength {
			m.trail = m.trail[1:]
		}
	} else {
		m.trail = m.trail[:0]
	}

	m.history = append(m.history, m.x.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) snapshot() {
	m.draw()
	name := filepath.Join(m.snapshotDir, fmt.Sprintf("springsim-%d.svg", time.Now().Unix()))
	t := Themes[m.theme]
	if err := os.WriteFile(name, []byte(m.canvas.SVG(4, string(t.Primary), "#0a0a0a")), 0644); err != nil {
		m.log.Error().Err(err).Str("path", name).Msg("failed to save snapshot")
		m.status = "snapshot failed: " + err.Error()
		return
	}
	m.log.Info().Str("path", name).Msg("snapshot saved")
	m.status = "saved " + name
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, p := range m.trail {
		m.canvas.Set(p.x, p.y)
	}
	tx, ty := m.canvas.Project(m.tx, m.ty)
	m.canvas.DrawCross(tx, ty, 3)
	px, py := m.canvas.Project(m.x.Value(), m.y.Value())
	m.canvas.DrawBlob(px, py, 1)
}

func (m Model) presetName() string {
	name := m.presets[m.preset].Name
	if m.custom {
		name += " (tuned)"
	}
	return name
}

func (m Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render("SPRING "+strings.ToUpper(m.presetName())) + "\n")

	switch {
	case m.paused:
		s.WriteString(st.paused.Render("PAUSED"))
	case m.x.Animating() || m.y.Animating():
		s.WriteString(st.moving.Render("MOVING"))
	default:
		s.WriteString(st.resting.Render("AT REST"))
	}
	s.WriteString("\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.Precision(2),
			asciigraph.Caption("x"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	applied := m.x.Config()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tension", fmt.Sprintf("%.1f", applied.Tension))
	row("Friction", fmt.Sprintf("%.1f", applied.Friction))
	row("Regime", spring.RegimeOf(applied).String())
	row("Damping", fmt.Sprintf("ζ=%.2f", applied.DampingRatio()))
	row("Target", fmt.Sprintf("(%.2f, %.2f)", m.tx, m.ty))
	row("Value", fmt.Sprintf("(%.3f, %.3f)", m.x.Value(), m.y.Value()))
	row("Velocity", fmt.Sprintf("(%.2f, %.2f)", m.x.Velocity(), m.y.Velocity()))

	dist := math.Hypot(m.x.Value()-m.tx, m.y.Value()-m.ty)
	row("Distance", ProgressBar(dist/math.Sqrt2, 16))

	s.WriteString("\n" + st.muted.Render(Separator(36)) + "\n")
	if m.status != "" {
		s.WriteString(st.muted.Render(m.status) + "\n")
	}
	s.WriteString(m.help.View(m.keys))

	canvasView := st.canvas.Render(st.dot.Render(m.canvas.String()))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
