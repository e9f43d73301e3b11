package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dotswarm/internal/colorize"
	"github.com/san-kum/dotswarm/internal/metrics"
	"github.com/san-kum/dotswarm/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 40
	historyCapacity = 120

	// streakSeconds is how far back along its velocity a streak reaches.
	streakSeconds = 0.1
)

type Options struct {
	FPS    int
	Theme  string
	Width  int
	Height int
	// Streaks trails every particle with a line against its velocity.
	Streaks bool
}

type TickMsg time.Time

// Model runs the simulation inside a Bubble Tea program.
type Model struct {
	sim    *sim.Simulator
	bounds sim.Bounds
	clock  *sim.Clock
	fps    int
	streak bool

	width, height int
	canvas        *Canvas
	theme         Theme
	styles        styles

	speed    *metrics.MeanSpeed
	spring   harmonica.Spring
	shown    float64
	shownVel float64
	history  []float64
}

func NewModel(s *sim.Simulator, b sim.Bounds, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	speed := metrics.NewMeanSpeed()
	s.AddMetric(speed)

	theme := GetTheme(opts.Theme)
	return Model{
		sim:     s,
		bounds:  b,
		clock:   sim.NewClock(),
		fps:     opts.FPS,
		streak:  opts.Streaks,
		width:   opts.Width,
		height:  opts.Height,
		canvas:  NewCanvas(opts.Width, opts.Height),
		theme:   theme,
		styles:  newStyles(theme),
		speed:   speed,
		spring:  harmonica.NewSpring(harmonica.FPS(opts.FPS), 6.0, 1.0),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-2, msg.Height-2)
	case TickMsg:
		m.advance(m.clock.Tick())
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	w, h = max(w, 10), max(h, 4)
	if w == m.width && h == m.height {
		return
	}
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, h)
}

// advance steps the swarm by elapsed seconds and updates the speed readout.
func (m *Model) advance(elapsed float64) {
	m.sim.Step(elapsed, m.bounds)

	m.shown, m.shownVel = m.spring.Update(m.shown, m.shownVel, m.speed.Value())
	m.history = append(m.history, m.speed.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// project maps world coordinates onto canvas dots. The far edges land on the
// last dot.
func (m *Model) project(x, y float64) (int, int) {
	cw, ch := m.canvas.SubWidth(), m.canvas.SubHeight()
	px := int(x/m.bounds.Width*float64(cw-1) + 0.5)
	py := int(y/m.bounds.Height*float64(ch-1) + 0.5)
	return px, py
}

// clamp pulls a point back into the viewport so streak tails stay short.
func (m *Model) clamp(x, y float64) (float64, float64) {
	return min(max(x, 0), m.bounds.Width), min(max(y, 0), m.bounds.Height)
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.sim.Each(func(_ int, p sim.Particle) {
		if !m.bounds.Contains(p.X, p.Y) {
			return
		}
		hex := colorize.ColorFor(p.DX, p.DY, 1).Hex()
		px, py := m.project(p.X, p.Y)
		if m.streak {
			tx, ty := m.project(m.clamp(p.X-p.DX*streakSeconds, p.Y-p.DY*streakSeconds))
			m.canvas.DrawLine(tx, ty, px, py, hex)
		}
		m.canvas.SetColor(px, py, hex)
	})
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(m.styles.header.Render("DOTSWARM") + "\n")
	m.row(&s, "Frame", fmt.Sprintf("%d", m.sim.Frame()))
	m.row(&s, "Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	m.row(&s, "Particles", fmt.Sprintf("%d", m.sim.Len()))
	m.row(&s, "Backend", m.sim.Backend().Name())
	s.WriteString(m.styles.label.Render("Speed") + m.styles.accent.Render(fmt.Sprintf("%.2f", m.shown)) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("mean speed"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
	}
	s.WriteString(m.styles.help.Render("Q: Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.stats.Render(s.String()))
}

func (m Model) row(s *strings.Builder, label, value string) {
	s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
}

// Run blocks until the user quits.
func Run(s *sim.Simulator, b sim.Bounds, opts Options) error {
	p := tea.NewProgram(NewModel(s, b, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
