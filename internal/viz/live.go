package viz

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spindown/internal/wheel"
)

const (
	canvasWidth  = 40
	canvasHeight = 20
	frameRate    = 30
	deltaHistory = 240
)

type TickMsg time.Time

// spinState accumulates what the engine reports. Callbacks write it on the
// tick goroutine; the view reads a snapshot on each frame.
type spinState struct {
	mu       sync.Mutex
	rotation float64
	deltas   []float64
	settled  bool
	spins    int
}

func (s *spinState) update(d float64) {
	s.mu.Lock()
	s.rotation += d
	s.deltas = append(s.deltas, d)
	if len(s.deltas) > deltaHistory {
		s.deltas = s.deltas[1:]
	}
	s.mu.Unlock()
}

func (s *spinState) complete() {
	s.mu.Lock()
	s.settled = true
	s.spins++
	s.mu.Unlock()
}

func (s *spinState) launch() {
	s.mu.Lock()
	s.settled = false
	s.mu.Unlock()
}

func (s *spinState) snapshot() (rotation float64, deltas []float64, settled bool, spins int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation, append([]float64(nil), s.deltas...), s.settled, s.spins
}

// Model is the bubbletea model for the live wheel.
type Model struct {
	eng    *wheel.Engine
	spin   *spinState
	items  []string
	flick  float64
	label  string
	canvas *Canvas
}

func NewModel(items []string, flick float64, label string) Model {
	if len(items) == 0 {
		items = []string{"·"}
	}
	return Model{
		eng:    wheel.New(),
		spin:   &spinState{},
		items:  items,
		flick:  flick,
		label:  label,
		canvas: NewCanvas(canvasWidth, canvasHeight),
	}
}

// RunLive starts the interactive wheel and blocks until quit.
func RunLive(items []string, flick float64, label string) error {
	p := tea.NewProgram(NewModel(items, flick, label))
	_, err := p.Run()
	return err
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Stop()
			return m, tea.Quit
		case " ":
			m.spin.launch()
			m.eng.Start(m.flick, m.spin.update, m.spin.complete)
		case "b":
			m.spin.launch()
			m.eng.Start(-m.flick, m.spin.update, m.spin.complete)
		case "s":
			m.eng.Stop()
		case "up", "k":
			m.flick *= 1.25
		case "down", "j":
			m.flick *= 0.8
		case "r":
			m.spin.mu.Lock()
			m.spin.rotation = 0
			m.spin.deltas = m.spin.deltas[:0]
			m.spin.mu.Unlock()
		}
	case TickMsg:
		return m, frameTick()
	}
	return m, nil
}

// pick maps the accumulated rotation to the item under the fixed pointer.
func (m Model) pick(rotation float64) int {
	n := len(m.items)
	seg := 2 * math.Pi / float64(n)
	idx := int(math.Round(rotation/seg)) % n
	return ((n - idx) % n + n) % n
}

func (m Model) drawWheel(rotation float64) string {
	m.canvas.Clear()

	cx := canvasWidth  // sub-pixel center: Width*2 / 2
	cy := canvasHeight * 2
	r := cy - 6

	m.canvas.DrawCircle(cx, cy, r)
	m.canvas.DrawDot(cx, cy)

	n := len(m.items)
	seg := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		a := rotation + float64(i)*seg - math.Pi/2
		m.canvas.DrawLine(cx, cy,
			cx+int(math.Round(float64(r)*math.Cos(a))),
			cy+int(math.Round(float64(r)*math.Sin(a))))
	}

	// Fixed pointer above the rim.
	m.canvas.DrawDot(cx, cy-r-3)

	return m.canvas.String()
}

func (m Model) View() string {
	rotation, deltas, settled, spins := m.spin.snapshot()
	running := m.eng.Running()

	status := "IDLE"
	switch {
	case running:
		status = "SPINNING"
	case settled && spins > 0:
		status = "SETTLED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.label)) + "\n")
	s.WriteString(status + "\n\n")

	if len(deltas) > 1 {
		chart := asciigraph.Plot(deltas, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("delta/tick"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("%.3f", m.eng.Velocity())) + "\n")
	s.WriteString(labelStyle.Render("Rotation") + valueStyle.Render(fmt.Sprintf("%.3f rad", rotation)) + "\n")
	s.WriteString(labelStyle.Render("Flick") + valueStyle.Render(fmt.Sprintf("%.2f", m.flick)) + "\n")
	s.WriteString(labelStyle.Render("Spins") + valueStyle.Render(fmt.Sprintf("%d", spins)) + "\n")

	s.WriteString("\nITEMS\n")
	picked := m.pick(rotation)
	for i, item := range m.items {
		switch {
		case i == picked && settled && !running:
			s.WriteString(settledStyle.Render("● "+item) + "\n")
		case i == picked:
			s.WriteString(pickStyle.Render("> "+item) + "\n")
		default:
			s.WriteString("  " + labelStyle.Render(item) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Flick B:Backspin S:Stop\n↑↓:Strength R:Reset Q:Quit"))

	wheelView := canvasStyle.Render(m.drawWheel(rotation))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, wheelView, statsView)
}
