package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/track"
)

const (
	canvasWidth  = 64
	canvasHeight = 22
	stepsPerTick = 4
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveModel steps a propagation in real time and draws the x-y projection
// of the trail. It drives the stepper directly so the view stays in
// control of the pacing.
type LiveModel struct {
	stepper propagator.Stepper
	cache   *propagator.Cache
	limit   float64
	path    float64
	steps   int
	trail   []track.Vector3
	done    bool
}

func NewLive(s propagator.Stepper, start track.Parameters, stepSize, pathLimit float64) LiveModel {
	c := s.MakeCache(start, stepSize)
	return LiveModel{
		stepper: s,
		cache:   c,
		limit:   pathLimit,
		trail:   []track.Vector3{start.Position},
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case TickMsg:
		if !m.done {
			for i := 0; i < stepsPerTick && !m.done; i++ {
				remaining := m.limit - math.Abs(m.path)
				if remaining < math.Abs(m.cache.StepSize) {
					m.cache.StepSize = math.Copysign(remaining, m.cache.StepSize)
				}
				m.path += m.stepper.Step(m.cache)
				m.steps++
				m.trail = append(m.trail, m.cache.Pos)
				if m.cache.Err != nil || math.Abs(m.path) >= m.limit-1e-9 {
					m.done = true
				}
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m LiveModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("trackprop live"))
	b.WriteString("\n")
	b.WriteString(canvasStyle.Render(m.renderTrail()))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("steps", fmt.Sprintf("%d", m.steps))
	row("path", fmt.Sprintf("%.1f mm", m.path))
	row("position", fmt.Sprintf("(%.1f, %.1f, %.1f)", m.cache.Pos.X, m.cache.Pos.Y, m.cache.Pos.Z))
	if m.done {
		b.WriteString(doneStyle.Render("done"))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

// renderTrail draws the x-y projection on a fixed-size rune grid, scaled
// to the trail's bounding box.
func (m LiveModel) renderTrail() string {
	minX, maxX := m.trail[0].X, m.trail[0].X
	minY, maxY := m.trail[0].Y, m.trail[0].Y
	for _, p := range m.trail {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	place := func(p track.Vector3, c rune) {
		col := int((p.X - minX) / spanX * float64(canvasWidth-1))
		row := int((maxY - p.Y) / spanY * float64(canvasHeight-1))
		grid[row][col] = c
	}
	for _, p := range m.trail {
		place(p, '.')
	}
	place(m.cache.Pos, '@')

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}
