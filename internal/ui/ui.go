// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/litescript/ls-orrery/internal/control"
	"github.com/litescript/ls-orrery/internal/engine"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// Layout: one HUD line above the canvas and one footer line below it.
const (
	hudHeight    = 1
	footerHeight = 1
	helpHeight   = 3

	// gestureWindow is how recently a landmark frame must have arrived for
	// the HUD to show a tracked hand.
	gestureWindow = 2 * time.Second
)

// Msg types for Bubble Tea
type (
	// FrameTickMsg triggers one engine tick.
	FrameTickMsg time.Time

	// ApplyMsg runs a function against the engine on the UI goroutine.
	// Settings reloaded from disk arrive this way.
	ApplyMsg struct {
		Apply func(*engine.Engine)
	}

	// StatusMsg sets the footer status text.
	StatusMsg string
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	engine  *engine.Engine
	state   *state.Manager
	profile termenv.Profile

	// UI state
	interval  time.Duration
	width     int
	height    int
	ready     bool
	showHelp  bool
	statusMsg string

	// Pointer
	pressed  bool
	moved    bool
	lastX    int
	lastY    int
	hovering bool
}

// New creates a new root UI model. interval is the frame period.
func New(e *engine.Engine, stateMgr *state.Manager, profile termenv.Profile, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return Model{
		engine:   e,
		state:    stateMgr,
		profile:  profile,
		interval: interval,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}

// keyActions maps keys to engine actions.
var keyActions = map[string]engine.Action{
	"f":   engine.ActionSpeedFast,
	"n":   engine.ActionSpeedNormal,
	"t":   engine.ActionViewTop,
	"s":   engine.ActionViewSide,
	"v":   engine.ActionViewFree,
	"x":   engine.ActionFilterSun,
	"r":   engine.ActionResetView,
	"+":   engine.ActionDensityUp,
	"=":   engine.ActionDensityUp,
	"-":   engine.ActionDensityDown,
	"o":   engine.ActionToggleTracks,
	"g":   engine.ActionToggleGrid,
	"y":   engine.ActionToggleGyro,
	"k":   engine.ActionFocusNext,
	"j":   engine.ActionFocusPrev,
	"esc": engine.ActionClearFocus,
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case FrameTickMsg:
		m.engine.Tick()
		return m, tickCmd(m.interval)

	case ApplyMsg:
		if msg.Apply != nil {
			msg.Apply(m.engine)
		}

	case StatusMsg:
		m.statusMsg = string(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	case "up":
		m.engine.Nudge(-control.NudgeStep, 0)
		return m, nil
	case "down":
		m.engine.Nudge(control.NudgeStep, 0)
		return m, nil
	case "left":
		m.engine.Nudge(0, -control.NudgeStep)
		return m, nil
	case "right":
		m.engine.Nudge(0, control.NudgeStep)
		return m, nil
	}

	if a, ok := keyActions[key]; ok {
		m.engine.Dispatch(a)
		m.statusMsg = a.String()
	}
	return m, nil
}

// canvasRows is the number of terminal rows the scene gets.
func (m Model) canvasRows() int {
	rows := m.height - hudHeight - footerHeight
	if m.showHelp {
		rows -= helpHeight
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.engine.Resize(m.width, m.canvasRows())
}

// handleMouse maps terminal cells to canvas cells. A press and release
// without motion is a click; motion with the left button held is a drag.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-hudHeight

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.engine.Zoom(input.WheelZoom(true))

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.engine.Zoom(input.WheelZoom(false))

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed, m.moved = true, false
		m.lastX, m.lastY = msg.X, msg.Y
		m.engine.SetDragging(true)

	case msg.Action == tea.MouseActionRelease:
		if m.pressed && !m.moved {
			if b := m.engine.Click(col, row); b != nil {
				m.statusMsg = "focus " + b.Name
			}
		}
		m.pressed = false
		m.engine.SetDragging(false)

	case msg.Action == tea.MouseActionMotion:
		if m.pressed {
			dx, dy := msg.X-m.lastX, msg.Y-m.lastY
			if dx != 0 || dy != 0 {
				m.moved = true
				m.engine.Drag(float64(dx), float64(dy))
			}
			m.lastX, m.lastY = msg.X, msg.Y
		}
		_, m.hovering = m.engine.Hover(col, row)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHUD())
	b.WriteString("\n")
	if f := m.engine.Frame(); f != nil {
		b.WriteString(f.Encode(m.profile))
	}
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22AAFF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
)

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// pill renders a control label, highlighted when active.
func pill(label string, active bool) string {
	if active {
		return activeStyle.Render("▶" + label)
	}
	return dimStyle.Render(" " + label)
}

func (m Model) renderHUD() string {
	st := m.engine.State()
	stats := m.engine.Stats()

	parts := []string{
		titleStyle.Render("ls-orrery"),
		pill("×1", st.ActiveSpeed == control.SpeedNormal) + pill("×10", st.ActiveSpeed == control.SpeedFast),
		pill("free", st.ActiveView == control.ViewFree) +
			pill("top", st.ActiveView == control.ViewTop) +
			pill("side", st.ActiveView == control.ViewSide),
		pill("sun-filter", st.SunFilterActive),
	}

	if f := st.Focused(); f != nil {
		parts = append(parts, accentStyle.Render("◎ "+f.Name))
	} else {
		parts = append(parts, dimStyle.Render(st.Camera.Mode.String()))
	}

	gyro := "gyro " + onOff(st.Input.Gyro)
	if st.Input.Gyro && m.state != nil && m.state.GestureActive(gestureWindow) {
		gyro += " ✋"
	}
	parts = append(parts,
		dimStyle.Render(gyro),
		dimStyle.Render(fmt.Sprintf("rocks %d", stats.Asteroids)),
		dimStyle.Render(fmt.Sprintf("comets %d", stats.Comets)),
	)
	if stats.Faults > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("faults %d", stats.Faults)))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderHelp() string {
	lines := []string{
		"[f] fast  [n] normal  [t] top  [s] side  [v] free  [x] sun filter  [r] reset",
		"[+/-] asteroid density  [o] orbits  [g] grid  [y] gyro  [j/k] focus  [esc] unfocus",
		"[arrows] tilt (gyro off)  drag to tilt  wheel to zoom  click a body to follow it",
	}
	return dimStyle.MaxWidth(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	stats := m.engine.Stats()
	left := dimStyle.Render(fmt.Sprintf("v%s  [?] help  [q] quit", version.Version))

	status := m.statusMsg
	if t, ok := m.engine.Tooltip(); ok && m.hovering {
		status = t.Text()
	}
	timing := fmt.Sprintf("%.1fms", float64(stats.LastFrame.Microseconds())/1000)
	if m.state != nil {
		snap := m.state.Snapshot()
		timing = fmt.Sprintf("avg %.1fms max %.1fms", float64(snap.AvgFrame.Microseconds())/1000, float64(snap.MaxFrame.Microseconds())/1000)
	}
	right := dimStyle.Render(status + "  " + timing)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
