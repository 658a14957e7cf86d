// Package tui provides a Bubble Tea terminal user interface for frameview.
package tui

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"frameview/internal/config"
	"frameview/internal/frame"
	"frameview/internal/viewer"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	enabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateOpening
	StateBrowse
	StateRendering
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	session   *viewer.Session
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	// cursor indexes into the combined axis+channel row list.
	cursor int

	status string

	width  int
	height int
}

// NewModel creates a new TUI model. itemID may be empty, in which case the
// user is prompted for one.
func NewModel(settings *config.Settings, itemID string) Model {
	ti := textinput.New()
	ti.Placeholder = "item id, e.g. 5f3c8e2a9b1d4c6e8f0a2b3c"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(itemID)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		settings:  settings,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// OpenDoneMsg is sent when the session finishes opening an item.
	OpenDoneMsg struct {
		Session *viewer.Session
		Err     error
	}

	// RenderDoneMsg is sent when a composite render completes.
	RenderDoneMsg struct {
		Path string
		Err  error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case OpenDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.session = msg.Session
			m.state = StateBrowse
			m.cursor = 0
			m.status = ""
		}

	case RenderDoneMsg:
		m.state = StateBrowse
		if msg.Err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("render failed: %v", msg.Err))
		} else {
			m.status = successStyle.Render(fmt.Sprintf("composite written to %s", msg.Path))
		}
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses; the bool result reports whether the key
// was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return tea.Quit, true

	case "q", "esc":
		if m.state == StateInput || m.state == StateBrowse || m.state == StateError {
			m.cancel()
			return tea.Quit, true
		}

	case "enter":
		if m.state == StateInput && m.textInput.Value() != "" {
			m.state = StateOpening
			return tea.Batch(m.openItem(m.textInput.Value()), m.spinner.Tick), true
		}

	case "up", "k":
		if m.state == StateBrowse && m.cursor > 0 {
			m.cursor--
			return nil, true
		}

	case "down", "j":
		if m.state == StateBrowse && m.cursor < m.rowCount()-1 {
			m.cursor++
			return nil, true
		}

	case "left", "h":
		if m.state == StateBrowse {
			m.adjustAxis(-1)
			return nil, true
		}

	case "right", "l":
		if m.state == StateBrowse {
			m.adjustAxis(1)
			return nil, true
		}

	case " ":
		if m.state == StateBrowse {
			m.toggleChannel()
			return nil, true
		}

	case "m":
		if m.state == StateBrowse {
			model := m.session.Model()
			if model.Mode() == frame.ModeSingle {
				model.SetMode(frame.ModeComposite)
			} else {
				model.SetMode(frame.ModeSingle)
			}
			return nil, true
		}

	case "r":
		if m.state == StateBrowse {
			m.state = StateRendering
			return tea.Batch(m.renderComposite(), m.spinner.Tick), true
		}
	}
	return nil, false
}

func (m *Model) rowCount() int {
	model := m.session.Model()
	return len(model.Axes()) + len(model.Channels())
}

// adjustAxis moves the selected axis's current index by delta. Out-of-range
// moves are simply ignored; the model rejects them without mutating.
func (m *Model) adjustAxis(delta int) {
	model := m.session.Model()
	axes := model.Axes()
	if m.cursor >= len(axes) {
		return
	}
	axis := axes[m.cursor].Axis
	cur, _ := model.AxisCurrent(axis)
	if _, err := model.SetAxisCurrent(axis, cur+delta); err != nil {
		m.status = dimStyle.Render(err.Error())
	} else {
		m.status = ""
	}
}

func (m *Model) toggleChannel() {
	model := m.session.Model()
	axes := model.Axes()
	if m.cursor < len(axes) {
		return
	}
	channels := model.Channels()
	c := channels[m.cursor-len(axes)]
	if err := model.ToggleChannelEnabled(c.Name, !c.Enabled); err != nil {
		m.status = errorStyle.Render(err.Error())
	} else {
		m.status = ""
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("frameview"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("frame/channel selection for multi-dimensional images"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateOpening:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Fetching tile metadata..."))
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateRendering:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Rendering composite..."))
	case StateError:
		b.WriteString(errorStyle.Render("Error:"))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString("  " + m.err.Error())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Open item:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Server: %s", m.settings.ServerURL)))
	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder
	model := m.session.Model()
	desc := m.session.Description()

	b.WriteString(subtitleStyle.Render(fmt.Sprintf(
		"%dx%d, %d frames, %s mode", desc.SizeX, desc.SizeY, desc.FrameCount, model.Mode())))
	b.WriteString("\n\n")

	axes := model.Axes()
	for i, a := range axes {
		cur, _ := model.AxisCurrent(a.Axis)
		line := fmt.Sprintf("%-8s %s %d/%d", string(a.Axis), slider(cur, a.Range), cur, a.Range-1)
		b.WriteString(m.renderRow(i, line))
	}
	b.WriteString("\n")

	for i, c := range model.Channels() {
		mark := "[ ]"
		style := disabledStyle
		if c.Enabled {
			mark = "[x]"
			style = enabledStyle
		}
		line := fmt.Sprintf("%s %-12s", mark, c.Name)
		if c.FalseColor != "" {
			line += " " + c.FalseColor
		}
		if c.Min != frame.DefaultMin || c.Max != frame.DefaultMax {
			line += fmt.Sprintf(" [%.2f, %.2f]", c.Min, c.Max)
		}
		b.WriteString(m.renderRow(len(axes)+i, style.Render(line)))
	}
	b.WriteString("\n")

	b.WriteString(frameStyle.Render(fmt.Sprintf("frame %d / %d", model.LinearFrame(), model.MaxFrame())))
	b.WriteString("\n")

	if style, err := m.session.StyleJSON(); err == nil {
		b.WriteString(dimStyle.Render("style: " + string(style)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(index int, line string) string {
	prefix := "  "
	if index == m.cursor {
		prefix = "> "
		line = selectedStyle.Render(line)
	}
	return prefix + line + "\n"
}

// slider renders a small position bar for an axis.
func slider(current, rng int) string {
	const width = 12
	pos := 0
	if rng > 1 {
		pos = current * (width - 1) / (rng - 1)
	}
	bar := make([]rune, width)
	for i := range bar {
		bar[i] = '─'
	}
	bar[pos] = '●'
	return string(bar)
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: open • esc: quit"
	case StateBrowse:
		return "↑/↓: select • ←/→: adjust axis • space: toggle channel • m: mode • r: render • q: quit"
	case StateError:
		return "q: quit"
	}
	return ""
}

// openItem opens a session for the item in the background.
func (m *Model) openItem(itemID string) tea.Cmd {
	ctx := m.ctx
	settings := m.settings
	return func() tea.Msg {
		session := viewer.NewSession(settings, nil)
		if err := session.Open(ctx, itemID); err != nil {
			return OpenDoneMsg{Err: err}
		}
		return OpenDoneMsg{Session: session}
	}
}

// renderComposite renders the current composite and writes it as PNG to
// the configured output path.
func (m *Model) renderComposite() tea.Cmd {
	ctx := m.ctx
	session := m.session
	outDir := m.settings.OutputPath
	return func() tea.Msg {
		img, err := session.RenderComposite(ctx)
		if err != nil {
			return RenderDoneMsg{Err: err}
		}

		if err := os.MkdirAll(outDir, 0755); err != nil {
			return RenderDoneMsg{Err: err}
		}
		path := filepath.Join(outDir, "composite.png")
		f, err := os.Create(path)
		if err != nil {
			return RenderDoneMsg{Err: err}
		}
		defer f.Close()

		if err := png.Encode(f, img); err != nil {
			return RenderDoneMsg{Err: err}
		}
		return RenderDoneMsg{Path: path}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, itemID string) error {
	p := tea.NewProgram(NewModel(settings, itemID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
