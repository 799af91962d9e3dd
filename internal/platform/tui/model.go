package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/scenario"
	"github.com/vovakirdan/rulestage/internal/storage"
)

// Layout constants
const (
	hudLines        = 2  // status line + help line
	debugWidth      = 48 // rule table width when shown
	minFieldCols    = 20
	defaultMsgTime  = 2.0
	defaultTickRate = 60
)

// Options configure a preview.
type Options struct {
	TickRate    int
	MessageTime float64        // seconds a message stays up when it sets no duration
	Theme       *Theme         // nil uses DefaultTheme
	Store       *storage.Store // runs are recorded when the scenario ends; may be nil
	Logger      *log.Logger
}

// Model is the Bubble Tea model previewing one scenario.
type Model struct {
	runner  *scenario.Runner
	screen  *core.Screen
	proj    Projection
	gesture *Gesture
	keys    PreviewKeyMap
	help    help.Model
	table   table.Model
	theme   Theme
	opts    Options

	width, height int
	paused        bool
	showDebug     bool
	saved         bool
	quitting      bool

	message      string
	messageUntil float64
	lastErr      string
}

// NewModel creates a preview for a runner.
func NewModel(r *scenario.Runner, opts Options) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = defaultTickRate
	}
	if opts.MessageTime <= 0 {
		opts.MessageTime = defaultMsgTime
	}
	if opts.Logger == nil {
		opts.Logger = r.Engine.Logger()
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	m := Model{
		theme:   theme,
		runner:  r,
		screen:  core.NewScreen(80, 24-hudLines),
		gesture: &Gesture{},
		keys:    DefaultPreviewKeyMap(),
		help:    help.New(),
		opts:    opts,
		width:   80,
		height:  24,
	}
	m.table = newRuleTable()
	m.layout()
	return m
}

func newRuleTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rule", Width: 18},
			{Title: "Pri", Width: 5},
			{Title: "Runs", Width: 9},
			{Title: "On", Width: 3},
		}),
		table.WithFocused(false),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(s)
	return t
}

// layout sizes the field and the debug panel for the window.
func (m *Model) layout() {
	cols := m.width
	if m.showDebug && m.width-debugWidth >= minFieldCols {
		cols = m.width - debugWidth
	}
	rows := max(m.height-hudLines, 1)
	m.screen.Resize(cols, rows)
	m.proj = Projection{Field: m.runner.Ctx.Field, Cols: cols, Rows: rows}
	m.table.SetHeight(max(rows-4, 1))
	m.help.Width = m.width
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.opts.TickRate)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}
	case key.Matches(msg, m.keys.Reset):
		m.runner.Reset()
		*m.gesture = Gesture{}
		m.saved = false
		m.message, m.lastErr = "", ""
		m.layout()
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = !m.showDebug
		m.layout()
	}
	return m, nil
}

// handleMouse converts the left button into touch input on the field.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.proj.Inside(msg.X, msg.Y) && !m.gesture.Down() {
		return
	}
	pos := m.proj.ToWorld(msg.X, msg.Y)
	now := m.runner.Ctx.State.Elapsed

	var events []core.InputEvent
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			events = m.gesture.Press(pos, now)
		}
	case tea.MouseActionMotion:
		events = m.gesture.Motion(pos, now)
	case tea.MouseActionRelease:
		events = m.gesture.Release(pos, now)
	}
	for _, ev := range events {
		m.runner.Push(ev.Type, ev.Data)
	}
}

// step runs one frame and records what the host has to show.
func (m *Model) step() {
	for _, ev := range m.gesture.Hold(m.runner.Ctx.State.Elapsed) {
		m.runner.Push(ev.Type, ev.Data)
	}
	if m.runner.Ended() {
		return
	}
	results := m.runner.Step()
	m.observe(results)
	if m.runner.Ended() {
		m.record()
	}
}

func (m *Model) observe(results []*rules.Result) {
	now := m.runner.Ctx.State.Elapsed
	for _, res := range results {
		for _, msg := range res.Messages {
			d := msg.Duration
			if d <= 0 {
				d = m.opts.MessageTime
			}
			m.message, m.messageUntil = msg.Text, now+d
		}
		if len(res.Errors) > 0 {
			m.lastErr = fmt.Sprintf("%s: %s", res.RuleID, res.Errors[len(res.Errors)-1])
		}
		if res.Restart {
			m.saved = false
		}
	}
	if m.message != "" && now >= m.messageUntil {
		m.message = ""
	}
}

// record saves the finished run once.
func (m *Model) record() {
	if m.saved || m.opts.Store == nil {
		return
	}
	m.saved = true
	sum := m.runner.Summary()
	if _, err := m.opts.Store.SaveRun(storage.Run{
		Scenario: sum.Scenario,
		Seed:     sum.Seed,
		Score:    sum.Score,
		Outcome:  sum.Status.String(),
		Frames:   sum.Frames,
		Elapsed:  sum.Elapsed,
		Fired:    sum.Fired,
	}); err != nil {
		m.opts.Logger.Warn("run not recorded", "error", err)
	}
}

func (m *Model) refreshTable(snap engine.Snapshot) {
	rows := make([]table.Row, len(snap.Rules))
	for i, r := range snap.Rules {
		runs := fmt.Sprintf("%d", r.Count)
		if r.MaxCount > 0 {
			runs = fmt.Sprintf("%d/%d", r.Count, r.MaxCount)
		}
		on := "y"
		if !r.Enabled {
			on = "n"
		}
		rows[i] = table.Row{r.Name, fmt.Sprintf("%d", r.Priority), runs, on}
	}
	m.table.SetRows(rows)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawWorld(m.screen, m.proj, m.runner.Ctx.Objects)
	field := RenderScreen(m.screen)
	if m.showDebug && m.screen.Width() < m.width {
		m.refreshTable(m.runner.Engine.Snapshot())
		field = lipgloss.JoinHorizontal(lipgloss.Top, field, m.theme.Panel.Render(m.debugPanel()))
	}

	var b strings.Builder
	b.WriteString(field)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	s := m.runner.Ctx.State
	line := m.theme.HUDTitle.Render(m.runner.Scenario.Name) + "  " +
		m.theme.HUDValue.Render(fmt.Sprintf("t=%.2fs  score %d", s.Elapsed, s.Score)) + "  " +
		m.theme.Outcome(s.Status.String())
	if m.paused {
		line += m.theme.HUDPaused.Render("  [paused]")
	}
	if m.message != "" {
		line += "  " + m.theme.HUDMessage.Render(m.message)
	}
	return line
}

func (m Model) debugPanel() string {
	snap := m.runner.Engine.Snapshot()
	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(fmt.Sprintf("events %d  consumed %d  contacts %d",
		m.runner.Ctx.Events.Len(), snap.Caches.ConsumedEvents, snap.Caches.CollisionPairs)))
	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.HUDError.Render(m.lastErr))
	}
	return b.String()
}

// Run starts the Bubble Tea program previewing r.
func Run(r *scenario.Runner, opts Options) error {
	p := tea.NewProgram(
		NewModel(r, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
