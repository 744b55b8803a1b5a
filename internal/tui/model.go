package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xptrack/internal/engine"
	"xptrack/internal/storage"
	"xptrack/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	tasks    []storage.Task
	progress engine.ProgressView
	selected int

	lastLog string
}

type refreshedMsg struct{}

type toggledMsg struct {
	res engine.ToggleResult
	err error
}

type sweptMsg struct {
	sum engine.SweepSummary
	err error
}

type syncedMsg struct {
	op  string
	err error
}

type movedMsg struct {
	to  int
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	m := boardModel{
		ctx:     ctx,
		svc:     svc,
		lastLog: "Loaded.",
	}
	m.reload()
	return m
}

// Init pulls remote state; periodic resets come from the engine.Sweeper
// RunBoard starts.
func (m boardModel) Init() tea.Cmd {
	if m.svc.HasRemote() {
		return m.syncDownCmd()
	}
	return nil
}

func (m *boardModel) reload() {
	m.tasks = m.svc.Tasks()
	m.progress = m.svc.Progress()
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleCompletion(m.ctx, id)
		return toggledMsg{res: res, err: err}
	}
}

func (m boardModel) sweepCmd() tea.Cmd {
	return func() tea.Msg {
		sum, err := m.svc.Sweep(m.ctx)
		return sweptMsg{sum: sum, err: err}
	}
}

func (m boardModel) syncDownCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.SyncDown(m.ctx)
		return syncedMsg{op: "down", err: err}
	}
}

func (m boardModel) syncUpCmd() tea.Cmd {
	return func() tea.Msg {
		return syncedMsg{op: "up", err: m.svc.SyncUp(m.ctx)}
	}
}

func (m boardModel) moveCmd(from, to int) tea.Cmd {
	return func() tea.Msg {
		return movedMsg{to: to, err: m.svc.MoveTask(m.ctx, from, to)}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case refreshedMsg:
		m.reload()
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		m.lastLog = toggleLog(msg.res)
		return m, nil
	case sweptMsg:
		switch {
		case errors.Is(msg.err, engine.ErrSyncInProgress):
			return m, nil
		case msg.err != nil:
			m.lastLog = "Sweep failed: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		if len(msg.sum.Reset) > 0 {
			m.lastLog = fmt.Sprintf("%s %d task(s) reset, +%d XP banked", ui.IconLoop, len(msg.sum.Reset), msg.sum.BankedXP)
		}
		return m, nil
	case syncedMsg:
		m.reload()
		if msg.err != nil {
			m.lastLog = fmt.Sprintf("Sync %s: %v", msg.op, msg.err)
		} else {
			m.lastLog = fmt.Sprintf("%s Synced %s at %s.", ui.IconCloud, msg.op, time.Now().Format("15:04:05"))
		}
		if msg.op == "down" {
			return m, m.sweepCmd()
		}
		return m, nil
	case movedMsg:
		if msg.err != nil {
			m.lastLog = "Move failed: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		m.selected = msg.to
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	case "K", "shift+up":
		if m.selected > 0 {
			return m, m.moveCmd(m.selected, m.selected-1)
		}
		return m, nil
	case "J", "shift+down":
		if m.selected < len(m.tasks)-1 {
			return m, m.moveCmd(m.selected, m.selected+1)
		}
		return m, nil
	case "c", " ", "space", "enter":
		if m.selected < 0 || m.selected >= len(m.tasks) {
			return m, nil
		}
		return m, m.toggleCmd(m.tasks[m.selected].ID)
	case "s":
		return m, m.sweepCmd()
	case "r":
		if !m.svc.HasRemote() {
			m.reload()
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, nil
		}
		m.lastLog = "Syncing…"
		return m, m.syncDownCmd()
	case "u":
		if !m.svc.HasRemote() {
			m.lastLog = "No remote configured."
			return m, nil
		}
		m.lastLog = "Uploading…"
		return m, m.syncUpCmd()
	}
	return m, nil
}

func toggleLog(res engine.ToggleResult) string {
	if !res.Completed {
		return fmt.Sprintf("Unchecked %s (-%d XP)", res.Task.Name, res.XPRevoked)
	}
	s := fmt.Sprintf("%s %s +%d XP", ui.IconDone, res.Task.Name, res.XPAwarded)
	if res.LevelUp {
		s += fmt.Sprintf("  %s level %d", ui.BadgeLevelUp, res.LevelAfter)
		if res.Reward != "" {
			s += fmt.Sprintf("  %s %s", ui.IconGift, res.Reward)
		}
	}
	return s
}

func (m boardModel) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 28
	if m.width > 0 {
		leftW = max(18, min(leftW, m.width/2))
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	n := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < n; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}
	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	p := m.progress
	line := ui.Heading(ui.IconSparkle, "xp") + "  " + ui.XPLine(p.Level, p.Total, p.MaxXP, 30)
	if p.Reward != "" {
		line += "  " + ui.IconGift + " " + p.Reward
	}
	return line
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.PanelTitle.Render("Stats")}
	if top, ok := engine.TopCategory(m.tasks); ok {
		lines = append(lines, fmt.Sprintf("Top: %s (%d)", top.Category, top.Count))
	}
	lines = append(lines, fmt.Sprintf("%s Streak: %d day(s)", ui.IconFire, m.svc.Scheduler().Streak(m.tasks)))
	for _, c := range engine.XPByCategory(m.tasks) {
		lines = append(lines, fmt.Sprintf("- %s %d XP", c.Category, c.XP))
	}
	if at := m.svc.LastSync(); at != nil {
		lines = append(lines, "Synced "+at.In(m.svc.Scheduler().Zone).Format("Jan 2 15:04"))
	}
	lines = append(lines, "",
		ui.PanelTitle.Render("Keys"),
		"- ↑/↓ or j/k: move",
		"- K/J: reorder",
		"- space: toggle",
		"- s: reset sweep",
		"- r: sync down",
		"- u: sync up",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	out := []string{ui.PanelTitle.Render("Tasks")}
	if len(m.tasks) == 0 {
		out = append(out, "(no tasks; add one with `xp add`)")
		return strings.Join(out, "\n")
	}
	zone := m.svc.Scheduler().Zone
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		due := ""
		if t.NextDueAt != nil {
			due = " resets " + t.NextDueAt.In(zone).Format("Mon Jan 2")
		}
		row := fmt.Sprintf("%s%s %s +%d %s%s", cursor, ui.Check(t.Completed), t.Name, t.XPValue,
			ui.Muted.Render(t.Category), ui.Muted.Render(due))
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
