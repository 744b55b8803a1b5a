package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// xp theme (CLI + TUI).

const (
	IconTask    = "🎯"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconGift    = "🎁"
	IconCloud   = "☁️"
	IconFire    = "🔥"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	barFilled = lipgloss.NewStyle().Foreground(cGood)
	barEmpty  = lipgloss.NewStyle().Foreground(cMuted)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Check renders a task's completion box.
func Check(completed bool) string {
	if completed {
		return Good.Render("[x]")
	}
	return Muted.Render("[ ]")
}

// BarCells returns how many of width cells a value/total bar fills.
func BarCells(value, total, width int) int {
	if total <= 0 || width <= 0 {
		return 0
	}
	value = max(0, min(value, total))
	return value * width / total
}

// XPBar renders a value/total progress bar of width cells.
func XPBar(value, total, width int) string {
	width = max(width, 3)
	filled := BarCells(value, total, width)
	return "[" + barFilled.Render(strings.Repeat("#", filled)) + barEmpty.Render(strings.Repeat("-", width-filled)) + "]"
}

// XPLine is the one-line level summary used by `xp status` and the board.
func XPLine(level, total, maxXP int, width int) string {
	return fmt.Sprintf("%s %s %s",
		Gold.Render(fmt.Sprintf("Lv %d", level)),
		XPBar(total, maxXP, width),
		Muted.Render(fmt.Sprintf("%d/%d XP", total, maxXP)),
	)
}
