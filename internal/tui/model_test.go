package tui

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"xptrack/internal/engine"
	"xptrack/internal/storage"
)

func newTestBoard(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	svc := engine.NewService(ctx, storage.NewLocal(storage.NewKV(db), log), engine.Options{
		Zone:   time.UTC,
		Clock:  func() time.Time { return now },
		Logger: log,
	})
	for _, name := range []string{"Read", "Run"} {
		if _, err := svc.AddTask(ctx, engine.CreateTaskInput{Name: name, XP: 60}); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	return newBoardModel(ctx, svc), svc
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// press sends key and feeds the resulting command's message back in.
func press(t *testing.T, m boardModel, key tea.KeyMsg) boardModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(boardModel)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(boardModel)
	}
	return m
}

func TestBoardToggleAndLevelUp(t *testing.T) {
	m, svc := newTestBoard(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.tasks[0].Completed || m.progress.Total != 60 {
		t.Fatalf("after toggle: task=%+v progress=%+v", m.tasks[0], m.progress)
	}

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.progress.Level != 2 || !strings.Contains(m.lastLog, "level 2") {
		t.Fatalf("progress=%+v log=%q", m.progress, m.lastLog)
	}
	if svc.Progress().Level != 2 {
		t.Fatalf("service level=%d", svc.Progress().Level)
	}
	if !strings.Contains(m.View(), "Lv 2") {
		t.Fatalf("view missing level:\n%s", m.View())
	}
}

func TestBoardReorder(t *testing.T) {
	m, svc := newTestBoard(t)

	m = press(t, m, runes("J"))
	if m.selected != 1 || m.tasks[1].Name != "Read" {
		t.Fatalf("selected=%d tasks=%v", m.selected, m.tasks)
	}
	if got := svc.Tasks(); got[0].Name != "Run" {
		t.Fatalf("service order not updated: %v", got)
	}
}

func TestBoardQuit(t *testing.T) {
	m, _ := newTestBoard(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestBoardAppliesSweeperResult(t *testing.T) {
	m, svc := newTestBoard(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	next, cmd := m.Update(sweptMsg{sum: engine.SweepSummary{Reset: []string{svc.Tasks()[0].ID}, BankedXP: 0}})
	m = next.(boardModel)
	if cmd != nil {
		t.Fatalf("sweep result scheduled a follow-up command")
	}
	if !strings.Contains(m.lastLog, "1 task(s) reset") {
		t.Fatalf("log=%q", m.lastLog)
	}
}
