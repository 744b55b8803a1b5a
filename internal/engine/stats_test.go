package engine

import (
	"testing"
	"time"

	"xptrack/internal/storage"
)

func TestTopCategoryAndXPByCategory(t *testing.T) {
	tasks := []storage.Task{
		{Category: "Finance", XPValue: 50, Completed: true},
		{Category: "Habits", XPValue: 10, Completed: true},
		{Category: "Habits", XPValue: 15, Completed: true},
		{Category: "Finance", XPValue: 80},
		{Category: "bogus", XPValue: 5, Completed: true},
	}

	top, ok := TopCategory(tasks)
	if !ok || top.Category != CategoryHabits || top.Count != 3 {
		t.Fatalf("top=%+v ok=%v, want Habits x3 (unknown counts as default)", top, ok)
	}

	got := XPByCategory(tasks)
	if len(got) != 2 || got[0].Category != CategoryFinance || got[0].XP != 50 || got[1].XP != 30 {
		t.Fatalf("XPByCategory=%+v", got)
	}

	if _, ok := TopCategory(nil); ok {
		t.Fatalf("TopCategory(nil) reported a category")
	}
}

func TestStreakCountsZonedDays(t *testing.T) {
	ny := newYork(t)
	s := NewScheduler(ny)
	at := func(day, hour int) *time.Time { return ptime(time.Date(2024, 3, day, hour, 0, 0, 0, ny)) }

	tasks := []storage.Task{
		{Completed: true, LastCompletedAt: at(12, 8)},
		{Completed: true, LastCompletedAt: at(12, 21)},
		{Completed: true, LastCompletedAt: at(11, 9)},
		{Completed: true, LastCompletedAt: at(10, 23)},
		{Completed: true, LastCompletedAt: at(8, 10)},
		{Completed: false, LastCompletedAt: at(9, 10)},
	}
	if got := s.Streak(tasks); got != 3 {
		t.Fatalf("Streak=%d, want 3", got)
	}
	if got := s.Streak(nil); got != 0 {
		t.Fatalf("Streak(nil)=%d, want 0", got)
	}
}
