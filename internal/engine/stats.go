package engine

import (
	"sort"
	"time"

	"xptrack/internal/storage"
)

// CategoryCount is the number of completed tasks in a category.
type CategoryCount struct {
	Category Category
	Count    int
}

// TopCategory returns the category with the most completed tasks. Ties go
// to the category listed first. ok is false when nothing is completed.
func TopCategory(tasks []storage.Task) (top CategoryCount, ok bool) {
	counts := make(map[Category]int)
	for _, t := range tasks {
		if t.Completed {
			counts[parseStoredCategory(t.Category)]++
		}
	}
	for _, c := range Categories {
		if n := counts[c]; n > top.Count {
			top = CategoryCount{Category: c, Count: n}
		}
	}
	return top, top.Count > 0
}

// CategoryXP is the XP of completed tasks in one category.
type CategoryXP struct {
	Category Category
	XP       int
}

// XPByCategory sums the XP of completed tasks per category, highest first.
func XPByCategory(tasks []storage.Task) []CategoryXP {
	sums := make(map[Category]int)
	for _, t := range tasks {
		if t.Completed {
			sums[parseStoredCategory(t.Category)] += t.XPValue
		}
	}
	out := make([]CategoryXP, 0, len(sums))
	for _, c := range Categories {
		if xp, ok := sums[c]; ok {
			out = append(out, CategoryXP{Category: c, XP: xp})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	return out
}

// Streak counts consecutive calendar days, in the scheduler's zone, on which
// a currently completed task was last completed, ending at the most recent
// such day.
func (s Scheduler) Streak(tasks []storage.Task) int {
	days := make(map[time.Time]bool)
	var latest time.Time
	for _, t := range tasks {
		if !t.Completed || t.LastCompletedAt == nil {
			continue
		}
		d := s.Midnight(*t.LastCompletedAt)
		days[d] = true
		if d.After(latest) {
			latest = d
		}
	}
	if len(days) == 0 {
		return 0
	}
	streak := 0
	for d := latest; days[d]; d = s.addDays(d, -1) {
		streak++
	}
	return streak
}
