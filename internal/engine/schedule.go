package engine

import (
	"time"

	"xptrack/internal/storage"
)

// Scheduler decides when tasks fall due. All boundaries are local midnight in
// Zone, computed from calendar fields so month lengths and DST shifts land on
// the right day.
type Scheduler struct {
	Zone *time.Location
}

func NewScheduler(zone *time.Location) Scheduler {
	if zone == nil {
		zone = time.UTC
	}
	return Scheduler{Zone: zone}
}

// ResetDays is the effective cadence of t. It falls back to the default
// frequency, then to one day.
func ResetDays(t storage.Task) int {
	if t.ResetFrequencyDays >= 1 {
		return t.ResetFrequencyDays
	}
	if f := Frequency(t.Frequency); f.IsValid() {
		return f.Days()
	}
	return 1
}

// NextDueDate adds the task's reset days to completedAt and truncates the
// result to midnight in the scheduler's zone.
func (s Scheduler) NextDueDate(t storage.Task, completedAt time.Time) time.Time {
	return s.addDays(completedAt, ResetDays(t))
}

func (s Scheduler) addDays(from time.Time, days int) time.Time {
	y, m, d := from.In(s.Zone).Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, s.Zone)
}

// Midnight truncates t to the start of its day in the scheduler's zone.
func (s Scheduler) Midnight(t time.Time) time.Time {
	return s.addDays(t, 0)
}

// ApplyToggle returns t with its completion flipped. Checking a task stamps
// lastCompletedAt and schedules the next due date; unchecking clears the
// stamp. xpAwarded is always cleared: crediting or revoking XP is the
// caller's job.
func (s Scheduler) ApplyToggle(t storage.Task, now time.Time) storage.Task {
	out := t.Clone()
	out.XPAwarded = false
	if !t.Completed {
		at := now
		due := s.NextDueDate(t, now)
		out.Completed = true
		out.LastCompletedAt = &at
		out.NextDueAt = &due
		return out
	}
	out.Completed = false
	out.LastCompletedAt = nil
	return out
}

// SweepResult is the outcome of one reset pass.
type SweepResult struct {
	// Tasks is the full list after the pass, in input order.
	Tasks []storage.Task
	// Reset holds the ids of tasks whose cycle elapsed.
	Reset []string
	// BankedXP is XP of tasks that were completed but never credited.
	BankedXP int
	// SettledXP is XP of completed, credited tasks; it moves from the current
	// cycle into banked XP without changing the total.
	SettledXP int
}

// SweepResets returns every task whose due date has passed to pending. The
// next due date advances from the elapsed one on a fixed grid (never from
// now), skipping whole cycles that were missed, so a second pass at the same
// instant is a no-op. Tasks without a due date are skipped. The input slice
// is not modified.
func (s Scheduler) SweepResets(tasks []storage.Task, now time.Time) SweepResult {
	res := SweepResult{Tasks: make([]storage.Task, len(tasks))}
	for i, t := range tasks {
		out := t.Clone()
		res.Tasks[i] = out
		if t.NextDueAt == nil || now.Before(*t.NextDueAt) {
			continue
		}

		switch {
		case t.Completed && !t.XPAwarded:
			res.BankedXP += t.XPValue
		case t.Completed:
			res.SettledXP += t.XPValue
		}

		days := ResetDays(t)
		next := s.addDays(*t.NextDueAt, days)
		for !next.After(now) {
			next = s.addDays(next, days)
		}
		at := now
		out.Completed = false
		out.XPAwarded = false
		out.LastCompletedAt = nil
		out.LastResetAt = &at
		out.NextDueAt = &next
		res.Tasks[i] = out
		res.Reset = append(res.Reset, t.ID)
	}
	return res
}
