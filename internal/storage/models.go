package storage

import "time"

// Task is the persisted form of a recurring task. Category and Frequency are
// stored raw; the engine owns their validation.
type Task struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	XPValue            int        `json:"xp"`
	Category           string     `json:"category"`
	Frequency          int        `json:"frequency"`
	ResetFrequencyDays int        `json:"resetFrequencyDays"`
	Completed          bool       `json:"completed"`
	XPAwarded          bool       `json:"xpAwarded"`
	LastCompletedAt    *time.Time `json:"lastCompleted,omitempty"`
	LastResetAt        *time.Time `json:"lastResetAt,omitempty"`
	NextDueAt          *time.Time `json:"nextDueDate,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	out.LastCompletedAt = cloneTime(t.LastCompletedAt)
	out.LastResetAt = cloneTime(t.LastResetAt)
	out.NextDueAt = cloneTime(t.NextDueAt)
	return out
}

// Progress is the per-user XP ledger state.
type Progress struct {
	Level         int `json:"level"`
	AccumulatedXP int `json:"accumulatedXP"`
	EarnedXP      int `json:"earnedXP"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
