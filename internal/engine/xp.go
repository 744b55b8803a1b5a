package engine

import (
	"log/slog"

	"xptrack/internal/storage"
)

const (
	// BaseLevelXP is the threshold to leave level 1.
	BaseLevelXP = 100
	// LevelXPStep is added to the threshold for every level after the first.
	LevelXPStep = 50
)

// MaxXPForLevel returns the XP needed to advance from level to level+1.
func MaxXPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseLevelXP + (level-1)*LevelXPStep
}

// LevelChange describes the effect of one ledger operation on the level.
type LevelChange struct {
	Before int
	After  int
}

func (c LevelChange) LevelUp() bool { return c.After > c.Before }

// Ledger holds a user's level, the current cycle's XP and banked XP.
// It is not safe for concurrent use; Service serializes access.
type Ledger struct {
	level       int
	accumulated int
	earned      int
	log         *slog.Logger
}

func NewLedger(p storage.Progress, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	l := &Ledger{log: log}
	l.Restore(p)
	return l
}

// Restore replaces the ledger state. Levels below 1 read as 1 and negative XP
// as zero.
func (l *Ledger) Restore(p storage.Progress) {
	l.level = max(p.Level, 1)
	l.accumulated = max(p.AccumulatedXP, 0)
	l.earned = max(p.EarnedXP, 0)
}

func (l *Ledger) Progress() storage.Progress {
	return storage.Progress{Level: l.level, AccumulatedXP: l.accumulated, EarnedXP: l.earned}
}

func (l *Ledger) Level() int         { return l.level }
func (l *Ledger) AccumulatedXP() int { return l.accumulated }
func (l *Ledger) EarnedXP() int      { return l.earned }
func (l *Ledger) MaxXP() int         { return MaxXPForLevel(l.level) }

// Total is the XP counted toward the next level.
func (l *Ledger) Total() int { return l.accumulated + l.earned }

// Award credits amount to the current cycle and promotes through as many
// levels as the combined total covers.
func (l *Ledger) Award(amount int) LevelChange {
	before := l.level
	if amount > 0 {
		l.accumulated += amount
	}
	l.promote()
	return LevelChange{Before: before, After: l.level}
}

// Bank credits amount directly to banked XP, then promotes.
func (l *Ledger) Bank(amount int) LevelChange {
	before := l.level
	if amount > 0 {
		l.earned += amount
	}
	l.promote()
	return LevelChange{Before: before, After: l.level}
}

// Settle moves up to amount from the current cycle into banked XP. The total
// does not change.
func (l *Ledger) Settle(amount int) {
	if amount <= 0 {
		return
	}
	n := min(amount, l.accumulated)
	l.accumulated -= n
	l.earned += n
}

// Revoke removes up to amount from the current cycle and returns what was
// actually removed. XP already consumed by a level-up cannot be taken back;
// the shortfall is logged.
func (l *Ledger) Revoke(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > l.accumulated {
		l.log.Warn("ledger: revocation exceeds current-cycle XP",
			"requested", amount, "accumulated", l.accumulated, "level", l.level)
		n := l.accumulated
		l.accumulated = 0
		return n
	}
	l.accumulated -= amount
	return amount
}

// promote pays each threshold from banked XP first, then from the current
// cycle, so the current cycle keeps as much revocable XP as possible.
func (l *Ledger) promote() {
	for l.Total() >= MaxXPForLevel(l.level) {
		need := MaxXPForLevel(l.level)
		fromEarned := min(need, l.earned)
		l.earned -= fromEarned
		l.accumulated -= need - fromEarned
		l.level++
	}
}
