package engine

import "context"

// SweepSummary reports one reset pass over the task list.
type SweepSummary struct {
	Reset       []string
	BankedXP    int
	SettledXP   int
	LevelBefore int
	LevelAfter  int
}

func (s SweepSummary) LevelUp() bool { return s.LevelAfter > s.LevelBefore }

// Sweep returns every elapsed task to pending. XP of tasks completed but
// never credited is banked; XP already credited moves from the current cycle
// into banked XP. It refuses to run while a sync is in flight.
func (s *Service) Sweep(ctx context.Context) (SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return SweepSummary{}, ErrSessionEnded
	}
	if s.syncing {
		return SweepSummary{}, ErrSyncInProgress
	}
	return s.sweepLocked(ctx), nil
}

// sweepLocked runs under mu.
func (s *Service) sweepLocked(ctx context.Context) SweepSummary {
	res := s.sched.SweepResets(s.tasks.List(), s.now())
	sum := SweepSummary{
		Reset:       res.Reset,
		BankedXP:    res.BankedXP,
		SettledXP:   res.SettledXP,
		LevelBefore: s.ledger.Level(),
		LevelAfter:  s.ledger.Level(),
	}
	if len(res.Reset) == 0 {
		return sum
	}

	s.ledger.Settle(res.SettledXP)
	sum.LevelAfter = s.ledger.Bank(res.BankedXP).After
	s.tasks.Replace(res.Tasks)

	s.persistTasks(ctx)
	s.persistProgress(ctx)
	reset := make(map[string]bool, len(res.Reset))
	for _, id := range res.Reset {
		reset[id] = true
	}
	for i, t := range res.Tasks {
		if reset[t.ID] {
			s.pushTask(t, i)
		}
	}
	s.pushProgress()
	s.pushBanked()

	s.log.Info("sweep reset tasks",
		"count", len(res.Reset),
		"banked_xp", res.BankedXP,
		"settled_xp", res.SettledXP,
		"level", sum.LevelAfter,
	)
	return sum
}
