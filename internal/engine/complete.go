package engine

import (
	"context"

	"xptrack/internal/storage"
)

// ToggleResult reports the effect of one completion toggle.
type ToggleResult struct {
	Task        storage.Task
	Completed   bool
	XPAwarded   int
	XPRevoked   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	// Reward is the reward text of the level reached when LevelUp is set.
	Reward string
}

// ToggleCompletion flips the completion of the task matching ref.
//
// Checking credits the task's XP to the current cycle exactly once and marks
// it awarded. Unchecking an awarded task revokes that XP from the current
// cycle, clamped at zero. The next due date is left as scheduled when a task
// is unchecked. A completed task whose cycle has elapsed is reset by a sweep
// first, so its XP is banked and the toggle checks it for the new cycle.
func (s *Service) ToggleCompletion(ctx context.Context, ref string) (ToggleResult, error) {
	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return ToggleResult{}, ErrSessionEnded
	}
	t, err := s.tasks.Resolve(ref)
	if err != nil {
		return ToggleResult{}, err
	}

	now := s.now()
	if t.Completed && t.NextDueAt != nil && !now.Before(*t.NextDueAt) {
		s.sweepLocked(ctx)
		if t, err = s.tasks.Resolve(t.ID); err != nil {
			return ToggleResult{}, err
		}
	}
	updated := s.sched.ApplyToggle(t, now)
	res := ToggleResult{Completed: updated.Completed, LevelBefore: s.ledger.Level()}

	if updated.Completed {
		change := s.ledger.Award(t.XPValue)
		updated.XPAwarded = true
		res.XPAwarded = t.XPValue
		res.LevelAfter = change.After
		res.LevelUp = change.LevelUp()
	} else {
		if t.XPAwarded {
			res.XPRevoked = s.ledger.Revoke(t.XPValue)
		}
		res.LevelAfter = s.ledger.Level()
	}
	if res.LevelUp {
		res.Reward = s.rewards.Get(res.LevelAfter)
	}

	if err := s.tasks.Update(updated); err != nil {
		return ToggleResult{}, err
	}
	res.Task = updated.Clone()

	s.persistTasks(ctx)
	s.persistProgress(ctx)
	s.pushTask(updated, s.tasks.Position(updated.ID))
	s.pushProgress()
	if res.LevelUp {
		s.pushBanked()
	}

	s.log.Info("task toggled",
		"id", updated.ID,
		"completed", updated.Completed,
		"xp_awarded", res.XPAwarded,
		"xp_revoked", res.XPRevoked,
		"level", res.LevelAfter,
	)
	if res.LevelUp {
		s.log.Info("level up", "from", res.LevelBefore, "to", res.LevelAfter, "reward", res.Reward)
	}
	return res, nil
}
