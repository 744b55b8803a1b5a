package engine

import (
	"context"

	"xptrack/internal/storage"
)

// TaskPatch holds the editable task fields. Nil fields are left unchanged.
type TaskPatch struct {
	Name               *string
	XP                 *int
	Category           *Category
	Frequency          *Frequency
	ResetFrequencyDays *int
}

func (p TaskPatch) apply(t storage.Task) (storage.Task, error) {
	out := t.Clone()
	if p.Name != nil {
		name, err := normalizeName(*p.Name)
		if err != nil {
			return t, err
		}
		out.Name = name
	}
	if p.XP != nil {
		if err := validateXP(*p.XP); err != nil {
			return t, err
		}
		out.XPValue = *p.XP
	}
	if p.Category != nil {
		if !p.Category.IsValid() {
			return t, ValidationError{Field: "category", Reason: "unknown category " + string(*p.Category)}
		}
		out.Category = string(*p.Category)
	}
	if p.Frequency != nil {
		if !p.Frequency.IsValid() {
			return t, ValidationError{Field: "frequency", Reason: "must be one of 1, 2, 3, 7, 30 days"}
		}
		out.Frequency = int(*p.Frequency)
		if p.ResetFrequencyDays == nil {
			out.ResetFrequencyDays = p.Frequency.Days()
		}
	}
	if p.ResetFrequencyDays != nil {
		if *p.ResetFrequencyDays < 1 {
			return t, ValidationError{Field: "reset days", Reason: "must be at least 1"}
		}
		out.ResetFrequencyDays = *p.ResetFrequencyDays
	}
	return out, nil
}

// UpdateTask edits the task matching ref. Changing the cadence of a task
// that is currently completed reschedules it from its completion time; XP
// already credited is not adjusted.
func (s *Service) UpdateTask(ctx context.Context, ref string, patch TaskPatch) (storage.Task, error) {
	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return storage.Task{}, ErrSessionEnded
	}
	t, err := s.tasks.Resolve(ref)
	if err != nil {
		return storage.Task{}, err
	}
	updated, err := patch.apply(t)
	if err != nil {
		return storage.Task{}, err
	}
	if ResetDays(updated) != ResetDays(t) && updated.Completed && updated.LastCompletedAt != nil {
		due := s.sched.NextDueDate(updated, *updated.LastCompletedAt)
		updated.NextDueAt = &due
	}
	if err := s.tasks.Update(updated); err != nil {
		return storage.Task{}, err
	}
	s.persistTasks(ctx)
	s.pushTask(updated, s.tasks.Position(updated.ID))
	s.log.Info("task updated", "id", updated.ID, "name", updated.Name)
	return updated.Clone(), nil
}

// DeleteTask removes the task matching ref. Its XP, if credited, stays.
func (s *Service) DeleteTask(ctx context.Context, ref string) (storage.Task, error) {
	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return storage.Task{}, ErrSessionEnded
	}
	t, err := s.tasks.Resolve(ref)
	if err != nil {
		return storage.Task{}, err
	}
	from := s.tasks.Position(t.ID)
	if err := s.tasks.Delete(t.ID); err != nil {
		return storage.Task{}, err
	}
	s.persistTasks(ctx)
	s.pushTaskDelete(t.ID)
	s.pushPositions(from, s.tasks.Len()-1)
	s.log.Info("task deleted", "id", t.ID, "name", t.Name)
	return t, nil
}

// MoveTask reorders the list so the task at index from ends up at index to.
func (s *Service) MoveTask(ctx context.Context, from, to int) error {
	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if err := s.tasks.Move(from, to); err != nil {
		return ValidationError{Field: "position", Reason: err.Error()}
	}
	if from == to {
		return nil
	}
	s.persistTasks(ctx)
	s.pushPositions(min(from, to), max(from, to))
	s.log.Info("task moved", "from", from, "to", to)
	return nil
}

// pushPositions re-sends tasks in [lo, hi] whose stored position changed.
func (s *Service) pushPositions(lo, hi int) {
	tasks := s.tasks.List()
	for i := max(lo, 0); i <= hi && i < len(tasks); i++ {
		s.pushTask(tasks[i], i)
	}
}
