package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"xptrack/internal/storage"
)

// MaxTaskXP caps the XP a single task can grant.
const MaxTaskXP = 1000

type CreateTaskInput struct {
	Name      string
	XP        int
	Category  Category
	Frequency Frequency
	// ResetFrequencyDays overrides the frequency's day count when > 0.
	ResetFrequencyDays int
}

// NewTask validates in and returns a pending task with a fresh id.
func NewTask(in CreateTaskInput) (storage.Task, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return storage.Task{}, err
	}
	if err := validateXP(in.XP); err != nil {
		return storage.Task{}, err
	}
	cat := in.Category
	if cat == "" {
		cat = DefaultCategory
	}
	if !cat.IsValid() {
		return storage.Task{}, ValidationError{Field: "category", Reason: "unknown category " + string(cat)}
	}
	freq := in.Frequency
	if freq == 0 {
		freq = FrequencyDaily
	}
	if !freq.IsValid() {
		return storage.Task{}, ValidationError{Field: "frequency", Reason: "must be one of 1, 2, 3, 7, 30 days"}
	}
	days := in.ResetFrequencyDays
	if days == 0 {
		days = freq.Days()
	}
	if days < 1 {
		return storage.Task{}, ValidationError{Field: "reset days", Reason: "must be at least 1"}
	}

	return storage.Task{
		ID:                 uuid.NewString(),
		Name:               name,
		XPValue:            in.XP,
		Category:           string(cat),
		Frequency:          int(freq),
		ResetFrequencyDays: days,
	}, nil
}

// AddTask creates a task at the end of the list.
func (s *Service) AddTask(ctx context.Context, in CreateTaskInput) (storage.Task, error) {
	t, err := NewTask(in)
	if err != nil {
		return storage.Task{}, err
	}

	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return storage.Task{}, ErrSessionEnded
	}
	if err := s.tasks.Add(t); err != nil {
		return storage.Task{}, err
	}
	s.persistTasks(ctx)
	s.pushTask(t, s.tasks.Position(t.ID))
	s.log.Info("task added", "id", t.ID, "name", t.Name, "xp", t.XPValue)
	return t, nil
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ValidationError{Field: "name", Reason: "is required"}
	}
	return n, nil
}

func validateXP(xp int) error {
	if xp < 1 || xp > MaxTaskXP {
		return ValidationError{Field: "xp", Reason: "must be between 1 and " + strconv.Itoa(MaxTaskXP)}
	}
	return nil
}
