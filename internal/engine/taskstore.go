package engine

import (
	"fmt"
	"strings"

	"xptrack/internal/storage"
)

// TaskStore is the ordered in-memory task collection. It is not safe for
// concurrent use; Service owns it.
type TaskStore struct {
	tasks []storage.Task
}

func NewTaskStore(tasks []storage.Task) *TaskStore {
	s := &TaskStore{}
	s.Replace(tasks)
	return s
}

func (s *TaskStore) Len() int { return len(s.tasks) }

// List returns a copy of every task in display order.
func (s *TaskStore) List() []storage.Task {
	out := make([]storage.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *TaskStore) Replace(tasks []storage.Task) {
	s.tasks = make([]storage.Task, len(tasks))
	for i, t := range tasks {
		s.tasks[i] = t.Clone()
	}
}

func (s *TaskStore) Get(id string) (storage.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return storage.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Position returns the index of id, or -1.
func (s *TaskStore) Position(id string) int { return s.index(id) }

// Resolve finds a task by exact id or by a unique id prefix.
func (s *TaskStore) Resolve(ref string) (storage.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return storage.Task{}, fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}
	if t, ok := s.Get(ref); ok {
		return t, nil
	}
	match := -1
	for i, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return storage.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return storage.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	}
	return s.tasks[match].Clone(), nil
}

func (s *TaskStore) Add(t storage.Task) error {
	if s.index(t.ID) >= 0 {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	s.tasks = append(s.tasks, t.Clone())
	return nil
}

func (s *TaskStore) Update(t storage.Task) error {
	i := s.index(t.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
	}
	s.tasks[i] = t.Clone()
	return nil
}

func (s *TaskStore) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Move relocates the task at index from so it ends up at index to.
func (s *TaskStore) Move(from, to int) error {
	n := len(s.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d out of range (have %d tasks)", from, to, n)
	}
	if from == to {
		return nil
	}
	t := s.tasks[from]
	if from < to {
		copy(s.tasks[from:to], s.tasks[from+1:to+1])
	} else {
		copy(s.tasks[to+1:from+1], s.tasks[to:from])
	}
	s.tasks[to] = t
	return nil
}

func (s *TaskStore) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
