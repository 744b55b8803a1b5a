package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"xptrack/internal/storage"
)

// ProgressDoc is the coarse progress record. XP is the current-cycle
// accumulated XP; Rewards is the legacy array indexed by level-1.
type ProgressDoc struct {
	XP      int      `json:"xp"`
	Level   int      `json:"level"`
	Rewards []string `json:"rewards"`
}

// TaskDoc is the remote form of a task. Dates are seconds since the epoch.
type TaskDoc struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	XP                 int    `json:"xp"`
	Category           string `json:"category"`
	Frequency          int    `json:"frequency"`
	ResetFrequencyDays int    `json:"resetFrequencyDays"`
	Completed          bool   `json:"completed"`
	XPAwarded          bool   `json:"xpAwarded"`
	LastCompleted      *int64 `json:"lastCompleted,omitempty"`
	LastResetAt        *int64 `json:"lastResetAt,omitempty"`
	NextDueDate        *int64 `json:"nextDueDate,omitempty"`
	Position           int    `json:"position"`
}

type RewardDoc struct {
	Level  int    `json:"level"`
	Reward string `json:"reward"`
}

type BankedDoc struct {
	EarnedXP int `json:"earnedXP"`
}

func NewTaskDoc(t storage.Task, position int) TaskDoc {
	return TaskDoc{
		ID:                 t.ID,
		Name:               t.Name,
		XP:                 t.XPValue,
		Category:           t.Category,
		Frequency:          t.Frequency,
		ResetFrequencyDays: t.ResetFrequencyDays,
		Completed:          t.Completed,
		XPAwarded:          t.XPAwarded,
		LastCompleted:      toEpoch(t.LastCompletedAt),
		LastResetAt:        toEpoch(t.LastResetAt),
		NextDueDate:        toEpoch(t.NextDueAt),
		Position:           position,
	}
}

func (d TaskDoc) Task() storage.Task {
	return storage.Task{
		ID:                 d.ID,
		Name:               d.Name,
		XPValue:            d.XP,
		Category:           d.Category,
		Frequency:          d.Frequency,
		ResetFrequencyDays: d.ResetFrequencyDays,
		Completed:          d.Completed,
		XPAwarded:          d.XPAwarded,
		LastCompletedAt:    fromEpoch(d.LastCompleted),
		LastResetAt:        fromEpoch(d.LastResetAt),
		NextDueAt:          fromEpoch(d.NextDueDate),
	}
}

func toEpoch(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func fromEpoch(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

// Records is the typed view of one user's namespace:
//
//	users/{uid}/progress
//	users/{uid}/tasks/{taskID}
//	users/{uid}/rewards/{level}
//	users/{uid}/banked
//
// Every call is bounded by the configured timeout; a deadline surfaces as
// ErrUnavailable.
type Records struct {
	store   DocStore
	userID  string
	timeout time.Duration
}

func NewRecords(store DocStore, userID string, timeout time.Duration) *Records {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Records{store: store, userID: userID, timeout: timeout}
}

func (r *Records) UserID() string { return r.userID }

func (r *Records) path(parts ...string) string {
	p := "users/" + r.userID
	for _, s := range parts {
		p += "/" + s
	}
	return p
}

func (r *Records) Progress(ctx context.Context) (ProgressDoc, error) {
	var doc ProgressDoc
	err := r.getJSON(ctx, r.path("progress"), &doc)
	return doc, err
}

func (r *Records) SetProgress(ctx context.Context, doc ProgressDoc) error {
	if doc.Rewards == nil {
		doc.Rewards = []string{}
	}
	return r.setJSON(ctx, r.path("progress"), doc)
}

// Tasks returns the user's tasks ordered by position, then id.
func (r *Records) Tasks(ctx context.Context) ([]storage.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.store.List(ctx, r.path("tasks"))
	if err != nil {
		return nil, classify(err)
	}
	parsed := make([]TaskDoc, 0, len(docs))
	for _, d := range docs {
		var td TaskDoc
		if err := json.Unmarshal(d.Body, &td); err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", storage.ErrDecoding, d.Path, err)
		}
		if td.ID == "" {
			td.ID = d.Path[len(CollectionOf(d.Path))+1:]
		}
		parsed = append(parsed, td)
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].Position != parsed[j].Position {
			return parsed[i].Position < parsed[j].Position
		}
		return parsed[i].ID < parsed[j].ID
	})
	out := make([]storage.Task, 0, len(parsed))
	for _, td := range parsed {
		out = append(out, td.Task())
	}
	return out, nil
}

func (r *Records) SetTask(ctx context.Context, t storage.Task, position int) error {
	return r.setJSON(ctx, r.path("tasks", t.ID), NewTaskDoc(t, position))
}

func (r *Records) DeleteTask(ctx context.Context, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return classify(r.store.Delete(ctx, r.path("tasks", taskID)))
}

// Rewards returns the level -> reward mapping from the per-level sub-records.
func (r *Records) Rewards(ctx context.Context) (map[int]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.store.List(ctx, r.path("rewards"))
	if err != nil {
		return nil, classify(err)
	}
	out := make(map[int]string, len(docs))
	for _, d := range docs {
		var rd RewardDoc
		if err := json.Unmarshal(d.Body, &rd); err != nil {
			return nil, fmt.Errorf("%w: reward %s: %v", storage.ErrDecoding, d.Path, err)
		}
		if rd.Level < 1 {
			continue
		}
		out[rd.Level] = rd.Reward
	}
	return out, nil
}

func (r *Records) SetReward(ctx context.Context, level int, reward string) error {
	return r.setJSON(ctx, r.path("rewards", strconv.Itoa(level)), RewardDoc{Level: level, Reward: reward})
}

func (r *Records) Banked(ctx context.Context) (int, error) {
	var doc BankedDoc
	if err := r.getJSON(ctx, r.path("banked"), &doc); err != nil {
		return 0, err
	}
	return doc.EarnedXP, nil
}

func (r *Records) SetBanked(ctx context.Context, earnedXP int) error {
	return r.setJSON(ctx, r.path("banked"), BankedDoc{EarnedXP: earnedXP})
}

func (r *Records) getJSON(ctx context.Context, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := r.store.Get(ctx, path)
	if err != nil {
		return classify(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrDecoding, path, err)
	}
	return nil
}

func (r *Records) setJSON(ctx context.Context, path string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrEncoding, path, err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return classify(r.store.Set(ctx, path, body))
}

// classify folds every backend failure into ErrUnavailable so callers see one
// retryable kind. ErrNotFound passes through.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
