package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

var (
	ErrEncoding = errors.New("encoding failure")
	ErrDecoding = errors.New("decoding failure")
)

const (
	KeyTasks         = "tasks"
	KeyAccumulatedXP = "accumulatedXP"
	KeyLevel         = "level"
	KeyRewards       = "rewards"
	KeyLevelRewards  = "levelRewards"
	KeyEarnedXP      = "earnedXP"
	KeyLastSyncAt    = "lastSyncAt"
)

// Local is the on-device store. Loads never fail: a missing key or a value
// that cannot be decoded yields the default, and the problem is logged.
type Local struct {
	kv  *KV
	log *slog.Logger
}

func NewLocal(kv *KV, log *slog.Logger) *Local {
	if log == nil {
		log = slog.Default()
	}
	return &Local{kv: kv, log: log}
}

// EncodeTasks is the durable representation of a task list. Timestamps are
// normalized to UTC so the encoding does not depend on the caller's zone.
func EncodeTasks(tasks []Task) ([]byte, error) {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		c := t.Clone()
		c.LastCompletedAt = utcTime(c.LastCompletedAt)
		c.LastResetAt = utcTime(c.LastResetAt)
		c.NextDueAt = utcTime(c.NextDueAt)
		out[i] = c
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: tasks: %v", ErrEncoding, err)
	}
	return data, nil
}

func DecodeTasks(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %v", ErrDecoding, err)
	}
	return tasks, nil
}

func (l *Local) LoadTasks(ctx context.Context) []Task {
	data, ok := l.load(ctx, KeyTasks)
	if !ok {
		return []Task{}
	}
	tasks, err := DecodeTasks(data)
	if err != nil {
		l.log.Warn("local: falling back to empty task list", "error", err)
		return []Task{}
	}
	return tasks
}

func (l *Local) SaveTasks(ctx context.Context, tasks []Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, KeyTasks, data)
}

// LoadProgress reads level, accumulated and banked XP. An unset or invalid
// level reads as 1.
func (l *Local) LoadProgress(ctx context.Context) Progress {
	p := Progress{
		Level:         l.loadInt(ctx, KeyLevel),
		AccumulatedXP: l.loadInt(ctx, KeyAccumulatedXP),
		EarnedXP:      l.loadInt(ctx, KeyEarnedXP),
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p
}

func (l *Local) SaveProgress(ctx context.Context, p Progress) error {
	return l.kv.SetMany(ctx, map[string][]byte{
		KeyLevel:         []byte(strconv.Itoa(p.Level)),
		KeyAccumulatedXP: []byte(strconv.Itoa(p.AccumulatedXP)),
		KeyEarnedXP:      []byte(strconv.Itoa(p.EarnedXP)),
	})
}

// LoadCatalog returns the level -> reward mapping.
func (l *Local) LoadCatalog(ctx context.Context) map[int]string {
	out := map[int]string{}
	data, ok := l.load(ctx, KeyLevelRewards)
	if !ok {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		l.log.Warn("local: falling back to empty reward catalog", "error", fmt.Errorf("%w: %v", ErrDecoding, err))
		return map[int]string{}
	}
	return out
}

// LoadLegacyRewards returns the coarse rewards array (index level-1).
func (l *Local) LoadLegacyRewards(ctx context.Context) []string {
	data, ok := l.load(ctx, KeyRewards)
	if !ok {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		l.log.Warn("local: falling back to empty rewards array", "error", fmt.Errorf("%w: %v", ErrDecoding, err))
		return []string{}
	}
	return out
}

// SaveCatalog writes the catalog and the legacy rewards array together.
func (l *Local) SaveCatalog(ctx context.Context, catalog map[int]string, legacy []string) error {
	cat, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("%w: reward catalog: %v", ErrEncoding, err)
	}
	if legacy == nil {
		legacy = []string{}
	}
	arr, err := json.Marshal(legacy)
	if err != nil {
		return fmt.Errorf("%w: rewards: %v", ErrEncoding, err)
	}
	return l.kv.SetMany(ctx, map[string][]byte{
		KeyLevelRewards: cat,
		KeyRewards:      arr,
	})
}

func (l *Local) LoadLastSync(ctx context.Context) *time.Time {
	data, ok := l.load(ctx, KeyLastSyncAt)
	if !ok {
		return nil
	}
	secs, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		l.log.Warn("local: ignoring last sync timestamp", "error", fmt.Errorf("%w: %v", ErrDecoding, err))
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

func (l *Local) SaveLastSync(ctx context.Context, at time.Time) error {
	return l.kv.Set(ctx, KeyLastSyncAt, []byte(strconv.FormatInt(at.Unix(), 10)))
}

// Clear removes all cached user state, as on sign-out.
func (l *Local) Clear(ctx context.Context) error {
	return l.kv.DeleteMany(ctx,
		KeyTasks, KeyAccumulatedXP, KeyLevel, KeyRewards, KeyLevelRewards, KeyEarnedXP, KeyLastSyncAt)
}

func (l *Local) load(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := l.kv.Get(ctx, key)
	if err != nil {
		l.log.Warn("local: read failed, using default", "key", key, "error", err)
		return nil, false
	}
	return data, ok
}

func (l *Local) loadInt(ctx context.Context, key string) int {
	data, ok := l.load(ctx, key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		l.log.Warn("local: falling back to zero", "key", key, "error", fmt.Errorf("%w: %v", ErrDecoding, err))
		return 0
	}
	return n
}
