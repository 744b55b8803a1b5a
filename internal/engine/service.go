package engine

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"xptrack/internal/remote"
	"xptrack/internal/storage"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	// UserID is the opaque authenticated user id that namespaces remote records.
	UserID string
	// Zone is the fixed scheduling time zone.
	Zone *time.Location
	// Remote is the authoritative document store; nil runs local-only.
	Remote        remote.DocStore
	RemoteTimeout time.Duration
	Clock         func() time.Time
	Logger        *slog.Logger
	// Notify receives failures of background remote writes and local
	// persistence. They never revert local state.
	Notify func(error)
}

// Service owns one user's session state: tasks, XP ledger and reward
// catalog. Every mutation is serialized through mu, writes local storage
// synchronously and pushes to the remote store in the background. A
// mutation issued while a sync is running waits for the sync to finish.
type Service struct {
	mu   sync.Mutex
	idle *sync.Cond

	local   *storage.Local
	records *remote.Records
	sched   Scheduler
	clock   func() time.Time
	log     *slog.Logger
	notify  func(error)

	tasks   *TaskStore
	ledger  *Ledger
	rewards *RewardCatalog

	lastSync *time.Time
	syncing  bool
	ended    bool

	pushes pushQueue
}

// NewService loads the local state and returns a session owner for it.
func NewService(ctx context.Context, local *storage.Local, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Service{
		local:  local,
		sched:  NewScheduler(opts.Zone),
		clock:  clock,
		log:    log,
		notify: opts.Notify,
	}
	s.idle = sync.NewCond(&s.mu)
	if opts.Remote != nil && opts.UserID != "" {
		s.records = remote.NewRecords(opts.Remote, opts.UserID, opts.RemoteTimeout)
	}

	s.tasks = NewTaskStore(local.LoadTasks(ctx))
	s.ledger = NewLedger(local.LoadProgress(ctx), log)
	catalog := local.LoadCatalog(ctx)
	if len(catalog) == 0 {
		catalog = catalogFromLegacy(local.LoadLegacyRewards(ctx))
	}
	s.rewards = NewRewardCatalog(catalog)
	s.lastSync = local.LoadLastSync(ctx)
	return s
}

// lockIdle acquires mu once no sync is in flight. Mutators use it instead of
// mu.Lock so their changes are neither overwritten by nor missing from a sync.
func (s *Service) lockIdle() {
	s.mu.Lock()
	for s.syncing {
		s.idle.Wait()
	}
}

// now is second-aligned so local and remote (epoch seconds) encodings agree.
func (s *Service) now() time.Time {
	return s.clock().Truncate(time.Second)
}

func (s *Service) Scheduler() Scheduler { return s.sched }

// HasRemote reports whether a remote store is configured.
func (s *Service) HasRemote() bool { return s.records != nil }

// Tasks returns a snapshot of the task list.
func (s *Service) Tasks() []storage.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.List()
}

// Task resolves ref (an id or unique id prefix).
func (s *Service) Task(ref string) (storage.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Resolve(ref)
}

// ProgressView is the read model for progress bars.
type ProgressView struct {
	Level         int
	AccumulatedXP int
	EarnedXP      int
	Total         int
	MaxXP         int
	Reward        string
}

func (s *Service) Progress() ProgressView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Service) progressLocked() ProgressView {
	return ProgressView{
		Level:         s.ledger.Level(),
		AccumulatedXP: s.ledger.AccumulatedXP(),
		EarnedXP:      s.ledger.EarnedXP(),
		Total:         s.ledger.Total(),
		MaxXP:         s.ledger.MaxXP(),
		Reward:        s.rewards.Get(s.ledger.Level()),
	}
}

// Rewards returns the catalog back-filled to its highest configured level.
func (s *Service) Rewards() []RewardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewards.Entries()
}

func (s *Service) Reward(level int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewards.Get(level)
}

// LastSync is the time of the last completed sync, or nil.
func (s *Service) LastSync() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSync == nil {
		return nil
	}
	t := *s.lastSync
	return &t
}

// SetReward stores reward text for level. The local write is authoritative;
// the remote write happens in the background and its failure is only reported.
func (s *Service) SetReward(ctx context.Context, level int, reward string) error {
	s.lockIdle()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if err := s.rewards.Set(level, reward); err != nil {
		return err
	}
	s.persistCatalog(ctx)
	s.pushReward(level, reward)
	s.pushProgress()
	return nil
}

// EndSession detaches the service from its user (sign-out). Background
// remote calls may still finish but nothing they return is applied.
func (s *Service) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

// Wait blocks until background remote writes have finished.
func (s *Service) Wait() {
	s.pushes.wait()
}

func (s *Service) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Service) report(err error) {
	if err == nil || s.notify == nil {
		return
	}
	s.notify(err)
}

// Persistence helpers; callers hold mu. Local failures are logged and
// reported but never returned.

func (s *Service) persistTasks(ctx context.Context) {
	if err := s.local.SaveTasks(ctx, s.tasks.List()); err != nil {
		s.log.Warn("local: saving tasks failed", "error", err)
		s.report(err)
	}
}

func (s *Service) persistProgress(ctx context.Context) {
	if err := s.local.SaveProgress(ctx, s.ledger.Progress()); err != nil {
		s.log.Warn("local: saving progress failed", "error", err)
		s.report(err)
	}
}

func (s *Service) persistCatalog(ctx context.Context) {
	if err := s.local.SaveCatalog(ctx, s.rewards.Map(), s.rewards.Legacy()); err != nil {
		s.log.Warn("local: saving reward catalog failed", "error", err)
		s.report(err)
	}
}

// Push helpers; callers hold mu so the payload is a consistent snapshot.

func (s *Service) push(record string, fn func(ctx context.Context, r *remote.Records) error) {
	if s.records == nil {
		return
	}
	rec := s.records
	s.pushes.enqueue(func() {
		err := fn(context.Background(), rec)
		if err == nil {
			return
		}
		if s.isEnded() {
			s.log.Debug("sync: dropping push result after session end", "record", record, "error", err)
			return
		}
		s.log.Warn("sync: push failed", "record", record, "error", err)
		s.report(err)
	})
}

// pushQueue runs background writes one at a time in submission order, so
// a later write of the same record never lands before an earlier one.
type pushQueue struct {
	mu   sync.Mutex
	jobs []func()
	// done is closed when the running drainer empties the queue; nil when idle.
	done chan struct{}
}

func (q *pushQueue) enqueue(job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	if q.done == nil {
		q.done = make(chan struct{})
		go q.drain(q.done)
	}
}

func (q *pushQueue) drain(done chan struct{}) {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.done = nil
			q.mu.Unlock()
			close(done)
			return
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// wait blocks until every job enqueued before the call has run.
func (q *pushQueue) wait() {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Service) pushTask(t storage.Task, position int) {
	t = t.Clone()
	s.push("task:"+t.ID, func(ctx context.Context, r *remote.Records) error {
		return r.SetTask(ctx, t, position)
	})
}

func (s *Service) pushTaskDelete(id string) {
	s.push("task:"+id, func(ctx context.Context, r *remote.Records) error {
		return r.DeleteTask(ctx, id)
	})
}

func (s *Service) pushProgress() {
	doc := remote.ProgressDoc{
		XP:      s.ledger.AccumulatedXP(),
		Level:   s.ledger.Level(),
		Rewards: s.rewards.Legacy(),
	}
	s.push("progress", func(ctx context.Context, r *remote.Records) error {
		return r.SetProgress(ctx, doc)
	})
}

func (s *Service) pushBanked() {
	earned := s.ledger.EarnedXP()
	s.push("banked", func(ctx context.Context, r *remote.Records) error {
		return r.SetBanked(ctx, earned)
	})
}

func (s *Service) pushReward(level int, reward string) {
	s.push("reward:"+strconv.Itoa(level), func(ctx context.Context, r *remote.Records) error {
		return r.SetReward(ctx, level, reward)
	})
}
