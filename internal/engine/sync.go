package engine

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"xptrack/internal/remote"
	"xptrack/internal/storage"
)

const (
	recordProgress = "progress"
	recordTasks    = "tasks"
	recordRewards  = "rewards"
	recordBanked   = "banked"
)

// syncUpConcurrency bounds parallel writes during SyncUp.
const syncUpConcurrency = 8

// beginSync claims the in-flight flag. The caller must call endSync.
func (s *Service) beginSync() (*remote.Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	if s.records == nil {
		return nil, ErrNoRemote
	}
	if s.syncing {
		return nil, ErrSyncInProgress
	}
	s.syncing = true
	return s.records, nil
}

func (s *Service) endSync() {
	s.mu.Lock()
	s.syncing = false
	s.idle.Broadcast()
	s.mu.Unlock()
}

type pulled struct {
	progress remote.ProgressDoc
	tasks    []storage.Task
	rewards  map[int]string
	banked   int
	errs     map[string]error
}

// SyncDown pulls the four remote records in parallel and applies each one
// that was read successfully. A record that does not exist remotely leaves
// the local value in place. Failed reads are reported in a *SyncError; the
// reads that succeeded are kept. A second call while one is running fails
// with ErrSyncInProgress. Queued background writes land before the reads
// start, so the pull never returns state older than the local copy.
func (s *Service) SyncDown(ctx context.Context) ([]storage.Task, error) {
	rec, err := s.beginSync()
	if err != nil {
		return nil, err
	}
	defer s.endSync()
	s.pushes.wait()

	p := pulled{errs: make(map[string]error)}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	read := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				p.errs[name] = err
				mu.Unlock()
			}
		}()
	}
	read(recordProgress, func() (err error) {
		p.progress, err = rec.Progress(ctx)
		return err
	})
	read(recordTasks, func() (err error) {
		p.tasks, err = rec.Tasks(ctx)
		return err
	})
	read(recordRewards, func() (err error) {
		p.rewards, err = rec.Rewards(ctx)
		return err
	})
	read(recordBanked, func() (err error) {
		p.banked, err = rec.Banked(ctx)
		return err
	})
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		s.log.Info("sync down: session ended, discarding results", "user", rec.UserID())
		return nil, ErrSessionEnded
	}
	return s.applyPulled(ctx, p)
}

// applyPulled runs under mu.
func (s *Service) applyPulled(ctx context.Context, p pulled) ([]storage.Task, error) {
	failed := make(map[string]error)
	applied := 0
	ok := func(name string) bool {
		err := p.errs[name]
		switch {
		case err == nil:
			applied++
			return true
		case errors.Is(err, remote.ErrNotFound):
			s.log.Debug("sync down: record absent remotely", "record", name)
			return false
		default:
			failed[name] = err
			return false
		}
	}

	progress := s.ledger.Progress()
	progressChanged := false
	if ok(recordProgress) {
		progress.Level = p.progress.Level
		progress.AccumulatedXP = p.progress.XP
		progressChanged = true
	}
	if ok(recordBanked) {
		progress.EarnedXP = p.banked
		progressChanged = true
	}
	if progressChanged {
		s.ledger.Restore(progress)
		s.persistProgress(ctx)
	}

	// A user with no progress record has never pushed; empty collections
	// then mean "nothing remote yet" and must not wipe local state.
	fresh := errors.Is(p.errs[recordProgress], remote.ErrNotFound)

	if ok(recordTasks) && !(fresh && len(p.tasks) == 0) {
		s.tasks.Replace(p.tasks)
		s.persistTasks(ctx)
	}

	catalog := map[int]string(nil)
	if ok(recordRewards) {
		catalog = p.rewards
	}
	if len(catalog) == 0 && p.errs[recordProgress] == nil && len(p.progress.Rewards) > 0 {
		catalog = catalogFromLegacy(p.progress.Rewards)
	}
	if catalog != nil && !(fresh && len(catalog) == 0) {
		s.rewards.Replace(catalog)
		s.persistCatalog(ctx)
	}

	if applied > 0 {
		s.markSynced(ctx)
	}
	s.log.Info("sync down finished", "applied", applied, "failed", len(failed), "tasks", s.tasks.Len())

	tasks := s.tasks.List()
	if len(failed) > 0 {
		return tasks, &SyncError{Op: "sync down", Failed: failed}
	}
	return tasks, nil
}

// SyncUp pushes progress, banked XP, every reward and every task from a
// snapshot of local state. Writes run in parallel; a failed write does not
// stop its siblings and all failures are returned in a *SyncError.
func (s *Service) SyncUp(ctx context.Context) error {
	rec, err := s.beginSync()
	if err != nil {
		return err
	}
	defer s.endSync()
	// An older queued write must not land after the snapshot.
	s.pushes.wait()

	s.mu.Lock()
	tasks := s.tasks.List()
	progress := remote.ProgressDoc{
		XP:      s.ledger.AccumulatedXP(),
		Level:   s.ledger.Level(),
		Rewards: s.rewards.Legacy(),
	}
	earned := s.ledger.EarnedXP()
	rewards := s.rewards.Map()
	s.mu.Unlock()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed = make(map[string]error)
		sem    = make(chan struct{}, syncUpConcurrency)
		done   int
	)
	write := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			err := fn()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[name] = err
				return
			}
			done++
		}()
	}

	write(recordProgress, func() error { return rec.SetProgress(ctx, progress) })
	write(recordBanked, func() error { return rec.SetBanked(ctx, earned) })
	for level, reward := range rewards {
		write("reward:"+strconv.Itoa(level), func() error { return rec.SetReward(ctx, level, reward) })
	}
	for i, t := range tasks {
		write("task:"+t.ID, func() error { return rec.SetTask(ctx, t, i) })
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if done > 0 {
		s.markSynced(ctx)
	}
	s.log.Info("sync up finished", "written", done, "failed", len(failed))
	if len(failed) > 0 {
		return &SyncError{Op: "sync up", Failed: failed}
	}
	return nil
}

// markSynced runs under mu.
func (s *Service) markSynced(ctx context.Context) {
	at := s.now()
	s.lastSync = &at
	if err := s.local.SaveLastSync(ctx, at); err != nil {
		s.log.Warn("local: saving last sync time failed", "error", err)
		s.report(err)
	}
}
