package engine

import (
	"errors"
	"testing"

	"xptrack/internal/storage"
)

func TestMaxXPForLevel(t *testing.T) {
	cases := map[int]int{0: 100, 1: 100, 2: 150, 3: 200, 10: 550}
	for level, want := range cases {
		if got := MaxXPForLevel(level); got != want {
			t.Fatalf("MaxXPForLevel(%d)=%d, want %d", level, got, want)
		}
	}
}

func TestLedgerAwardCarriesRemainder(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 1, AccumulatedXP: 80}, nil)

	change := l.Award(130)
	if !change.LevelUp() || change.Before != 1 || change.After != 2 {
		t.Fatalf("change=%+v, want 1 -> 2", change)
	}
	if l.Total() != 110 || l.AccumulatedXP() != 110 || l.EarnedXP() != 0 {
		t.Fatalf("ledger=%+v, want 110 left in the current cycle", l.Progress())
	}
	if l.MaxXP() != 150 {
		t.Fatalf("MaxXP=%d, want 150", l.MaxXP())
	}
}

func TestLedgerAwardCrossesSeveralLevels(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 1}, nil)

	change := l.Award(100 + 150 + 5)
	if change.After != 3 {
		t.Fatalf("level=%d, want 3", change.After)
	}
	if l.Total() != 5 {
		t.Fatalf("total=%d, want 5", l.Total())
	}
}

func TestLedgerAwardBelowThreshold(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 2, AccumulatedXP: 20, EarnedXP: 30}, nil)
	if change := l.Award(99); change.LevelUp() {
		t.Fatalf("unexpected level up: %+v", change)
	}
	if l.AccumulatedXP() != 119 || l.EarnedXP() != 30 {
		t.Fatalf("ledger=%+v", l.Progress())
	}
}

func TestLedgerBankAndSettle(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 1, AccumulatedXP: 40}, nil)

	l.Settle(30)
	if l.AccumulatedXP() != 10 || l.EarnedXP() != 30 || l.Total() != 40 {
		t.Fatalf("after settle: %+v", l.Progress())
	}
	l.Settle(50)
	if l.AccumulatedXP() != 0 || l.EarnedXP() != 40 {
		t.Fatalf("settle should clamp to current cycle: %+v", l.Progress())
	}

	change := l.Bank(70)
	if change.After != 2 || l.EarnedXP() != 10 {
		t.Fatalf("bank: change=%+v ledger=%+v", change, l.Progress())
	}
}

func TestLedgerPromotePaysFromBankedFirst(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 1, AccumulatedXP: 10, EarnedXP: 70}, nil)

	change := l.Award(50)
	if change.After != 2 || l.EarnedXP() != 0 || l.AccumulatedXP() != 30 {
		t.Fatalf("change=%+v ledger=%+v, want banked spent first", change, l.Progress())
	}
	if got := l.Revoke(50); got != 30 || l.Total() != 0 {
		t.Fatalf("revoke removed %d, ledger=%+v", got, l.Progress())
	}
}

func TestLedgerRevokeClamps(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 3, AccumulatedXP: 15, EarnedXP: 7}, nil)

	if got := l.Revoke(10); got != 10 || l.AccumulatedXP() != 5 {
		t.Fatalf("revoke 10: got %d ledger=%+v", got, l.Progress())
	}
	if got := l.Revoke(50); got != 5 {
		t.Fatalf("revoke 50 removed %d, want 5", got)
	}
	if l.AccumulatedXP() != 0 || l.EarnedXP() != 7 || l.Level() != 3 {
		t.Fatalf("revoke must not touch level or banked XP: %+v", l.Progress())
	}
}

func TestLedgerRestoreNormalizes(t *testing.T) {
	l := NewLedger(storage.Progress{Level: 0, AccumulatedXP: -5, EarnedXP: -1}, nil)
	if p := l.Progress(); p.Level != 1 || p.AccumulatedXP != 0 || p.EarnedXP != 0 {
		t.Fatalf("progress=%+v", p)
	}
}

func TestRewardCatalogSetBackfills(t *testing.T) {
	c := NewRewardCatalog(nil)
	if err := c.Set(5, "trip"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("Len=%d, want 5", c.Len())
	}
	entries := c.Entries()
	for i := 0; i < 4; i++ {
		if entries[i].Level != i+1 || entries[i].Reward != "" {
			t.Fatalf("entry %d=%+v, want empty", i, entries[i])
		}
	}
	if entries[4].Reward != "trip" || c.Get(5) != "trip" || c.Get(2) != "" {
		t.Fatalf("entries=%+v", entries)
	}
	if legacy := c.Legacy(); len(legacy) != 5 || legacy[4] != "trip" {
		t.Fatalf("legacy=%q", legacy)
	}

	var verr ValidationError
	if err := c.Set(0, "x"); !errors.As(err, &verr) {
		t.Fatalf("Set(0) err=%v, want ValidationError", err)
	}
}

func TestCatalogFromLegacy(t *testing.T) {
	got := catalogFromLegacy([]string{"", "pizza", "", "movie"})
	if len(got) != 2 || got[2] != "pizza" || got[4] != "movie" {
		t.Fatalf("catalog=%v", got)
	}
}

func TestTaskStoreResolveAndMove(t *testing.T) {
	s := NewTaskStore([]storage.Task{
		{ID: "aaa111", Name: "a"},
		{ID: "aab222", Name: "b"},
		{ID: "ccc333", Name: "c"},
	})

	if got, err := s.Resolve("ccc"); err != nil || got.Name != "c" {
		t.Fatalf("Resolve(ccc)=%+v, %v", got, err)
	}
	if _, err := s.Resolve("aa"); err == nil {
		t.Fatalf("ambiguous prefix resolved")
	}
	if _, err := s.Resolve("zzz"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Resolve(zzz) err=%v, want ErrTaskNotFound", err)
	}

	if err := s.Move(0, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	assertOrder(t, s, "b", "c", "a")
	if err := s.Move(2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	assertOrder(t, s, "a", "b", "c")
	if err := s.Move(0, 3); err == nil {
		t.Fatalf("out-of-range move accepted")
	}

	if err := s.Delete("aab222"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	assertOrder(t, s, "a", "c")

	list := s.List()
	list[0].Name = "changed"
	if got, _ := s.Get("aaa111"); got.Name != "a" {
		t.Fatalf("List returned shared storage")
	}
}

func assertOrder(t *testing.T, s *TaskStore, names ...string) {
	t.Helper()
	list := s.List()
	if len(list) != len(names) {
		t.Fatalf("len=%d, want %d", len(list), len(names))
	}
	for i, want := range names {
		if list[i].Name != want {
			t.Fatalf("order=%v, want %v", taskNames(list), names)
		}
	}
}

func taskNames(tasks []storage.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func TestParseFrequencyAndCategory(t *testing.T) {
	if f, err := ParseFrequency("weekly"); err != nil || f != FrequencyWeekly {
		t.Fatalf("ParseFrequency(weekly)=%v, %v", f, err)
	}
	if f, err := ParseFrequency("30"); err != nil || f != FrequencyMonthly {
		t.Fatalf("ParseFrequency(30)=%v, %v", f, err)
	}
	if _, err := ParseFrequency("5"); err == nil {
		t.Fatalf("ParseFrequency(5) accepted")
	}
	if c, err := ParseCategory("finance"); err != nil || c != CategoryFinance {
		t.Fatalf("ParseCategory(finance)=%v, %v", c, err)
	}
	if c, _ := ParseCategory(""); c != DefaultCategory {
		t.Fatalf("empty category=%v, want default", c)
	}
	if FrequencyEveryOtherDay.String() != "Every Other Day" {
		t.Fatalf("String=%q", FrequencyEveryOtherDay.String())
	}
}
