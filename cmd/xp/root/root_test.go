package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("xp %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XP_HOME", home)
	t.Setenv("XP_LOG_LEVEL", "error")
	configPath = ""
	return home
}

func setClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := clock
	clock = func() time.Time { return at }
	t.Cleanup(func() { clock = prev })
}

func TestOpeningBanksElapsedCycle(t *testing.T) {
	setupHome(t)
	setClock(t, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC))

	mustRun(t, "add", "Stretch", "--xp", "60")
	mustRun(t, "do", "1")

	setClock(t, time.Date(2024, 1, 4, 15, 0, 0, 0, time.UTC))
	out := mustRun(t, "sweep")
	if !strings.Contains(out, "Reset 1 task(s)") {
		t.Fatalf("sweep output:\n%s", out)
	}
	out = mustRun(t, "status")
	if !strings.Contains(out, "60/100 XP") {
		t.Fatalf("elapsed cycle XP lost:\n%s", out)
	}

	out = mustRun(t, "do", "1")
	if strings.Contains(out, "(-") {
		t.Fatalf("do after the reset unchecked the task:\n%s", out)
	}
	out = mustRun(t, "status")
	if !strings.Contains(out, "Lv 2") || !strings.Contains(out, "20/150 XP") {
		t.Fatalf("status after second cycle:\n%s", out)
	}
}

func TestTaskLifecycle(t *testing.T) {
	setupHome(t)

	mustRun(t, "add", "Morning", "run", "--xp", "60", "--category", "habits")
	mustRun(t, "add", "Pay bills", "--xp", "50", "--freq", "monthly", "-c", "finance")

	out := mustRun(t, "list")
	if !strings.Contains(out, "Morning run") || !strings.Contains(out, "Once a Month") {
		t.Fatalf("list output:\n%s", out)
	}

	mustRun(t, "reward", "set", "2", "Sushi", "dinner")
	mustRun(t, "do", "1")
	out = mustRun(t, "do", "2")
	if !strings.Contains(out, "Sushi dinner") {
		t.Fatalf("level-up reward not shown:\n%s", out)
	}

	out = mustRun(t, "status")
	if !strings.Contains(out, "Lv 2") {
		t.Fatalf("status output:\n%s", out)
	}

	mustRun(t, "mv", "2", "1")
	out = mustRun(t, "list")
	if strings.Index(out, "Pay bills") > strings.Index(out, "Morning run") {
		t.Fatalf("mv did not reorder:\n%s", out)
	}

	mustRun(t, "edit", "1", "--name", "Pay all bills")
	mustRun(t, "rm", "2")
	out = mustRun(t, "list")
	if strings.Contains(out, "Morning run") || !strings.Contains(out, "Pay all bills") {
		t.Fatalf("list after edit/rm:\n%s", out)
	}

	out = mustRun(t, "stats")
	if !strings.Contains(out, "Finance") {
		t.Fatalf("stats output:\n%s", out)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	setupHome(t)
	if _, err := run(t, "add", "x", "--xp", "0"); err == nil {
		t.Fatalf("add accepted zero XP")
	}
	if _, err := run(t, "add", "x", "--freq", "fortnightly"); err == nil {
		t.Fatalf("add accepted unknown frequency")
	}
	if _, err := run(t, "do", "nope"); err == nil {
		t.Fatalf("do accepted unknown task")
	}
}

func TestSyncThroughSQLiteRemote(t *testing.T) {
	home := setupHome(t)
	t.Setenv("XP_REMOTE_PATH", filepath.Join(home, "remote.db"))

	mustRun(t, "add", "Stretch", "--xp", "15")
	mustRun(t, "sync", "up")
	mustRun(t, "signout")

	out := mustRun(t, "list")
	if strings.Contains(out, "Stretch") {
		t.Fatalf("signout left local tasks:\n%s", out)
	}

	out = mustRun(t, "sync")
	if !strings.Contains(out, "1 task(s)") {
		t.Fatalf("sync down output:\n%s", out)
	}
	out = mustRun(t, "list")
	if !strings.Contains(out, "Stretch") {
		t.Fatalf("task not restored from remote:\n%s", out)
	}
}

func TestSyncWithoutRemote(t *testing.T) {
	setupHome(t)
	if _, err := run(t, "sync"); err == nil || !strings.Contains(err.Error(), "no remote") {
		t.Fatalf("sync err=%v, want no remote", err)
	}
}
