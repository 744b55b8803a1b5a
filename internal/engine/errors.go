package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"xptrack/internal/remote"
	"xptrack/internal/storage"
)

var (
	// ErrSyncInProgress is returned when a sync is requested while another is
	// running. Callers should retry later.
	ErrSyncInProgress = errors.New("sync in progress")
	ErrTaskNotFound   = errors.New("task not found")
	// ErrSessionEnded is returned by mutations after EndSession.
	ErrSessionEnded = errors.New("session ended")
	// ErrNoRemote is returned by sync operations when no remote store is configured.
	ErrNoRemote = errors.New("no remote store configured")

	ErrRemoteUnavailable = remote.ErrUnavailable
	ErrEncodingFailure   = storage.ErrEncoding
	ErrDecodingFailure   = storage.ErrDecoding
)

// ValidationError reports bad task or reward input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SyncError lists which records of a sync run failed. Records that succeeded
// were applied regardless.
type SyncError struct {
	Op     string
	Failed map[string]error
}

func (e *SyncError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failed[name]))
	}
	return fmt.Sprintf("%s failed for %d record(s): %s", e.Op, len(e.Failed), strings.Join(parts, "; "))
}

func (e *SyncError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		out = append(out, err)
	}
	return out
}
