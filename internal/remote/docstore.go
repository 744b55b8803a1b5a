// Package remote is the authoritative per-user document store the engine
// syncs against. Backends only move raw JSON documents around; Records adds
// the typed per-user layout on top.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when no document exists at the path.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable marks network/service failures and timeouts. Callers may retry.
	ErrUnavailable = errors.New("remote unavailable")
)

// Document is one stored document and its full path.
type Document struct {
	Path string
	Body []byte
}

// DocStore is a generic hierarchical document store. Paths are slash
// separated ("users/u1/tasks/t1"); a document's collection is its parent path.
type DocStore interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, body []byte) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, path string) error
	// List returns the documents directly inside collection, ordered by path.
	List(ctx context.Context, collection string) ([]Document, error)
}

// CleanPath validates a document or collection path and strips surrounding slashes.
func CleanPath(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid path %q", p)
		}
	}
	return p, nil
}

// CollectionOf returns the parent path of a document path.
func CollectionOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}
