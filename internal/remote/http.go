package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClientTimeout bounds every HTTP round trip.
const DefaultClientTimeout = 10 * time.Second

// HTTPStore is a DocStore client for the document service exposed by Server.
type HTTPStore struct {
	base   string
	client *http.Client
}

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type listEntry struct {
	Path string          `json:"path"`
	Body json.RawMessage `json:"body"`
}

func (h *HTTPStore) Get(ctx context.Context, path string) ([]byte, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	return h.do(ctx, http.MethodGet, "/v1/docs/"+escapePath(p), nil)
}

func (h *HTTPStore) Set(ctx context.Context, path string, body []byte) error {
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	_, err = h.do(ctx, http.MethodPut, "/v1/docs/"+escapePath(p), body)
	return err
}

func (h *HTTPStore) Delete(ctx context.Context, path string) error {
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	_, err = h.do(ctx, http.MethodDelete, "/v1/docs/"+escapePath(p), nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (h *HTTPStore) List(ctx context.Context, collection string) ([]Document, error) {
	c, err := CleanPath(collection)
	if err != nil {
		return nil, err
	}
	data, err := h.do(ctx, http.MethodGet, "/v1/collections/"+escapePath(c), nil)
	if err != nil {
		return nil, err
	}
	var entries []listEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	out := make([]Document, 0, len(entries))
	for _, e := range entries {
		out = append(out, Document{Path: e.Path, Body: []byte(e.Body)})
	}
	return out, nil
}

func (h *HTTPStore) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s %s (%d): %s", ErrUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("remote error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
