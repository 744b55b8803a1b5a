package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxDocumentSize = 1 << 20

// Server exposes a DocStore over HTTP.
type Server struct {
	store      DocStore
	log        *slog.Logger
	httpServer *http.Server
}

func NewServer(store DocStore, addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: store, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/docs/*", s.handleGet)
	r.Put("/v1/docs/*", s.handlePut)
	r.Delete("/v1/docs/*", s.handleDelete)
	r.Get("/v1/collections/*", s.handleList)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Info("document server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pathParam(w, r)
	if !ok {
		return
	}
	body, err := s.store.Get(r.Context(), p)
	if err != nil {
		s.writeStoreError(w, "get", p, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pathParam(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize+1))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > maxDocumentSize {
		http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "document must be JSON", http.StatusBadRequest)
		return
	}
	if err := s.store.Set(r.Context(), p, body); err != nil {
		s.writeStoreError(w, "set", p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pathParam(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), p); err != nil {
		s.writeStoreError(w, "delete", p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c, ok := s.pathParam(w, r)
	if !ok {
		return
	}
	docs, err := s.store.List(r.Context(), c)
	if err != nil {
		s.writeStoreError(w, "list", c, err)
		return
	}
	out := make([]listEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, listEntry{Path: d.Path, Body: json.RawMessage(d.Body)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pathParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return "", false
	}
	p, err := CleanPath(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return p, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, op, path string, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.log.Warn("document server: store failed", "op", op, "path", path, "error", err)
	http.Error(w, "store failure", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
