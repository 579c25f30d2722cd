package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

type server struct {
	logger  *slog.Logger
	engine  *engine.Engine
	catalog *catalog.Catalog
	cfg     config
	started time.Time
}

func newServer(logger *slog.Logger, eng *engine.Engine, cat *catalog.Catalog, cfg config) *server {
	return &server{logger: logger, engine: eng, catalog: cat, cfg: cfg, started: time.Now()}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	if s.cfg.Rate > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)))
	}

	r.Get("/health", s.health)
	r.Get("/tasks", s.listTasks)
	r.Get("/tasks/search", s.searchTasks)
	r.Post("/compute", s.compute)
	r.Post("/batch", s.batch)
	return r
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

// rateLimit rejects requests once the token bucket is empty.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "RateLimited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"tasks":  s.catalog.Len(),
	})
}

func (s *server) listTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tasks": s.engine.ListTasks()})
}

func (s *server) searchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, engine.KindInvalidRequest.String(), "query parameter q is required")
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, engine.KindInvalidRequest.String(), "limit must be a positive integer")
			return
		}
		limit = n
	}
	hits, err := s.catalog.Search(q, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SearchFailed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func (s *server) compute(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.engine.Compute(req)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) batch(w http.ResponseWriter, r *http.Request) {
	var req engine.BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": s.engine.ComputeBatch(req.Items)})
}

// decode reads exactly one JSON document with no unknown fields.
func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, engine.KindInvalidRequest.String(), fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, engine.KindInvalidRequest.String(), "invalid JSON: "+err.Error())
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, engine.KindInvalidRequest.String(), "invalid JSON: trailing data")
		return false
	}
	return true
}

func (s *server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var ee *engine.Error
	if !errors.As(err, &ee) {
		s.logger.Error("compute failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, engine.KindComputation.String(), err.Error())
		return
	}
	writeError(w, statusFor(ee.Kind), ee.Kind.String(), ee.Message)
}

func statusFor(k engine.Kind) int {
	switch k {
	case engine.KindUnsupportedOperation:
		return http.StatusNotFound
	case engine.KindComputation, engine.KindInvocationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]errorBody{"error": {Kind: kind, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
