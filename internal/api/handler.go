package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/engine"
	"github.com/gyaneshwarpardhi/pipetree/internal/graph"
	"github.com/gyaneshwarpardhi/pipetree/internal/metrics"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	graph  *graph.Service
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes. loader may be nil,
// in which case config reload is unavailable.
func New(eng *engine.Engine, svc *graph.Service, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, graph: svc, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/pipeline", h.getState)
	h.mux.HandleFunc("POST /v1/pipeline/update", h.update)
	h.mux.HandleFunc("POST /v1/pipeline/active", h.setActive)
	h.mux.HandleFunc("POST /v1/pipeline/visibility", h.setVisibility)
	h.mux.HandleFunc("POST /v1/pipeline/action", h.runAction)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

type activeRequest struct {
	IDs []string `json:"ids"`
}

type visibilityRequest struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
}

type actionRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// GET /v1/pipeline — current tree, selection and action map.
func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.eng.State(r.Context())
	respond(w, st, err)
}

// POST /v1/pipeline/update — re-synchronize from the graph service.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	st, err := h.eng.Update(r.Context())
	respond(w, st, err)
}

// POST /v1/pipeline/active — selection change.
func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.eng.SetActive(r.Context(), req.IDs)
	respond(w, st, err)
}

// POST /v1/pipeline/visibility — visibility toggle.
func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.eng.SetVisibility(r.Context(), req.ID, req.Visible)
	respond(w, st, err)
}

// POST /v1/pipeline/action — record action. Unknown actions are accepted and ignored.
func (h *Handler) runAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}
	action, _ := pipeline.ParseAction(req.Action)
	st, err := h.eng.Act(r.Context(), req.ID, action)
	respond(w, st, err)
}

// POST /v1/config/reload — re-read the pipeline file and reseed the graph.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotFound, "config reload is not enabled")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	st, err := h.eng.Do(r.Context(), Reseed(h.graph, cfg))
	respond(w, st, err)
}

// Reseed replaces the graph contents with cfg's sources and re-synchronizes.
func Reseed(svc *graph.Service, cfg *config.PipelineConfig) engine.Command {
	return engine.Command{Name: "reseed", Apply: func(b *pipeline.Browser) error {
		if _, err := svc.Load(cfg.Sources); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
		b.Update()
		return nil
	}}
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if command queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "request_id", reqID, "duration", time.Since(start))
	})
}
