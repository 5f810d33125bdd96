// Package api exposes the explorer over HTTP: the page, event ingestion,
// state and view snapshots, and a server-sent view stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/config"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/engine"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/event"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/metrics"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/render"
)

const (
	maxEventBytes    = 64 << 10
	defaultKeepAlive = 15 * time.Second
	readyUtilization = 0.8
)

var validate = validator.New()

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng       *engine.Engine
	loader    *config.Loader
	log       *zap.Logger
	page      render.PageOptions
	shuffle   render.Shuffler
	keepAlive time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithShuffler replaces the subtopic shuffle used for the random order.
func WithShuffler(s render.Shuffler) Option {
	return func(h *Handler) { h.shuffle = s }
}

// WithKeepAlive sets the interval between stream keep-alive comments.
func WithKeepAlive(d time.Duration) Option {
	return func(h *Handler) { h.keepAlive = d }
}

// WithPage sets the page options.
func WithPage(p render.PageOptions) Option {
	return func(h *Handler) { h.page = p }
}

// New creates the HTTP handler and registers all routes. loader may be nil,
// in which case config reload is unavailable.
func New(eng *engine.Engine, loader *config.Loader, log *zap.Logger, opts ...Option) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		eng:       eng,
		loader:    loader,
		log:       log,
		page:      render.DefaultPageOptions(),
		shuffle:   render.Shuffle,
		keepAlive: defaultKeepAlive,
	}
	for _, o := range opts {
		o(h)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(log))
	if loader != nil {
		if origins := loader.Config().Server.AllowedOrigins; len(origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders: []string{"X-Request-ID"},
				MaxAge:         300,
			}))
		}
	}

	r.Get("/", h.index)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/events", h.ingestEvent)
		r.Get("/state", h.state)
		r.Get("/view", h.view)
		r.Get("/graph", h.graph)
		r.Get("/stream", h.stream)
		r.Post("/config/reload", h.reloadConfig)
	})
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// GET / serves the explorer page.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, h.page); err != nil {
		h.log.Error("render page", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to render page")
	}
}

type ingestResponse struct {
	EventID string      `json:"event_id"`
	Ignored bool        `json:"ignored,omitempty"`
	View    render.View `json:"view"`
}

// POST /v1/events: one boundary event. Synchronous kinds answer 200 with
// the resulting view; explorations answer 202 once loading is marked.
func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if err := validate.Struct(&ev); err != nil {
		writeError(w, r, http.StatusBadRequest, formatValidation(err))
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.ReceivedAt = time.Now()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = ev.ReceivedAt
	}

	st, err := h.eng.Handle(r.Context(), &ev)
	resp := ingestResponse{EventID: ev.ID, View: render.Project(st, h.shuffle)}
	switch {
	case err == nil && ev.IsExploration():
		writeJSON(w, http.StatusAccepted, resp)
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, event.ErrIgnored):
		resp.Ignored = true
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, event.ErrInvalid):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrBusy):
		writeError(w, r, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, engine.ErrPoolClosed), errors.Is(err, context.Canceled):
		writeError(w, r, http.StatusServiceUnavailable, "explorer is shutting down")
	default:
		h.log.Error("handle event", zap.String("event_id", ev.ID), zap.String("type", string(ev.Type)), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// GET /v1/state returns the raw State.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Store().State())
}

// GET /v1/view returns the projected View with the whole graph.
func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	st := h.eng.Store().State()
	v := render.Project(st, h.shuffle)
	full := render.Full(st)
	v.Graph = &full
	writeJSON(w, http.StatusOK, v)
}

// GET /v1/graph exports the graph as Cytoscape.js elements.
func (h *Handler) graph(w http.ResponseWriter, r *http.Request) {
	g := h.eng.Store().State().Graph
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="wiki-exploration-graph.json"`)
	}
	writeJSON(w, http.StatusOK, g.Cytoscape())
}

// POST /v1/config/reload re-reads the config file and applies it.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, r, http.StatusNotFound, "config reload is not available")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"version":  cfg.Version,
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the action queue is more than 80% full. The body also
// reports whether an exploration is in flight.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.Store().QueueUtilization()
	metrics.QueueUtilization.Set(util)
	exploring := h.eng.Loading()
	if util > readyUtilization {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":            "overloaded",
			"queue_utilization": util,
			"exploring":         exploring,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"queue_utilization": util,
		"exploring":         exploring,
	})
}

func formatValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return "invalid event: " + strings.Join(msgs, "; ")
}
