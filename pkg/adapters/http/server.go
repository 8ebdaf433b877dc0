package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/aretw0/catsort/pkg/trigger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/html"
)

// DefaultView is the lock key used when a request names no view.
const DefaultView = "default"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Engine defines the catsort operations the HTTP adapter exposes.
type Engine interface {
	GroupDocument(ctx context.Context, source string, categories []domain.Category, src mapping.Source) (string, *domain.Report, error)
	Detect(root *html.Node) (*layout.Match, bool)
	Strategies() []layout.Kind
}

// Server serves the catsort HTTP API.
type Server struct {
	engine  Engine
	manager *trigger.Manager
	metrics http.Handler
	logger  *slog.Logger
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithManager serializes group requests per view through m.
func WithManager(m *trigger.Manager) Option {
	return func(s *Server) {
		s.manager = m
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.manager == nil {
		s.manager = trigger.NewManager(trigger.WithManagerLogger(s.logger))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/group", s.Group)
		r.Post("/detect", s.Detect)
		r.Post("/mapping", s.Mapping)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GroupRequest is the body of POST /v1/group.
type GroupRequest struct {
	HTML       string          `json:"html"`
	Categories json.RawMessage `json:"categories"`
	Mapping    mapping.Source  `json:"mapping"`
	// View keys the per-view lock; concurrent requests for one view run in turn.
	View string `json:"view,omitempty"`
}

// GroupResponse is the body returned by POST /v1/group.
type GroupResponse struct {
	HTML   string         `json:"html"`
	Report *domain.Report `json:"report"`
}

// DetectRequest is the body of POST /v1/detect.
type DetectRequest struct {
	HTML string `json:"html"`
}

// DetectResponse reports the detected layout.
type DetectResponse struct {
	Found      bool          `json:"found"`
	Layout     string        `json:"layout,omitempty"`
	Items      []int         `json:"items,omitempty"`
	Strategies []layout.Kind `json:"strategies"`
}

// MappingRequest is the body of POST /v1/mapping.
type MappingRequest struct {
	Mapping mapping.Source `json:"mapping"`
}

// MappingResponse is the normalized mapping.
type MappingResponse struct {
	Rules       []domain.GroupRule   `json:"rules"`
	Groups      []string             `json:"groups"`
	Diagnostics []mapping.Diagnostic `json:"diagnostics,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "catsort-http",
		"version": s.version,
	})
}

// Group handles POST /v1/group.
func (s *Server) Group(w http.ResponseWriter, r *http.Request) {
	var body GroupRequest
	if !s.decode(w, r, &body) {
		return
	}

	var cats []domain.Category
	if len(body.Categories) > 0 && string(body.Categories) != "null" {
		var err error
		if cats, err = domain.DecodeCategories(body.Categories); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	view := body.View
	if view == "" {
		view = DefaultView
	}

	var resp GroupResponse
	err := s.manager.WithLock(r.Context(), "view:"+view, func(ctx context.Context) error {
		out, report, err := s.engine.GroupDocument(ctx, body.HTML, cats, body.Mapping)
		resp = GroupResponse{HTML: out, Report: report}
		return err
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "Group error: "+err.Error(), status)
		s.logger.Error("Group failed", "view", view, "err", err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, resp)
}

// Detect handles POST /v1/detect.
func (s *Server) Detect(w http.ResponseWriter, r *http.Request) {
	var body DetectRequest
	if !s.decode(w, r, &body) {
		return
	}

	root, err := document.ParseString(body.HTML)
	if err != nil {
		http.Error(w, "Invalid HTML: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := DetectResponse{Strategies: s.engine.Strategies()}
	if m, ok := s.engine.Detect(root); ok {
		resp.Found = true
		resp.Layout = string(m.Kind)
		resp.Items = m.IDs
	}
	writeJSON(w, s.logger, http.StatusOK, resp)
}

// Mapping handles POST /v1/mapping.
func (s *Server) Mapping(w http.ResponseWriter, r *http.Request) {
	var body MappingRequest
	if !s.decode(w, r, &body) {
		return
	}

	m, diags := body.Mapping.Parse()
	writeJSON(w, s.logger, http.StatusOK, MappingResponse{
		Rules:       m.Rules(),
		Groups:      m.Groups(),
		Diagnostics: diags,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
