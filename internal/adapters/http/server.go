// Package http exposes layout editing sessions as a REST API with an SSE
// change feed, described by the embedded OpenAPI document.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/api"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/aretw0/lattice/pkg/session"
)

// maxDocumentBytes bounds import and mutation request bodies. Interactive
// input goes through the runner sanitizer with its own limit; documents
// may legitimately be much larger.
const maxDocumentBytes = 8 << 20

// errNothingToUndo and errNothingToRedo surface history floor/ceiling
// hits as conflicts instead of silent no-ops.
var (
	errNothingToUndo = errors.New("nothing to undo")
	errNothingToRedo = errors.New("nothing to redo")
)

// Server routes REST requests onto layout editing sessions.
type Server struct {
	sessions *session.Manager
	catalog  ports.WidgetCatalog
	library  ports.TemplateLibrary
	streams  *StreamManager
	metrics  http.Handler
	logger   *slog.Logger

	apiVersion string
}

// Option configures the Server.
type Option func(*Server)

// WithTemplateLibrary enables the template routes.
func WithTemplateLibrary(library ports.TemplateLibrary) Option {
	return func(s *Server) {
		s.library = library
	}
}

// WithMetrics mounts a Prometheus scrape endpoint at /metrics for the
// given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
}

// WithLogger sets a structured logger for request failures and the SSE
// stream lifecycle.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler over the given sessions.
func NewHandler(sessions *session.Manager, catalog ports.WidgetCatalog, opts ...Option) http.Handler {
	s := &Server{
		sessions:   sessions,
		catalog:    catalog,
		streams:    NewStreamManager(),
		logger:     logging.NewNop(),
		apiVersion: "unknown",
	}
	for _, opt := range opts {
		opt(s)
	}

	if doc, err := api.Document(context.Background()); err == nil {
		s.apiVersion = doc.Info.Version
	} else {
		s.logger.Warn("embedded OpenAPI document failed to load", "err", err)
	}

	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", s.getSpec)
	r.Get("/swagger", s.getSwagger)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.getCatalog)
		r.Get("/templates", s.getTemplates)
		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.listLayouts)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", s.exportLayout)
				r.Post("/", s.createLayout)
				r.Put("/", s.importLayout)
				r.Delete("/", s.deleteLayout)
				r.Post("/mutations", s.applyMutation)
				r.Post("/undo", s.undoLayout)
				r.Post("/redo", s.redoLayout)
				r.Get("/events", s.subscribeEvents)
			})
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles GET /info.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "lattice-http",
		"version":     strings.TrimSpace(lattice.Version),
		"api_version": s.apiVersion,
	})
}

// getSpec handles GET /openapi.yaml.
func (s *Server) getSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(api.Spec)
}

// getSwagger handles GET /swagger.
func (s *Server) getSwagger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(swaggerHTML))
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Lattice API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// CatalogEntry describes one palette widget for GET /api/catalog.
type CatalogEntry struct {
	Type        string            `json:"type"`
	DisplayName string            `json:"display_name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Container   bool              `json:"container"`
	Schema      map[string]string `json:"schema,omitempty"`
}

// getCatalog handles GET /api/catalog.
func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusOK, []CatalogEntry{})
		return
	}

	entries := make([]CatalogEntry, 0, s.catalog.Len())
	for _, widgetType := range s.catalog.Types() {
		widget, err := s.catalog.Get(widgetType)
		if err != nil {
			s.writeError(w, err)
			return
		}
		entry := CatalogEntry{
			Type:        widget.Type(),
			DisplayName: widget.DisplayName(),
			Description: widget.Description(),
			Icon:        widget.Icon(),
			Container:   widget.CanHaveChildren(),
		}
		if schema := widget.PropertySchema(); schema != nil {
			entry.Schema = make(map[string]string, len(schema))
			for name, typ := range schema {
				entry.Schema[name] = typ.Name()
			}
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, entries)
}

// getTemplates handles GET /api/templates.
func (s *Server) getTemplates(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if s.library != nil {
		listed, err := s.library.ListTemplates()
		if err != nil {
			s.writeError(w, err)
			return
		}
		if listed != nil {
			names = listed
		}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"templates": names})
}

// listLayouts handles GET /api/layouts.
func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	keys, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"layouts": keys,
		"active":  s.sessions.Active(),
	})
}

// exportLayout handles GET /api/layouts/{key}. Unlike the mutation routes
// it never materializes a session: unknown keys report 404.
func (s *Server) exportLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	snap, err := s.sessions.Snapshot(r.Context(), key)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var data []byte
	if isPretty(r) {
		data, err = codec.MarshalIndent(snap)
	} else {
		data, err = codec.Marshal(snap)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// createLayout handles POST /api/layouts/{key}: reset to empty, or
// instantiate from a template when the body names one.
func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Template string `json:"template"`
	}
	if r.Body != nil {
		// An empty body means an empty document.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			s.writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err))
			return
		}
	}

	var data []byte
	if req.Template != "" {
		if s.library == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no template library configured"})
			return
		}
		raw, err := s.library.GetTemplate(req.Template)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		data = raw
	}

	var rich *runner.RichResponse
	err := s.sessions.Update(r.Context(), key, func(ctx context.Context, ed ports.LayoutEditor) error {
		before := ed.Layout().Serialized()
		if data != nil {
			if err := ed.Import(ctx, data); err != nil {
				return err
			}
		} else if err := ed.Clear(ctx); err != nil {
			return err
		}
		s.broadcast(key, domain.Diff(before, ed.Layout().Serialized()))
		rich = runner.Describe(ed)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rich)
}

// importLayout handles PUT /api/layouts/{key}.
func (s *Server) importLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrDeserialization, err))
		return
	}

	var rich *runner.RichResponse
	err = s.sessions.Update(r.Context(), key, func(ctx context.Context, ed ports.LayoutEditor) error {
		before := ed.Layout().Serialized()
		if err := ed.Import(ctx, body); err != nil {
			return err
		}
		s.broadcast(key, domain.Diff(before, ed.Layout().Serialized()))
		rich = runner.Describe(ed)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rich)
}

// deleteLayout handles DELETE /api/layouts/{key}.
func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.sessions.Delete(r.Context(), key); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyMutation handles POST /api/layouts/{key}/mutations.
func (s *Server) applyMutation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var m domain.Mutation
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&m); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err))
		return
	}

	var rich *runner.RichResponse
	err := s.sessions.Update(r.Context(), key, func(ctx context.Context, ed ports.LayoutEditor) error {
		out, err := runner.ApplyAndDescribe(ctx, ed, m)
		if err != nil {
			return err
		}
		rich = out
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if rich.Result != nil {
		s.broadcast(key, rich.Result.Diff)
	}
	writeJSON(w, http.StatusOK, rich)
}

// undoLayout handles POST /api/layouts/{key}/undo.
func (s *Server) undoLayout(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, errNothingToUndo, runner.UndoAndDescribe)
}

// redoLayout handles POST /api/layouts/{key}/redo.
func (s *Server) redoLayout(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, errNothingToRedo, runner.RedoAndDescribe)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, floor error, move func(context.Context, ports.LayoutEditor) (*runner.RichResponse, bool)) {
	key := chi.URLParam(r, "key")

	var rich *runner.RichResponse
	err := s.sessions.Update(r.Context(), key, func(ctx context.Context, ed ports.LayoutEditor) error {
		before := ed.Layout().Serialized()
		out, ok := move(ctx, ed)
		if !ok {
			return floor
		}
		s.broadcast(key, domain.Diff(before, ed.Layout().Serialized()))
		rich = out
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rich)
}

// broadcast pushes a diff to the key's event subscribers. Nil and empty
// diffs are dropped.
func (s *Server) broadcast(key string, diff *domain.LayoutDiff) {
	if diff == nil || diff.IsEmpty() {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "key", key, "err", err)
		return
	}
	s.streams.Broadcast(key, string(data))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}

// writeError maps domain errors onto HTTP statuses: missing things are
// 404, invariant violations and parse failures are 400, id collisions and
// history floor/ceiling hits are 409, the rest is 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrWidgetNotFound), errors.Is(err, domain.ErrLayoutNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateWidget),
		errors.Is(err, errNothingToUndo), errors.Is(err, errNothingToRedo):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrInvalidLayout),
		errors.Is(err, domain.ErrDeserialization):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isPretty(r *http.Request) bool {
	switch r.URL.Query().Get("pretty") {
	case "1", "true", "yes":
		return true
	}
	return false
}
