package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/widgets"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *session.Manager) {
	t.Helper()
	catalog := widgets.Standard()
	store := memory.NewStore()
	sessions := session.NewManager(store, func(initial *domain.Layout) (ports.LayoutEditor, error) {
		return lattice.New(lattice.WithLayout(initial), lattice.WithCatalog(catalog)), nil
	})
	return NewHandler(sessions, catalog, opts...), sessions
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) runner.RichResponse {
	t.Helper()
	var state runner.RichResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestHandler_HealthAndInfo(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, handler, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "lattice-http", info["app"])
	assert.NotEmpty(t, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"], "api version comes from the embedded spec")
}

func TestHandler_SpecAndSwagger(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = do(t, handler, http.MethodGet, "/swagger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandler_MutationFlow(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodPost, "/api/layouts/page/mutations",
		`{"op":"add_root","widget_type":"container.row"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decodeState(t, rec)
	require.NotNil(t, state.Result)
	assert.Equal(t, domain.OpAddRoot, state.Result.Op)
	assert.NotEmpty(t, state.Result.WidgetID)
	assert.Equal(t, 1, state.Widgets)
	assert.True(t, state.CanUndo)

	parent := string(state.Result.WidgetID)
	rec = do(t, handler, http.MethodPost, "/api/layouts/page/mutations",
		`{"op":"add_child","parent_id":"`+parent+`","widget_type":"text.heading"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeState(t, rec).Widgets)

	// The document is persisted and exportable.
	rec = do(t, handler, http.MethodGet, "/api/layouts/page", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc domain.SerializedLayout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, domain.FormatVersion, doc.Version)
	assert.Len(t, doc.Nodes, 2)

	// Undo steps back through both mutations, then hits the floor.
	rec = do(t, handler, http.MethodPost, "/api/layouts/page/undo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Widgets)

	rec = do(t, handler, http.MethodPost, "/api/layouts/page/undo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeState(t, rec).Widgets)

	rec = do(t, handler, http.MethodPost, "/api/layouts/page/undo", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, handler, http.MethodPost, "/api/layouts/page/redo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Widgets)
}

func TestHandler_ErrorMapping(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Missing widget is 404.
	rec := do(t, handler, http.MethodPost, "/api/layouts/page/mutations",
		`{"op":"remove","widget_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unknown op and malformed JSON are 400.
	rec = do(t, handler, http.MethodPost, "/api/layouts/page/mutations", `{"op":"tilt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, handler, http.MethodPost, "/api/layouts/page/mutations", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown layout key is 404 on export; exports never create sessions.
	rec = do(t, handler, http.MethodGet, "/api/layouts/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Redo with no future is a conflict.
	rec = do(t, handler, http.MethodPost, "/api/layouts/page/redo", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_ImportExport(t *testing.T) {
	handler, _ := newTestHandler(t)

	doc := `{
		"version": "1.0",
		"root_nodes": ["hero"],
		"nodes": {
			"hero": {"config": {"widget_type": "text.heading"}, "children": [], "parent": null}
		},
		"metadata": {}
	}`
	rec := do(t, handler, http.MethodPut, "/api/layouts/draft", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decodeState(t, rec)
	assert.Equal(t, 1, state.Widgets)
	assert.True(t, state.CanUndo, "import keeps the previous version undoable")

	// A structurally invalid document is rejected without touching the
	// current one.
	rec = do(t, handler, http.MethodPut, "/api/layouts/draft",
		`{"version":"1.0","root_nodes":["ghost"],"nodes":{},"metadata":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, handler, http.MethodGet, "/api/layouts/draft?pretty=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n"), "pretty export is indented")
	assert.Contains(t, rec.Body.String(), "hero")
}

func TestHandler_CreateFromTemplate(t *testing.T) {
	page := domain.NewLayout()
	require.NoError(t, page.AddRootWidget("hero", domain.NewWidgetConfig("text.heading")))
	library, err := memory.NewLibraryFromLayouts(map[string]*domain.Layout{"landing": page})
	require.NoError(t, err)

	handler, sessions := newTestHandler(t, WithTemplateLibrary(library))

	rec := do(t, handler, http.MethodPost, "/api/layouts/page", `{"template":"landing"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeState(t, rec).Widgets)

	snap, err := sessions.Snapshot(context.Background(), "page")
	require.NoError(t, err)
	assert.True(t, snap.Has("hero"))

	rec = do(t, handler, http.MethodPost, "/api/layouts/page", `{"template":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// An empty body resets to an empty document.
	rec = do(t, handler, http.MethodPost, "/api/layouts/page", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, 0, state.Widgets)
	assert.False(t, state.CanUndo, "create restarts history")
}

func TestHandler_CreateWithoutLibrary(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec := do(t, handler, http.MethodPost, "/api/layouts/page", `{"template":"landing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CatalogAndTemplates(t *testing.T) {
	library, err := memory.NewLibraryFromLayouts(map[string]*domain.Layout{"landing": domain.NewLayout()})
	require.NoError(t, err)
	handler, _ := newTestHandler(t, WithTemplateLibrary(library))

	rec := do(t, handler, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []CatalogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, widgets.Standard().Types()[0], entries[0].Type, "palette order is preserved")

	byType := map[string]CatalogEntry{}
	for _, e := range entries {
		byType[e.Type] = e
	}
	assert.True(t, byType["container.row"].Container)
	assert.NotEmpty(t, byType["text.heading"].Schema)

	rec = do(t, handler, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"templates":["landing"]}`, rec.Body.String())
}

func TestHandler_ListAndDelete(t *testing.T) {
	handler, _ := newTestHandler(t)

	do(t, handler, http.MethodPost, "/api/layouts/one/mutations",
		`{"op":"add_root","widget_type":"basic.button"}`)

	rec := do(t, handler, http.MethodGet, "/api/layouts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Contains(t, listing["layouts"], "one")
	assert.Contains(t, listing["active"], "one")

	rec = do(t, handler, http.MethodDelete, "/api/layouts/one", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, handler, http.MethodGet, "/api/layouts/one", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	catalog := widgets.Standard()
	sessions := session.NewManager(memory.NewStore(), func(initial *domain.Layout) (ports.LayoutEditor, error) {
		return lattice.New(
			lattice.WithLayout(initial),
			lattice.WithCatalog(catalog),
			lattice.WithHooks(metrics.Hooks()),
		), nil
	})
	handler := NewHandler(sessions, catalog, WithMetrics(reg))

	do(t, handler, http.MethodPost, "/api/layouts/page/mutations",
		`{"op":"add_root","widget_type":"basic.button"}`)

	rec := do(t, handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lattice_editor_mutations_total{op="add_root"} 1`)
}

func TestHandler_MetricsDisabledByDefault(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec := do(t, handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec := do(t, handler, http.MethodOptions, "/api/layouts/page/mutations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_EventStream(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/layouts/page/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readFrame := func() []string {
		t.Helper()
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			if line == "" {
				return lines
			}
			lines = append(lines, line)
		}
	}

	// The handshake ping confirms the subscription is registered before we
	// mutate.
	frame := readFrame()
	require.Contains(t, frame, "event: ping")

	rec, err := http.Post(srv.URL+"/api/layouts/page/mutations", "application/json",
		strings.NewReader(`{"op":"add_root","widget_type":"basic.button"}`))
	require.NoError(t, err)
	rec.Body.Close()
	require.Equal(t, http.StatusOK, rec.StatusCode)

	frame = readFrame()
	require.NotEmpty(t, frame)
	require.True(t, strings.HasPrefix(frame[0], "data: "), "got frame: %v", frame)

	var diff domain.LayoutDiff
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame[0], "data: ")), &diff))
	assert.Len(t, diff.Added, 1)
	assert.True(t, diff.RootsChanged)
}
