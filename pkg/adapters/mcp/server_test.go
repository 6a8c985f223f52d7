package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/aretw0/lattice/pkg/widgets"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	catalog := widgets.Standard()
	store := memory.NewStore()
	sessions := session.NewManager(store, func(initial *domain.Layout) (ports.LayoutEditor, error) {
		return lattice.New(lattice.WithLayout(initial), lattice.WithCatalog(catalog)), nil
	})
	return NewServer(sessions, catalog, opts...)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest, map[string]any) (LayoutResponse, error), args map[string]any) LayoutResponse {
	t.Helper()
	resp, err := handler(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	return resp
}

func TestServer_WidgetAddAndUpdate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp := call(t, s.handleWidgetAdd, map[string]any{"type": "container.row"})
	require.NotNil(t, resp.Result)
	assert.Equal(t, domain.OpAddRoot, resp.Result.Op)
	assert.Equal(t, 1, resp.Widgets)
	assert.True(t, resp.CanUndo)

	parent := string(resp.Result.WidgetID)
	resp = call(t, s.handleWidgetAdd, map[string]any{
		"type":       "text.heading",
		"parent":     parent,
		"properties": `{"content":"Welcome","level":2}`,
	})
	assert.Equal(t, domain.OpAddChild, resp.Result.Op)
	assert.Equal(t, 2, resp.Widgets)

	childID := resp.Result.WidgetID
	resp = call(t, s.handleWidgetUpdate, map[string]any{
		"widget_id":  string(childID),
		"properties": `{"content":"Hello"}`,
		"styles":     `{"color":"#0f172a"}`,
		"classes":    `["title"]`,
	})
	assert.Equal(t, domain.OpUpdateConfig, resp.Result.Op)

	// The merge is visible in the session's document.
	snap, err := s.sessions.Snapshot(ctx, DefaultLayoutKey)
	require.NoError(t, err)
	node, ok := snap.Widget(childID)
	require.True(t, ok)
	assert.Equal(t, "Hello", node.Config.Properties["content"])
	assert.Equal(t, float64(2), node.Config.Properties["level"], "earlier overrides survive the merge")
	assert.Equal(t, "#0f172a", node.Config.InlineStyles["color"])
	assert.Equal(t, []string{"title"}, node.Config.CSSClasses)
}

func TestServer_WidgetAddPositionInserts(t *testing.T) {
	s := newTestServer(t)

	first := call(t, s.handleWidgetAdd, map[string]any{"type": "text.paragraph"})
	second := call(t, s.handleWidgetAdd, map[string]any{
		"type":     "text.heading",
		"position": float64(0),
	})
	assert.Equal(t, domain.OpInsertRoot, second.Result.Op)

	snap, err := s.sessions.Snapshot(context.Background(), DefaultLayoutKey)
	require.NoError(t, err)
	roots := snap.RootWidgets()
	require.Len(t, roots, 2)
	assert.Equal(t, second.Result.WidgetID, roots[0])
	assert.Equal(t, first.Result.WidgetID, roots[1])
}

func TestServer_WidgetMoveAndRemove(t *testing.T) {
	s := newTestServer(t)

	a := call(t, s.handleWidgetAdd, map[string]any{"type": "text.paragraph"})
	b := call(t, s.handleWidgetAdd, map[string]any{"type": "text.heading"})

	resp := call(t, s.handleWidgetMove, map[string]any{
		"widget_id": string(b.Result.WidgetID),
		"direction": "up",
	})
	assert.Equal(t, domain.OpMoveUp, resp.Result.Op)

	snap, err := s.sessions.Snapshot(context.Background(), DefaultLayoutKey)
	require.NoError(t, err)
	assert.Equal(t, b.Result.WidgetID, snap.RootWidgets()[0])

	resp = call(t, s.handleWidgetRemove, map[string]any{"widget_id": string(a.Result.WidgetID)})
	assert.Equal(t, 1, resp.Widgets)

	_, err = s.handleWidgetMove(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"widget_id": string(b.Result.WidgetID),
		"direction": "sideways",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direction")
}

func TestServer_UndoRedo(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleUndo(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.Error(t, err, "fresh document has nothing to undo")

	call(t, s.handleWidgetAdd, map[string]any{"type": "basic.button"})

	resp := call(t, s.handleUndo, map[string]any{})
	assert.Equal(t, 0, resp.Widgets)
	assert.True(t, resp.CanRedo)

	resp = call(t, s.handleRedo, map[string]any{})
	assert.Equal(t, 1, resp.Widgets)
}

func TestServer_ExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t)

	call(t, s.handleWidgetAdd, map[string]any{"type": "container.card"})
	exported := call(t, s.handleExport, map[string]any{"pretty": true})
	require.NotEmpty(t, exported.Document)

	layout, err := codec.Unmarshal(exported.Document)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.WidgetCount())

	// Import into a different session key.
	resp := call(t, s.handleImport, map[string]any{
		"layout":   "copy",
		"document": string(exported.Document),
	})
	assert.Equal(t, 1, resp.Widgets)
	assert.True(t, resp.CanUndo, "import keeps the previous version undoable")
}

func TestServer_CreateFromTemplate(t *testing.T) {
	page := domain.NewLayout()
	require.NoError(t, page.AddRootWidget("hero", domain.NewWidgetConfig("text.heading")))
	library, err := memory.NewLibraryFromLayouts(map[string]*domain.Layout{"landing": page})
	require.NoError(t, err)

	s := newTestServer(t, WithTemplateLibrary(library))

	resp := call(t, s.handleCreate, map[string]any{"template": "landing", "layout": "page-1"})
	assert.Equal(t, 1, resp.Widgets)

	snap, err := s.sessions.Snapshot(context.Background(), "page-1")
	require.NoError(t, err)
	assert.True(t, snap.Has("hero"))

	_, err = s.handleCreate(context.Background(), mcp.CallToolRequest{}, map[string]any{"template": "missing"})
	require.Error(t, err)
}

func TestServer_CreateResetsDocument(t *testing.T) {
	s := newTestServer(t)

	call(t, s.handleWidgetAdd, map[string]any{"type": "basic.button"})
	resp := call(t, s.handleCreate, map[string]any{})
	assert.Equal(t, 0, resp.Widgets)
	assert.False(t, resp.CanUndo, "create restarts history")
}

func TestServer_CatalogEntries(t *testing.T) {
	s := newTestServer(t)

	entries, err := s.catalogEntries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	types := make([]string, len(entries))
	byType := map[string]CatalogEntry{}
	for i, e := range entries {
		types[i] = e.Type
		byType[e.Type] = e
	}
	assert.Equal(t, s.catalog.Types(), types, "palette order is preserved")

	row := byType["container.row"]
	assert.Equal(t, "Row Container", row.DisplayName)
	assert.True(t, row.Container)

	heading := byType["text.heading"]
	assert.False(t, heading.Container)
	assert.NotEmpty(t, heading.Schema, "standard widgets declare property schemas")

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.Contains(t, string(data), "basic.button")
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, DefaultLayoutKey, sessionKey(map[string]any{}))
	assert.Equal(t, DefaultLayoutKey, sessionKey(map[string]any{"layout": ""}))
	assert.Equal(t, "draft", sessionKey(map[string]any{"layout": "draft"}))
}

func TestNumberArg(t *testing.T) {
	if n, ok := numberArg(map[string]any{"position": float64(3)}, "position"); assert.True(t, ok) {
		assert.Equal(t, 3, n)
	}
	if n, ok := numberArg(map[string]any{"position": "2"}, "position"); assert.True(t, ok) {
		assert.Equal(t, 2, n)
	}
	_, ok := numberArg(map[string]any{}, "position")
	assert.False(t, ok)
}
