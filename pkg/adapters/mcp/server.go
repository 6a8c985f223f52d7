// Package mcp exposes the layout editor as a Model Context Protocol
// server, so agent hosts can create, mutate and export documents through
// typed tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/aretw0/lattice/pkg/session"
)

// DefaultLayoutKey is the session key used when a tool call does not name
// a layout.
const DefaultLayoutKey = "default"

// LayoutResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type LayoutResponse struct {
	Result   *domain.MutationResult `json:"result,omitempty" jsonschema_description:"What the mutation changed"`
	Document json.RawMessage        `json:"document,omitempty" jsonschema_description:"The serialized layout document"`
	Widgets  int                    `json:"widgets" jsonschema_description:"Number of widgets in the document"`
	CanUndo  bool                   `json:"can_undo" jsonschema_description:"Whether undo is available"`
	CanRedo  bool                   `json:"can_redo" jsonschema_description:"Whether redo is available"`
}

// CatalogEntry describes one palette widget for catalog_list.
type CatalogEntry struct {
	Type        string            `json:"type"`
	DisplayName string            `json:"display_name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Container   bool              `json:"container"`
	Schema      map[string]string `json:"schema,omitempty"`
}

// Server wraps a session manager and exposes layout editing as an MCP Server.
type Server struct {
	sessions  *session.Manager
	catalog   ports.WidgetCatalog
	library   ports.TemplateLibrary
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithTemplateLibrary enables layout_create's template argument.
func WithTemplateLibrary(library ports.TemplateLibrary) Option {
	return func(s *Server) {
		s.library = library
	}
}

// NewServer creates a new MCP Server instance over the given sessions.
func NewServer(sessions *session.Manager, catalog ports.WidgetCatalog, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		catalog:   catalog,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: layout_create
	createTool := mcp.NewTool("layout_create",
		mcp.WithDescription("Create or reset a layout document. With a template name, the document is instantiated from the template library instead of starting empty."),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithString("template", mcp.Description("Template name to instantiate (optional)")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreate))

	// TOOL: widget_add
	addTool := mcp.NewTool("widget_add",
		mcp.WithDescription("Add a widget to the document: at top level, or inside a container parent. Position inserts at an index instead of appending."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Widget type tag from the catalog (e.g. \"text.heading\")")),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithString("parent", mcp.Description("Parent widget ID; omit for a top-level widget")),
		mcp.WithNumber("position", mcp.Description("Insertion index among siblings; omit to append")),
		mcp.WithString("properties", mcp.Description("JSON object of properties overriding the catalog defaults")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(addTool, mcp.NewStructuredToolHandler(s.handleWidgetAdd))

	// TOOL: widget_update
	updateTool := mcp.NewTool("widget_update",
		mcp.WithDescription("Merge properties, styles and classes into a widget's configuration as a single undoable change."),
		mcp.WithString("widget_id", mcp.Required(), mcp.Description("Widget ID to update")),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithString("properties", mcp.Description("JSON object of properties to merge")),
		mcp.WithString("styles", mcp.Description("JSON object of inline styles to merge")),
		mcp.WithString("classes", mcp.Description("JSON array replacing the CSS class list")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(updateTool, mcp.NewStructuredToolHandler(s.handleWidgetUpdate))

	// TOOL: widget_remove
	removeTool := mcp.NewTool("widget_remove",
		mcp.WithDescription("Remove a widget and its whole subtree."),
		mcp.WithString("widget_id", mcp.Required(), mcp.Description("Widget ID to remove")),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(removeTool, mcp.NewStructuredToolHandler(s.handleWidgetRemove))

	// TOOL: widget_move
	moveTool := mcp.NewTool("widget_move",
		mcp.WithDescription("Move a widget up or down among its siblings."),
		mcp.WithString("widget_id", mcp.Required(), mcp.Description("Widget ID to move")),
		mcp.WithString("direction", mcp.Required(), mcp.Description("\"up\" or \"down\"")),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(moveTool, mcp.NewStructuredToolHandler(s.handleWidgetMove))

	// TOOL: layout_undo / layout_redo
	undoTool := mcp.NewTool("layout_undo",
		mcp.WithDescription("Step the document back one version."),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(undoTool, mcp.NewStructuredToolHandler(s.handleUndo))

	redoTool := mcp.NewTool("layout_redo",
		mcp.WithDescription("Replay one undone document version."),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(redoTool, mcp.NewStructuredToolHandler(s.handleRedo))

	// TOOL: layout_export
	exportTool := mcp.NewTool("layout_export",
		mcp.WithDescription("Export the document as canonical layout JSON."),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithBoolean("pretty", mcp.Description("Pretty-print the JSON")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(exportTool, mcp.NewStructuredToolHandler(s.handleExport))

	// TOOL: layout_import
	importTool := mcp.NewTool("layout_import",
		mcp.WithDescription("Replace the document with serialized layout JSON. The previous version stays undoable."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Serialized layout JSON")),
		mcp.WithString("layout", mcp.Description("Layout key (defaults to \"default\")")),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(importTool, mcp.NewStructuredToolHandler(s.handleImport))

	// TOOL: catalog_list
	s.mcpServer.AddTool(mcp.NewTool("catalog_list",
		mcp.WithDescription("List the widget palette: every registered widget type with its defaults and property schema."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := s.catalogEntries()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("catalog inspection failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(entries)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	key := sessionKey(args)

	var data []byte
	if templateName, _ := args["template"].(string); templateName != "" {
		if s.library == nil {
			return LayoutResponse{}, fmt.Errorf("no template library configured")
		}
		raw, err := s.library.GetTemplate(templateName)
		if err != nil {
			return LayoutResponse{}, fmt.Errorf("template lookup failed: %w", err)
		}
		data = raw
	}

	var out LayoutResponse
	err := s.sessions.Update(ctx, key, func(ctx context.Context, ed ports.LayoutEditor) error {
		if data != nil {
			if err := ed.Import(ctx, data); err != nil {
				return err
			}
		} else if err := ed.Clear(ctx); err != nil {
			return err
		}
		out = describe(ed, nil)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("create failed: %w", err)
	}
	return out, nil
}

func (s *Server) handleWidgetAdd(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	widgetType, _ := args["type"].(string)
	if widgetType == "" {
		return LayoutResponse{}, fmt.Errorf("type is required")
	}

	m := domain.Mutation{Op: domain.OpAddRoot, WidgetType: widgetType}

	if parent, ok := args["parent"].(string); ok && parent != "" {
		pid := domain.WidgetID(parent)
		m.ParentID = &pid
		m.Op = domain.OpAddChild
	}
	if pos, ok := numberArg(args, "position"); ok {
		m.Position = &pos
		if m.ParentID != nil {
			m.Op = domain.OpInsertChild
		} else {
			m.Op = domain.OpInsertRoot
		}
	}

	if propsStr, ok := args["properties"].(string); ok && propsStr != "" {
		cfg, err := s.configWithOverrides(widgetType, propsStr)
		if err != nil {
			return LayoutResponse{}, err
		}
		m.Config = &cfg
	}

	return s.apply(ctx, sessionKey(args), m)
}

func (s *Server) handleWidgetUpdate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	widgetID, _ := args["widget_id"].(string)
	if widgetID == "" {
		return LayoutResponse{}, fmt.Errorf("widget_id is required")
	}

	props, err := objectArg(args, "properties")
	if err != nil {
		return LayoutResponse{}, err
	}
	styles, err := objectArg(args, "styles")
	if err != nil {
		return LayoutResponse{}, err
	}
	classes, err := classesArg(args)
	if err != nil {
		return LayoutResponse{}, err
	}
	if props == nil && styles == nil && classes == nil {
		return LayoutResponse{}, fmt.Errorf("nothing to update: provide properties, styles or classes")
	}

	key := sessionKey(args)
	var out LayoutResponse
	err = s.sessions.Update(ctx, key, func(ctx context.Context, ed ports.LayoutEditor) error {
		node, ok := ed.Layout().Widget(domain.WidgetID(widgetID))
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrWidgetNotFound, widgetID)
		}

		// Merge into a copy and apply the full config, so the change is
		// one undo step.
		cfg := node.Config.Clone()
		for k, v := range props {
			cfg.SetProperty(k, v)
		}
		for k, v := range styles {
			value, ok := v.(string)
			if !ok {
				return fmt.Errorf("style %q must be a string", k)
			}
			cfg.InlineStyles[k] = value
		}
		if classes != nil {
			cfg.CSSClasses = classes
		}

		rich, err := runner.ApplyAndDescribe(ctx, ed, domain.Mutation{
			Op:       domain.OpUpdateConfig,
			WidgetID: domain.WidgetID(widgetID),
			Config:   &cfg,
		})
		if err != nil {
			return err
		}
		out = fromRich(rich)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("update failed: %w", err)
	}
	return out, nil
}

func (s *Server) handleWidgetRemove(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	widgetID, _ := args["widget_id"].(string)
	if widgetID == "" {
		return LayoutResponse{}, fmt.Errorf("widget_id is required")
	}
	return s.apply(ctx, sessionKey(args), domain.Mutation{
		Op:       domain.OpRemove,
		WidgetID: domain.WidgetID(widgetID),
	})
}

func (s *Server) handleWidgetMove(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	widgetID, _ := args["widget_id"].(string)
	if widgetID == "" {
		return LayoutResponse{}, fmt.Errorf("widget_id is required")
	}

	var op domain.MutationOp
	switch direction, _ := args["direction"].(string); direction {
	case "up":
		op = domain.OpMoveUp
	case "down":
		op = domain.OpMoveDown
	default:
		return LayoutResponse{}, fmt.Errorf("direction must be \"up\" or \"down\"")
	}

	return s.apply(ctx, sessionKey(args), domain.Mutation{
		Op:       op,
		WidgetID: domain.WidgetID(widgetID),
	})
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	var out LayoutResponse
	err := s.sessions.Update(ctx, sessionKey(args), func(ctx context.Context, ed ports.LayoutEditor) error {
		rich, ok := runner.UndoAndDescribe(ctx, ed)
		if !ok {
			return fmt.Errorf("nothing to undo")
		}
		out = fromRich(rich)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, err
	}
	return out, nil
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	var out LayoutResponse
	err := s.sessions.Update(ctx, sessionKey(args), func(ctx context.Context, ed ports.LayoutEditor) error {
		rich, ok := runner.RedoAndDescribe(ctx, ed)
		if !ok {
			return fmt.Errorf("nothing to redo")
		}
		out = fromRich(rich)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, err
	}
	return out, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	pretty, _ := args["pretty"].(bool)

	var out LayoutResponse
	err := s.sessions.View(ctx, sessionKey(args), func(ctx context.Context, ed ports.LayoutEditor) error {
		data, err := ed.Export(pretty)
		if err != nil {
			return err
		}
		out = describe(ed, nil)
		out.Document = data
		return nil
	})
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("export failed: %w", err)
	}
	return out, nil
}

func (s *Server) handleImport(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (LayoutResponse, error) {
	document, _ := args["document"].(string)
	if document == "" {
		return LayoutResponse{}, fmt.Errorf("document is required")
	}

	// Imports bypass the interactive input sanitizer: serialized documents
	// may legitimately exceed its size limit, and the codec validates them.
	var out LayoutResponse
	err := s.sessions.Update(ctx, sessionKey(args), func(ctx context.Context, ed ports.LayoutEditor) error {
		if err := ed.Import(ctx, []byte(document)); err != nil {
			return err
		}
		out = describe(ed, nil)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("import failed: %w", err)
	}
	return out, nil
}

// apply runs one mutation under the key's session lock and persists the
// result.
func (s *Server) apply(ctx context.Context, key string, m domain.Mutation) (LayoutResponse, error) {
	var out LayoutResponse
	err := s.sessions.Update(ctx, key, func(ctx context.Context, ed ports.LayoutEditor) error {
		rich, err := runner.ApplyAndDescribe(ctx, ed, m)
		if err != nil {
			return err
		}
		out = fromRich(rich)
		return nil
	})
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("%s failed: %w", m.Op, err)
	}
	return out, nil
}

// configWithOverrides starts from the catalog default for the type and
// merges the caller's property overrides on top.
func (s *Server) configWithOverrides(widgetType, propsStr string) (domain.WidgetConfig, error) {
	clean, err := runner.SanitizeInput(propsStr)
	if err != nil {
		slog.Warn("MCP widget_add: properties rejected", "error", err, "size", len(propsStr))
		return domain.WidgetConfig{}, fmt.Errorf("properties rejected: %w", err)
	}

	props := map[string]any{}
	if err := json.Unmarshal([]byte(clean), &props); err != nil {
		return domain.WidgetConfig{}, fmt.Errorf("properties must be a JSON object: %w", err)
	}

	cfg := domain.NewWidgetConfig(widgetType)
	if s.catalog != nil {
		if w, err := s.catalog.Get(widgetType); err == nil {
			cfg = w.DefaultConfig()
		}
	}
	for k, v := range props {
		cfg.SetProperty(k, v)
	}
	return cfg, nil
}

func (s *Server) catalogEntries() ([]CatalogEntry, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("no catalog configured")
	}

	// Registration order is palette order; keep it.
	entries := make([]CatalogEntry, 0, s.catalog.Len())
	for _, widgetType := range s.catalog.Types() {
		w, err := s.catalog.Get(widgetType)
		if err != nil {
			return nil, err
		}
		entry := CatalogEntry{
			Type:        w.Type(),
			DisplayName: w.DisplayName(),
			Description: w.Description(),
			Icon:        w.Icon(),
			Container:   w.CanHaveChildren(),
		}
		if schema := w.PropertySchema(); schema != nil {
			entry.Schema = make(map[string]string, len(schema))
			for name, typ := range schema {
				entry.Schema[name] = typ.Name()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://catalog
	s.mcpServer.AddResource(mcp.NewResource("lattice://catalog", "Widget Palette",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := s.catalogEntries()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect catalog: %w", err)
		}
		jsonBytes, _ := json.Marshal(entries)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: lattice://layout
	s.mcpServer.AddResource(mcp.NewResource("lattice://layout", "Default Layout Document",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var doc []byte
		err := s.sessions.View(ctx, DefaultLayoutKey, func(ctx context.Context, ed ports.LayoutEditor) error {
			data, err := ed.Export(true)
			if err != nil {
				return err
			}
			doc = data
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to export layout: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://layout",
				MIMEType: "application/json",
				Text:     string(doc),
			},
		}, nil
	})
}

// Argument helpers

func sessionKey(args map[string]any) string {
	if key, ok := args["layout"].(string); ok && key != "" {
		return key
	}
	return DefaultLayoutKey
}

// numberArg reads a numeric argument; JSON numbers arrive as float64, but
// stringified numbers are accepted too.
func numberArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// objectArg parses a JSON-object string argument. A missing or empty
// argument yields nil without error.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	raw, _ := args[key].(string)
	if raw == "" {
		return nil, nil
	}
	clean, err := runner.SanitizeInput(raw)
	if err != nil {
		return nil, fmt.Errorf("%s rejected: %w", key, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("%s must be a JSON object: %w", key, err)
	}
	return out, nil
}

// classesArg parses the classes argument as a JSON string array. A missing
// argument yields nil; an explicit empty array clears the class list.
func classesArg(args map[string]any) ([]string, error) {
	raw, _ := args["classes"].(string)
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("classes must be a JSON string array: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Response helpers

func describe(ed ports.LayoutEditor, result *domain.MutationResult) LayoutResponse {
	rich := runner.Describe(ed)
	out := fromRich(rich)
	out.Result = result
	return out
}

func fromRich(rich *runner.RichResponse) LayoutResponse {
	if rich == nil {
		return LayoutResponse{}
	}
	return LayoutResponse{
		Result:  rich.Result,
		Widgets: rich.Widgets,
		CanUndo: rich.CanUndo,
		CanRedo: rich.CanRedo,
	}
}
