package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/net/html"
)

// StrategiesURI is the resource listing the configured strategy order.
const StrategiesURI = "catsort://strategies"

// GroupResponse is the structured result of group_categories.
type GroupResponse struct {
	HTML   string         `json:"html" jsonschema_description:"The regrouped document, or the input when no layout was found"`
	Report *domain.Report `json:"report" jsonschema_description:"Run report with per-group placements"`
}

// DetectResponse is the structured result of detect_layout.
type DetectResponse struct {
	Found  bool   `json:"found" jsonschema_description:"Whether a supported category layout was recognized"`
	Layout string `json:"layout,omitempty" jsonschema_description:"The strategy that matched"`
	Items  []int  `json:"items,omitempty" jsonschema_description:"Rendered category ids in document order"`
}

// MappingResponse is the structured result of parse_mapping.
type MappingResponse struct {
	Rules       []domain.GroupRule   `json:"rules" jsonschema_description:"Normalized rules in evaluation order"`
	Diagnostics []mapping.Diagnostic `json:"diagnostics,omitempty" jsonschema_description:"Entries that were dropped or reinterpreted"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	GroupDocument(ctx context.Context, source string, categories []domain.Category, src mapping.Source) (string, *domain.Report, error)
	Detect(root *html.Node) (*layout.Match, bool)
	Strategies() []layout.Kind
}

// Server wraps the catsort Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("catsort-mcp", strings.TrimSpace(catsort.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	groupTool := mcp.NewTool("group_categories",
		mcp.WithDescription("Regroup the category listing of an HTML page into the groups defined by a mapping."),
		mcp.WithString("html", mcp.Required(), mcp.Description("The rendered HTML document")),
		mcp.WithString("categories", mcp.Required(), mcp.Description("JSON categories payload: an array of {id, slug} or a {category_list: {categories}} object")),
		mcp.WithString("mapping", mcp.Required(), mcp.Description(`Group mapping, e.g. bugs;bug-reports|feature;["feature","idea"]`)),
		mcp.WithOutputSchema[GroupResponse](),
	)
	s.mcpServer.AddTool(groupTool, mcp.NewStructuredToolHandler(s.handleGroup))

	detectTool := mcp.NewTool("detect_layout",
		mcp.WithDescription("Report which category layout an HTML page uses, without changing it."),
		mcp.WithString("html", mcp.Required(), mcp.Description("The rendered HTML document")),
		mcp.WithOutputSchema[DetectResponse](),
	)
	s.mcpServer.AddTool(detectTool, mcp.NewStructuredToolHandler(s.handleDetect))

	parseTool := mcp.NewTool("parse_mapping",
		mcp.WithDescription("Normalize a group mapping string and report malformed entries."),
		mcp.WithString("mapping", mcp.Required(), mcp.Description("Group mapping string")),
		mcp.WithOutputSchema[MappingResponse](),
	)
	s.mcpServer.AddTool(parseTool, mcp.NewStructuredToolHandler(s.handleParseMapping))
}

func (s *Server) handleGroup(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GroupResponse, error) {
	source, _ := args["html"].(string)
	raw, _ := args["mapping"].(string)

	var cats []domain.Category
	if payload, _ := args["categories"].(string); payload != "" {
		var err error
		if cats, err = domain.DecodeCategories([]byte(payload)); err != nil {
			return GroupResponse{}, err
		}
	}

	out, report, err := s.engine.GroupDocument(ctx, source, cats, mapping.FromString(raw))
	if err != nil {
		s.logger.Error("MCP Group failed", "err", err)
		return GroupResponse{}, fmt.Errorf("group failed: %w", err)
	}
	return GroupResponse{HTML: out, Report: report}, nil
}

func (s *Server) handleDetect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DetectResponse, error) {
	source, _ := args["html"].(string)

	root, err := document.ParseString(source)
	if err != nil {
		return DetectResponse{}, fmt.Errorf("invalid html: %w", err)
	}
	m, ok := s.engine.Detect(root)
	if !ok {
		return DetectResponse{}, nil
	}
	return DetectResponse{Found: true, Layout: string(m.Kind), Items: m.IDs}, nil
}

func (s *Server) handleParseMapping(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MappingResponse, error) {
	raw, _ := args["mapping"].(string)
	m, diags := mapping.ParseWithDiagnostics(raw)
	return MappingResponse{Rules: m.Rules(), Diagnostics: diags}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StrategiesURI, "Layout strategy order",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Strategies())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StrategiesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
