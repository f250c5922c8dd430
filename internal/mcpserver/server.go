// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the conformance checkers as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/doccheck"
	"github.com/agenticomni/conform/internal/docs"
	"github.com/agenticomni/conform/internal/history"
	"github.com/agenticomni/conform/internal/structure"
)

// ConventionsURI identifies the documentation conventions resource.
const ConventionsURI = "conform://doc-conventions"

// Config is what the tools need to run the checkers.
type Config struct {
	Docs      docs.Options
	Structure structure.Expectations
	History   *history.DB // optional
	Logger    *slog.Logger
}

// Server wraps the MCP server with the conformance tools.
type Server struct {
	mcp *server.MCPServer
	cfg Config
}

// New creates a new MCP server with all tools registered.
func New(cfg Config, version string) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Docs.Logger = cfg.Logger
	s := &Server{cfg: cfg}

	s.mcp = server.NewMCPServer(
		"conform",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_docs",
		mcp.WithDescription("Validate every documentation file: header fields, internal links and the Last Updated marker. "+
			"Returns the per-document issues and a summary as JSON."),
	), s.validateDocs)

	s.mcp.AddTool(mcp.NewTool("validate_structure",
		mcp.WithDescription("Check that every required project directory and file exists with the right kind."),
	), s.validateStructure)

	s.mcp.AddTool(mcp.NewTool("check_document",
		mcp.WithDescription("Validate a single document. Read the conventions first via the "+
			"get_doc_conventions tool or the "+ConventionsURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the project root (e.g. docs/architecture.md)")),
	), s.checkDocument)

	s.mcp.AddTool(mcp.NewTool("get_doc_conventions",
		mcp.WithDescription("Returns the documentation conventions the validator enforces."),
	), s.getDocConventions)

	s.mcp.AddTool(mcp.NewTool("recent_runs",
		mcp.WithDescription("List recorded validation runs, newest first. Requires run history to be enabled."),
		mcp.WithString("kind", mcp.Description("Optional run kind filter: docs or structure")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs (default 20)")),
	), s.recentRuns)

	s.mcp.AddResource(
		mcp.NewResource(ConventionsURI, "Documentation Conventions",
			mcp.WithResourceDescription("Header, link and freshness rules every document must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventionsResource,
	)

	return s
}

// Listen serves MCP over the given streams until ctx is cancelled or in is
// closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) validateDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := docs.Validate(ctx, s.cfg.Docs)
	if errors.Is(err, apperr.ErrDocsDirNotFound) {
		return mcp.NewToolResultError("docs directory not found"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rep), nil
}

func (s *Server) validateStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(structure.Validate(s.cfg.Docs.Root, s.cfg.Structure)), nil
}

func (s *Server) checkDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store, err := docs.NewStore(s.cfg.Docs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := doccheck.New(doccheck.WithLogger(s.cfg.Logger)).CheckPath(store, path)
	return jsonResult(res), nil
}

func (s *Server) getDocConventions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocConventions), nil
}

func (s *Server) readConventionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ConventionsURI,
			MIMEType: "text/markdown",
			Text:     DocConventions,
		},
	}, nil
}

func (s *Server) recentRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.cfg.History == nil {
		return mcp.NewToolResultError("run history is disabled; set history.path in the config"), nil
	}
	kind := req.GetString("kind", "")
	if kind != "" && kind != history.KindDocs && kind != history.KindStructure {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", kind)), nil
	}
	runs, err := s.cfg.History.Recent(kind, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if runs == nil {
		runs = []history.Run{}
	}
	return jsonResult(runs), nil
}
