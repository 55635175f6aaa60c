// Package mcpserver exposes the docpress query operations as MCP (Model
// Context Protocol) tools over stdio transport. All tools are read-only:
// the server never mutates the store.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/perthos/docpress/internal/query"
)

// Server wraps the MCP server with docpress query tools.
type Server struct {
	mcp *server.MCPServer
	svc *query.Service
}

// New creates an MCP server with all query tools registered.
func New(svc *query.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"docpress",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List the distinct documentation sources present in the store."),
		mcp.WithString("filter", mcp.Description("Optional substring filter on the repo name")),
		mcp.WithBoolean("include_stats", mcp.Description("Include file count and total size per source")),
	), s.listSources)

	s.mcp.AddTool(mcp.NewTool("get_file",
		mcp.WithDescription("Retrieve one artifact by slug or source path. Content is read fresh from disk."),
		mcp.WithString("slug", mcp.Description("Artifact slug (e.g. 'next-js__docs__routing')")),
		mcp.WithString("path", mcp.Description("Source path (e.g. 'docs/routing.md'); used when slug is absent")),
	), s.getFile)

	s.mcp.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Case-insensitive search over artifact titles and bodies, ranked by relevance."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("source_filter", mcp.Description("Optional repo to restrict the search to")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
	), s.search)

	s.mcp.AddTool(mcp.NewTool("stats",
		mcp.WithDescription("Aggregate document and byte counts for the store."),
		mcp.WithBoolean("detailed", mcp.Description("Break counts down per source")),
	), s.stats)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := ""
	if f, err := req.RequireString("filter"); err == nil {
		filter = f
	}
	sources, err := s.svc.ListSources(filter, boolArg(req, "include_stats"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sources)
}

func (s *Server) getFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := ""
	if slug, err := req.RequireString("slug"); err == nil && slug != "" {
		id = slug
	} else if path, err := req.RequireString("path"); err == nil {
		id = path
	}
	result, err := s.svc.GetFile(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sourceFilter := ""
	if f, rerr := req.RequireString("source_filter"); rerr == nil {
		sourceFilter = f
	}
	results, err := s.svc.Search(q, sourceFilter, intArg(req, "limit"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if results == nil {
		results = []query.SearchResult{}
	}
	return jsonResult(results)
}

func (s *Server) stats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(boolArg(req, "detailed"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stats)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func boolArg(req mcp.CallToolRequest, key string) bool {
	v, ok := req.GetArguments()[key].(bool)
	return ok && v
}

func intArg(req mcp.CallToolRequest, key string) int {
	if v, ok := req.GetArguments()[key].(float64); ok {
		return int(v)
	}
	if v, ok := req.GetArguments()[key].(int); ok {
		return v
	}
	return 0
}
