package mcp

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/usecase/catalog"
	"github.com/m-mizutani/philosophia/pkg/utils/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "philosophia"

// Server exposes the catalog as MCP tools
type Server struct {
	ctrl   *catalog.Controller
	server *mcp.Server
}

// New creates a Server and registers all catalog tools
func New(ctrl *catalog.Controller, version string) *Server {
	s := &Server{
		ctrl: ctrl,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List all philosopher profiles in the catalog, newest first",
	}, s.listProfiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the full profile of a philosopher by ID, including comments",
	}, s.getProfile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_profile",
		Description: "Find a philosopher by name. If nobody matches, a new profile is generated and added to the catalog",
	}, s.findProfile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_comment",
		Description: "Post a comment on a philosopher profile",
	}, s.addComment)

	return s
}

// MCP returns the underlying SDK server, e.g. to mount it on an HTTP handler
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves over stdio until ctx is canceled or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	logging.From(ctx).Info("starting MCP server", "transport", "stdio")
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server stopped")
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal tool result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
	}, nil, nil
}

// errorResult reports a domain failure to the client as a tool error rather than a protocol error
func errorResult(ctx context.Context, tool string, err error) (*mcp.CallToolResult, any, error) {
	logging.From(ctx).Warn("tool call failed", "tool", tool, "error", err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: catalog.Message(err)},
		},
	}, nil, nil
}
