package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/catalog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the update catalog and the
// assistant as tools.
type Server struct {
	doc     *catalog.Document
	session *assistant.Session
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. All ask_assistant calls share one
// session for the lifetime of the server.
func NewServer(manager *assistant.Manager) *Server {
	s := &Server{
		doc:     manager.Document(),
		session: manager.Create(),
	}

	s.mcp = server.NewMCPServer(
		"streamly",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(lookupUpdateTool, s.handleLookupUpdate)
	s.mcp.AddTool(latestHighlightsTool, s.handleLatestHighlights)
	s.mcp.AddTool(listUpdatesTool, s.handleListUpdates)
	s.mcp.AddTool(askAssistantTool, s.handleAskAssistant)
	s.mcp.AddTool(conversationHistoryTool, s.handleConversationHistory)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
