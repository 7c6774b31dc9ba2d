package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"freqctl/internal/fleet"
	"freqctl/pkg/logging"
)

// Server exposes the fleet manager as MCP tools over stdio. One Server
// serves one fleet; it owns no state beyond the manager it wraps.
type Server struct {
	mcp   *server.MCPServer
	tools *FleetTools
}

// New creates the MCP server and registers every fleet tool on it.
// portBase seeds the port suggestion when bot_add is called without an
// explicit port.
func New(manager *fleet.Manager, portBase int, version string) *Server {
	mcpServer := server.NewMCPServer(
		"freqctl",
		version,
		server.WithToolCapabilities(true),
	)

	tools := NewFleetTools(manager, portBase)
	mcpServer.AddTools(tools.ServerTools()...)

	return &Server{
		mcp:   mcpServer,
		tools: tools,
	}
}

// ServeStdio serves the MCP protocol on stdin/stdout until the stream
// closes. stdout belongs to the protocol, so callers must keep their
// own output on stderr.
func (s *Server) ServeStdio() error {
	logging.Debug("MCP", "Starting stdio server")
	return server.ServeStdio(s.mcp)
}
