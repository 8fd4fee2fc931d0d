package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	activitysvc "github.com/alanyang/mission-control/internal/service/activity"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	messagesvc "github.com/alanyang/mission-control/internal/service/message"
	notificationsvc "github.com/alanyang/mission-control/internal/service/notification"
	tasksvc "github.com/alanyang/mission-control/internal/service/task"
)

// Services are the application services the MCP tools call. Effects is
// the same dispatcher the HTTP handlers use, so a tool call records the same
// activities and notifications as the matching endpoint.
type Services struct {
	Tasks         *tasksvc.Service
	Messages      *messagesvc.Service
	Activities    *activitysvc.Service
	Notifications *notificationsvc.Service
	Effects       *effectsvc.Dispatcher
}

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// Tools are registered in tools.go, prompts in prompts.go.
type Server struct {
	mcpSrv  *mcpserver.MCPServer
	httpSrv *mcpserver.StreamableHTTPServer
}

func New(svcs Services, version string) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		"mission-control",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
	)

	RegisterTools(mcpSrv, svcs)
	RegisterPrompts(mcpSrv, svcs)

	return &Server{
		mcpSrv:  mcpSrv,
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler returns the streamable HTTP endpoint, mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

// MCPServer exposes the protocol server, mainly for in-process tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpSrv
}
