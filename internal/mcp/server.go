// Package mcp exposes the elicitation engine to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/reqpilot/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the interview and assessment tools.
type Server struct {
	engine *session.Engine
	mcp    *server.MCPServer
}

// NewServer creates an MCP server over the given session engine.
func NewServer(engine *session.Engine) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"reqpilot",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(startSessionTool, s.handleStartSession)
	s.mcp.AddTool(submitAnswerTool, s.handleSubmitAnswer)
	s.mcp.AddTool(getNextQuestionTool, s.handleGetNextQuestion)
	s.mcp.AddTool(getCompletenessTool, s.handleGetCompleteness)
	s.mcp.AddTool(generateSummaryTool, s.handleGenerateSummary)
	s.mcp.AddTool(confirmSessionTool, s.handleConfirmSession)
	s.mcp.AddTool(assessDocumentTool, s.handleAssessDocument)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
