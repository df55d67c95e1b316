package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/reqpilot/internal/quality"
)

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := request.GetString("user_id", "mcp")

	sess, err := s.engine.CreateSession(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	return jsonResult(map[string]string{"session_id": sess.ID})
}

func (s *Server) handleSubmitAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	answer, err := request.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: answer"), nil
	}

	result, err := s.engine.SubmitAnswer(ctx, sessionID, answer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %v", err)), nil
	}

	return jsonResult(result)
}

func (s *Server) handleGetNextQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	q, err := s.engine.NextQuestion(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("next question failed: %v", err)), nil
	}

	return jsonResult(q)
}

func (s *Server) handleGetCompleteness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	score, err := s.engine.Completeness(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completeness failed: %v", err)), nil
	}

	return jsonResult(score)
}

func (s *Server) handleGenerateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	st, err := s.engine.GenerateSummary(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	return jsonResult(st)
}

func (s *Server) handleConfirmSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	st, err := s.engine.Confirm(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("confirm failed: %v", err)), nil
	}

	return jsonResult(st)
}

func (s *Server) handleAssessDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docJSON, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: document"), nil
	}

	var doc quality.StructuredDocument
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document is not valid JSON: %v", err)), nil
	}

	return jsonResult(quality.Assess(doc))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
