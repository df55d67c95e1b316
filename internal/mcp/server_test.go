package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/llm"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

// stubProvider returns a fixed extraction payload for every completion.
type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	provider := &stubProvider{content: `{
		"product_type": "web app",
		"core_goal": "track daily habits with streak reminders",
		"target_users": "people building new routines",
		"user_scope": "personal",
		"core_features": ["habit list", "streak tracking"]
	}`}

	engine := session.NewEngine(session.NewStore(database), provider, "stub-model")
	return NewServer(engine)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"start_session", startSessionTool, "start_session"},
		{"submit_answer", submitAnswerTool, "submit_answer"},
		{"get_next_question", getNextQuestionTool, "get_next_question"},
		{"get_completeness", getCompletenessTool, "get_completeness"},
		{"generate_summary", generateSummaryTool, "generate_summary"},
		{"confirm_session", confirmSessionTool, "confirm_session"},
		{"assess_document", assessDocumentTool, "assess_document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.engine == nil {
		t.Fatal("engine not set")
	}
}

func TestHandleStartSession(t *testing.T) {
	srv := newTestServer(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := srv.handleStartSession(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleSubmitAnswer(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	sess, err := srv.engine.CreateSession(ctx, "mcp")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	t.Run("valid answer", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"session_id": sess.ID,
			"answer":     "I want a habit tracker for myself",
		}

		result, err := srv.handleSubmitAnswer(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("missing session_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"answer": "hello"}

		result, err := srv.handleSubmitAnswer(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing session_id")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"session_id": "no-such-session",
			"answer":     "hello",
		}

		result, err := srv.handleSubmitAnswer(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown session")
		}
	})
}

func TestHandleGetCompleteness(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	sess, err := srv.engine.CreateSession(ctx, "mcp")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"session_id": sess.ID}

	result, err := srv.handleGetCompleteness(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleGenerateSummaryAndConfirm(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	sess, err := srv.engine.CreateSession(ctx, "mcp")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if _, err := srv.engine.SubmitAnswer(ctx, sess.ID, "habit tracker for myself"); err != nil {
		t.Fatalf("submitting answer: %v", err)
	}

	sumReq := mcp.CallToolRequest{}
	sumReq.Params.Arguments = map[string]any{"session_id": sess.ID}

	result, err := srv.handleGenerateSummary(ctx, sumReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	confReq := mcp.CallToolRequest{}
	confReq.Params.Arguments = map[string]any{"session_id": sess.ID}

	result, err = srv.handleConfirmSession(ctx, confReq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
}

func TestHandleAssessDocument(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("valid document", func(t *testing.T) {
		doc := map[string]any{
			"title": "Habit Tracker",
			"overview": map[string]any{
				"description": "A small web app that tracks daily habits and streaks.",
			},
		}
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"document": string(data)}

		result, err := srv.handleAssessDocument(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"document": "not json"}

		result, err := srv.handleAssessDocument(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for invalid JSON document")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAssessDocument(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing document")
		}
	})
}
