package mcp

import "github.com/mark3labs/mcp-go/mcp"

// startSessionTool begins a new elicitation conversation.
var startSessionTool = mcp.NewTool("start_session",
	mcp.WithDescription("Start a new requirements-elicitation session. Returns the session ID to use with the other tools."),
	mcp.WithString("user_id",
		mcp.Description("Identifier of the human being interviewed (optional)"),
	),
)

// submitAnswerTool feeds one user answer into the interview.
var submitAnswerTool = mcp.NewTool("submit_answer",
	mcp.WithDescription("Submit the user's answer to the current question. Returns the extracted facts, the completeness score, and whether to keep asking or move to confirmation."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID from start_session"),
	),
	mcp.WithString("answer",
		mcp.Required(),
		mcp.Description("The user's free-text answer"),
	),
)

// getNextQuestionTool asks the engine what to probe next.
var getNextQuestionTool = mcp.NewTool("get_next_question",
	mcp.WithDescription("Get the next interview question, or a signal that enough has been gathered and the summary should be confirmed."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID from start_session"),
	),
)

// getCompletenessTool reports the current completeness score.
var getCompletenessTool = mcp.NewTool("get_completeness",
	mcp.WithDescription("Get the session's completeness score across the critical, important and optional tiers."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID from start_session"),
	),
)

// generateSummaryTool derives the reviewable summary.
var generateSummaryTool = mcp.NewTool("generate_summary",
	mcp.WithDescription("Generate the field-by-field requirements summary for user review, including any fields still missing."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID from start_session"),
	),
)

// confirmSessionTool accepts the summary as final.
var confirmSessionTool = mcp.NewTool("confirm_session",
	mcp.WithDescription("Confirm the generated summary, ending the session and freezing its facts digest."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID from start_session"),
	),
)

// assessDocumentTool scores a generated PRD.
var assessDocumentTool = mcp.NewTool("assess_document",
	mcp.WithDescription("Score a generated requirements document on completeness, clarity, specificity, feasibility, visual quality and AI-coding readiness."),
	mcp.WithString("document",
		mcp.Required(),
		mcp.Description("The structured document as a JSON object"),
	),
)
