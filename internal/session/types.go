package session

import (
	"time"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
	"github.com/ziadkadry99/reqpilot/internal/facts"
	"github.com/ziadkadry99/reqpilot/internal/policy"
)

// Status tracks where a session is in the elicitation lifecycle.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusConfirming Status = "confirming"
	StatusConfirmed  Status = "confirmed"
	StatusRestarted  Status = "restarted"
	StatusAbandoned  Status = "abandoned"
)

// Session is one independent elicitation conversation. Sessions share no
// mutable state with each other.
type Session struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Status          Status          `json:"status"`
	OriginalInput   string          `json:"original_input"`
	PendingQuestion string          `json:"pending_question,omitempty"`
	PendingCategory policy.Category `json:"pending_category,omitempty"`
	LastCategory    policy.Category `json:"last_category,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Turn is one question/answer exchange. Turns are append-only and immutable
// once recorded.
type Turn struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Question  string          `json:"question"`
	Answer    string          `json:"answer"`
	Category  policy.Category `json:"category,omitempty"`
	Degraded  bool            `json:"degraded"`
	CreatedAt time.Time       `json:"created_at"`
}

// TurnResult is what one submitted answer produced: the refined record, its
// score, and the policy's next move. Degraded flags that the fallback
// extraction was used; the turn still advances the conversation.
type TurnResult struct {
	SessionID string             `json:"session_id"`
	Record    facts.Record       `json:"record"`
	Score     completeness.Score `json:"score"`
	Decision  policy.Decision    `json:"decision"`
	Degraded  bool               `json:"degraded"`
}

// Question is the next thing to ask the user. Proceed true means the
// interview is over and the caller should move to confirmation instead.
type Question struct {
	Proceed   bool            `json:"proceed"`
	Category  policy.Category `json:"category,omitempty"`
	Text      string          `json:"text,omitempty"`
	Reasoning string          `json:"reasoning"`
}
