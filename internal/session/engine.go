package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
	"github.com/ziadkadry99/reqpilot/internal/confirm"
	"github.com/ziadkadry99/reqpilot/internal/digest"
	"github.com/ziadkadry99/reqpilot/internal/facts"
	"github.com/ziadkadry99/reqpilot/internal/llm"
	"github.com/ziadkadry99/reqpilot/internal/policy"
)

// DigestRecorder receives the digest of every confirmed session. Recording
// is best-effort: a recorder failure never fails the confirmation.
type DigestRecorder interface {
	RecordDigest(ctx context.Context, d digest.Digest) error
}

// Engine runs the elicitation pipeline for each session: extract facts from
// the latest answer, score them, decide the next question, and walk the
// confirmation flow. Stages within one session run strictly sequentially;
// different sessions are fully independent.
type Engine struct {
	store     *Store
	extractor *facts.Extractor
	provider  llm.Provider
	model     string
	policy    policy.Policy
	recorder  DigestRecorder
}

// NewEngine wires the pipeline together.
func NewEngine(store *Store, provider llm.Provider, model string) *Engine {
	return &Engine{
		store:     store,
		extractor: facts.NewExtractor(provider, model),
		provider:  provider,
		model:     model,
		policy:    policy.New(),
	}
}

// SetMaxRounds overrides the questioning round cap.
func (e *Engine) SetMaxRounds(n int) {
	if n > 0 {
		e.policy.MaxRounds = n
	}
}

// SetRecorder attaches a digest recorder that is fed on every confirmation.
func (e *Engine) SetRecorder(r DigestRecorder) {
	e.recorder = r
}

// Store exposes the underlying store for transports that need direct reads.
func (e *Engine) Store() *Store {
	return e.store
}

// CreateSession starts a new elicitation conversation.
func (e *Engine) CreateSession(ctx context.Context, userID string) (*Session, error) {
	return e.store.CreateSession(ctx, userID)
}

// SubmitAnswer feeds one user answer through extraction, scoring and the
// questioning policy. A degraded extraction still advances the conversation;
// it is reported via TurnResult.Degraded, never as an error.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*TurnResult, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusCollecting && sess.Status != StatusConfirming {
		return nil, fmt.Errorf("%w: cannot answer in status %s", confirm.ErrInvalidTransition, sess.Status)
	}

	turns, err := e.store.GetTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prior, err := e.store.GetRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history := make([]facts.Turn, len(turns))
	for i, t := range turns {
		history[i] = facts.Turn{Question: t.Question, Answer: t.Answer}
	}

	rec, degraded, err := e.extractor.Extract(ctx, history, answer, prior)
	if err != nil {
		return nil, err
	}

	if sess.OriginalInput == "" {
		// The very first input is kept verbatim for the digest.
		sess.OriginalInput = answer
	}

	if err := e.store.SaveRecord(ctx, sessionID, rec); err != nil {
		return nil, err
	}

	turn := Turn{
		SessionID: sessionID,
		Question:  sess.PendingQuestion,
		Answer:    answer,
		Category:  sess.PendingCategory,
		Degraded:  degraded,
	}
	if _, err := e.store.AddTurn(ctx, turn); err != nil {
		return nil, err
	}

	score := completeness.Evaluate(rec)
	decision := e.policy.Decide(score, len(turns)+1, sess.PendingCategory)

	sess.LastCategory = sess.PendingCategory
	sess.PendingQuestion = ""
	sess.PendingCategory = ""
	if decision.Action == policy.ActionProceed {
		sess.Status = StatusConfirming
	}
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}

	return &TurnResult{
		SessionID: sessionID,
		Record:    rec,
		Score:     score,
		Decision:  decision,
		Degraded:  degraded,
	}, nil
}

// Completeness scores the session's current record. A session with answers
// but no usable record falls back to the fixed degraded score.
func (e *Engine) Completeness(ctx context.Context, sessionID string) (completeness.Score, error) {
	if _, err := e.store.GetSession(ctx, sessionID); err != nil {
		return completeness.Score{}, err
	}
	rec, err := e.store.GetRecord(ctx, sessionID)
	if err != nil {
		return completeness.Score{}, err
	}
	if rec == nil {
		turns, err := e.store.GetTurns(ctx, sessionID)
		if err != nil {
			return completeness.Score{}, err
		}
		if len(turns) > 0 {
			return completeness.DegradedScore(), nil
		}
		return completeness.Evaluate(facts.NewRecord()), nil
	}
	return completeness.Evaluate(*rec), nil
}

// NextQuestion decides and phrases the next question, or signals that the
// interview should move to confirmation.
func (e *Engine) NextQuestion(ctx context.Context, sessionID string) (*Question, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rec, err := e.store.GetRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	current := facts.NewRecord()
	if rec != nil {
		current = *rec
	}

	turns, err := e.store.GetTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	decision := e.policy.Decide(completeness.Evaluate(current), len(turns), sess.LastCategory)
	if decision.Action == policy.ActionProceed {
		sess.Status = StatusConfirming
		sess.PendingQuestion = ""
		sess.PendingCategory = ""
		if err := e.store.UpdateSession(ctx, sess); err != nil {
			return nil, err
		}
		return &Question{Proceed: true, Reasoning: decision.Reasoning}, nil
	}

	text := e.phraseQuestion(ctx, decision.NextCategory, current)

	sess.PendingQuestion = text
	sess.PendingCategory = decision.NextCategory
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}

	return &Question{
		Category:  decision.NextCategory,
		Text:      text,
		Reasoning: decision.Reasoning,
	}, nil
}

// phraseQuestion asks the model to word the next question; the canned
// per-category fallback keeps the interview moving when the model is
// unavailable or returns junk.
func (e *Engine) phraseQuestion(ctx context.Context, category policy.Category, rec facts.Record) string {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: questionSystemPrompt},
			{Role: llm.RoleUser, Content: buildQuestionPrompt(category, rec)},
		},
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("session: question phrasing degraded: %v", err)
		return fallbackQuestions[category]
	}

	text := strings.TrimSpace(resp.Content)
	if len(text) < 10 || !strings.Contains(text, "?") {
		return fallbackQuestions[category]
	}
	return text
}

// GenerateSummary derives the reviewable summary for the session's current
// record, starting the confirmation flow (or returning its current state if
// one is already underway).
func (e *Engine) GenerateSummary(ctx context.Context, sessionID string) (confirm.State, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}

	states, err := e.store.GetConfirmationStates(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}
	if len(states) > 0 {
		m, err := confirm.Restore(states)
		if err != nil {
			return confirm.State{}, err
		}
		return m.Current(), nil
	}

	rec, err := e.store.GetRecord(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}
	if rec == nil {
		return confirm.State{}, fmt.Errorf("%w: no facts extracted yet", facts.ErrInvalidInput)
	}

	m := confirm.NewMachine(*rec)
	if err := e.persistNewStates(ctx, sessionID, nil, m); err != nil {
		return confirm.State{}, err
	}

	sess.Status = StatusConfirming
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return confirm.State{}, err
	}

	return m.Current(), nil
}

// Adjust applies a batch of field patches and re-derives the summary. The
// batch is atomic: any unknown field path leaves the stored states untouched.
func (e *Engine) Adjust(ctx context.Context, sessionID string, adjs []confirm.Adjustment) (confirm.State, error) {
	m, prior, err := e.restoreMachine(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}

	st, err := m.ApplyAdjustments(adjs)
	if err != nil {
		return confirm.State{}, err
	}

	if err := e.persistNewStates(ctx, sessionID, prior, m); err != nil {
		return confirm.State{}, err
	}
	if err := e.store.SaveRecord(ctx, sessionID, st.Record); err != nil {
		return confirm.State{}, err
	}

	return st, nil
}

// Confirm accepts the current summary, ending the session successfully and
// feeding the digest recorder if one is attached.
func (e *Engine) Confirm(ctx context.Context, sessionID string) (confirm.State, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}

	m, prior, err := e.restoreMachine(ctx, sessionID)
	if err != nil {
		return confirm.State{}, err
	}

	st, err := m.Confirm()
	if err != nil {
		return confirm.State{}, err
	}
	if err := e.persistNewStates(ctx, sessionID, prior, m); err != nil {
		return confirm.State{}, err
	}

	sess.Status = StatusConfirmed
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return confirm.State{}, err
	}

	if e.recorder != nil {
		d := digest.Build(st.Record, digest.ContextInfo{
			SessionID:         sessionID,
			OriginalUserInput: sess.OriginalInput,
			ConfirmedAt:       st.CreatedAt,
		})
		if err := e.recorder.RecordDigest(ctx, d); err != nil {
			log.Printf("session: recording digest for %s: %v", sessionID, err)
		}
	}

	return st, nil
}

// Restart discards the session's facts and history and returns it to
// collecting. Legal from any phase.
func (e *Engine) Restart(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := e.store.ClearSessionData(ctx, sessionID); err != nil {
		return nil, err
	}

	sess.Status = StatusCollecting
	sess.OriginalInput = ""
	sess.PendingQuestion = ""
	sess.PendingCategory = ""
	sess.LastCategory = ""
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Digest builds the frozen digest of a confirmed session.
func (e *Engine) Digest(ctx context.Context, sessionID string) (digest.Digest, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return digest.Digest{}, err
	}
	if sess.Status != StatusConfirmed {
		return digest.Digest{}, fmt.Errorf("%w: digest requires a confirmed session, status is %s",
			confirm.ErrInvalidTransition, sess.Status)
	}

	m, _, err := e.restoreMachine(ctx, sessionID)
	if err != nil {
		return digest.Digest{}, err
	}
	st := m.Current()

	return digest.Build(st.Record, digest.ContextInfo{
		SessionID:         sessionID,
		OriginalUserInput: sess.OriginalInput,
		ConfirmedAt:       st.CreatedAt,
	}), nil
}

// restoreMachine loads the confirmation machine and remembers how many
// states were already persisted so only new ones get written back.
func (e *Engine) restoreMachine(ctx context.Context, sessionID string) (*confirm.Machine, []confirm.State, error) {
	states, err := e.store.GetConfirmationStates(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("%w: no summary generated yet", confirm.ErrInvalidTransition)
	}
	m, err := confirm.Restore(states)
	if err != nil {
		return nil, nil, err
	}
	return m, states, nil
}

// persistNewStates writes states the machine gained since prior was loaded.
func (e *Engine) persistNewStates(ctx context.Context, sessionID string, prior []confirm.State, m *confirm.Machine) error {
	history := m.History()
	for _, st := range history[len(prior):] {
		if err := e.store.SaveConfirmationState(ctx, sessionID, st); err != nil {
			return err
		}
	}
	return nil
}
