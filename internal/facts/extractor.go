package facts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ziadkadry99/reqpilot/internal/llm"
)

// ErrInvalidInput is returned when the caller supplies no usable input at all.
var ErrInvalidInput = errors.New("latest user text is empty and there is no conversation history")

// Turn is one prior question/answer exchange, passed in as extraction context.
type Turn struct {
	Question string
	Answer   string
}

// Extractor turns free-text answers into a structured Record using an LLM,
// with a deterministic degraded fallback when the model output is unusable.
type Extractor struct {
	provider llm.Provider
	model    string
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(provider llm.Provider, model string) *Extractor {
	return &Extractor{provider: provider, model: model}
}

// extractionPayload is the JSON shape the model is asked to produce.
type extractionPayload struct {
	ProductType             string   `json:"product_type"`
	CoreGoal                string   `json:"core_goal"`
	TargetUsers             string   `json:"target_users"`
	UserScope               string   `json:"user_scope"`
	CoreFeatures            []string `json:"core_features"`
	UseScenario             string   `json:"use_scenario"`
	UserJourney             string   `json:"user_journey"`
	InputOutput             string   `json:"input_output"`
	PainPoint               string   `json:"pain_point"`
	CurrentSolution         string   `json:"current_solution"`
	TechnicalHints          []string `json:"technical_hints"`
	IntegrationNeeds        []string `json:"integration_needs"`
	PerformanceRequirements string   `json:"performance_requirements"`
}

// Extract produces a Record from the latest user text plus prior conversation,
// merged into the prior record if one exists. The degraded return value is
// true when the LLM call failed or produced unparseable output and the
// deterministic fallback was used instead. Extract only errors on invalid
// caller input; an unreachable or misbehaving model never surfaces as an error.
func (e *Extractor) Extract(ctx context.Context, history []Turn, latestUserText string, prior *Record) (Record, bool, error) {
	latestUserText = strings.TrimSpace(latestUserText)
	if latestUserText == "" && len(history) == 0 {
		return Record{}, false, ErrInvalidInput
	}

	base := NewRecord()
	if prior != nil {
		base = *prior
	}

	extracted, err := e.callModel(ctx, history, latestUserText)
	if err != nil {
		log.Printf("facts: extraction degraded: %v", err)
		// The fallback record is a placeholder, not new evidence: it only
		// fills fields the prior record left empty, so a degraded round can
		// never overwrite what earlier rounds actually extracted.
		return Merge(DegradedRecord(fallbackText(history, latestUserText)), base), true, nil
	}

	return Merge(base, extracted), false, nil
}

func (e *Extractor) callModel(ctx context.Context, history []Turn, latestUserText string) (Record, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: buildExtractionPrompt(history, latestUserText)},
		},
		MaxTokens:   2048,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return Record{}, fmt.Errorf("completion: %w", err)
	}

	payload, err := parseExtractionResponse(resp.Content)
	if err != nil {
		return Record{}, fmt.Errorf("parsing model output: %w", err)
	}

	return Record{
		ProductType:             payload.ProductType,
		CoreGoal:                payload.CoreGoal,
		TargetUsers:             payload.TargetUsers,
		UserScope:               ParseScope(payload.UserScope),
		CoreFeatures:            payload.CoreFeatures,
		UseScenario:             payload.UseScenario,
		UserJourney:             payload.UserJourney,
		InputOutput:             payload.InputOutput,
		PainPoint:               payload.PainPoint,
		CurrentSolution:         payload.CurrentSolution,
		TechnicalHints:          payload.TechnicalHints,
		IntegrationNeeds:        payload.IntegrationNeeds,
		PerformanceRequirements: payload.PerformanceRequirements,
	}, nil
}

// parseExtractionResponse locates a JSON object inside the model output,
// which may be wrapped in markdown code fences or prose.
func parseExtractionResponse(content string) (*extractionPayload, error) {
	jsonStr := content
	if idx := strings.Index(jsonStr, "{"); idx >= 0 {
		jsonStr = jsonStr[idx:]
	} else {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// degradedTruncateLen is how much of the raw user text seeds the core goal
// when the model is unavailable.
const degradedTruncateLen = 50

// DegradedRecord builds a deterministic low-fidelity record from raw user
// text. It never fails: the core goal is seeded from the text itself, the
// scope defaults to personal, and everything else stays empty for later
// rounds to fill in.
func DegradedRecord(rawText string) Record {
	rec := NewRecord()
	rec.ProductType = "application"
	rec.CoreGoal = truncate(strings.TrimSpace(rawText), degradedTruncateLen)
	return rec
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// fallbackText picks the text that seeds a degraded record: the latest answer
// when present, otherwise the most recent answer in the history.
func fallbackText(history []Turn, latestUserText string) string {
	if latestUserText != "" {
		return latestUserText
	}
	for i := len(history) - 1; i >= 0; i-- {
		if strings.TrimSpace(history[i].Answer) != "" {
			return history[i].Answer
		}
	}
	return ""
}
