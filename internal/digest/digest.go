// Package digest builds the frozen projection of a confirmed facts record
// that the downstream document generator consumes.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/reqpilot/internal/facts"
)

// ContextInfo carries session metadata attached to the digest for
// downstream traceability.
type ContextInfo struct {
	SessionID         string
	OriginalUserInput string
	ConfirmedAt       time.Time
}

// Digest is the canonical, immutable input to document generation. It is a
// value type built once from a confirmed record and never mutated after.
type Digest struct {
	SessionID               string       `json:"session_id"`
	ProductType             string       `json:"product_type"`
	CoreGoal                string       `json:"core_goal"`
	TargetUsers             string       `json:"target_users"`
	UserScope               facts.Scope  `json:"user_scope"`
	CoreFeatures            []string     `json:"core_features"`
	UseScenario             string       `json:"use_scenario"`
	UserJourney             string       `json:"user_journey"`
	InputOutput             string       `json:"input_output"`
	PainPoint               string       `json:"pain_point"`
	CurrentSolution         string       `json:"current_solution"`
	TechnicalHints          []string     `json:"technical_hints"`
	IntegrationNeeds        []string     `json:"integration_needs"`
	PerformanceRequirements string       `json:"performance_requirements"`
	OriginalUserInput       string       `json:"original_user_input"`
	ConfirmedAt             time.Time    `json:"confirmed_at"`
}

// Build projects a confirmed record plus contextual metadata into a Digest.
// The record's list fields are copied so the digest does not alias caller
// memory.
func Build(rec facts.Record, info ContextInfo) Digest {
	return Digest{
		SessionID:               info.SessionID,
		ProductType:             rec.ProductType,
		CoreGoal:                rec.CoreGoal,
		TargetUsers:             rec.TargetUsers,
		UserScope:               rec.UserScope,
		CoreFeatures:            copyList(rec.CoreFeatures),
		UseScenario:             rec.UseScenario,
		UserJourney:             rec.UserJourney,
		InputOutput:             rec.InputOutput,
		PainPoint:               rec.PainPoint,
		CurrentSolution:         rec.CurrentSolution,
		TechnicalHints:          copyList(rec.TechnicalHints),
		IntegrationNeeds:        copyList(rec.IntegrationNeeds),
		PerformanceRequirements: rec.PerformanceRequirements,
		OriginalUserInput:       info.OriginalUserInput,
		ConfirmedAt:             info.ConfirmedAt,
	}
}

func copyList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Text flattens the digest into a single searchable string, used when
// storing confirmed sessions in the digest memory.
func (d Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.ProductType, d.CoreGoal)
	fmt.Fprintf(&b, "Users: %s (%s)\n", d.TargetUsers, d.UserScope)
	if len(d.CoreFeatures) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(d.CoreFeatures, "; "))
	}
	if d.PainPoint != "" {
		fmt.Fprintf(&b, "Pain point: %s\n", d.PainPoint)
	}
	if d.UseScenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", d.UseScenario)
	}
	if len(d.TechnicalHints) > 0 {
		fmt.Fprintf(&b, "Tech: %s\n", strings.Join(d.TechnicalHints, "; "))
	}
	return b.String()
}
