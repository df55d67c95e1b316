// Package policy decides whether the interview keeps going and, if so, which
// topic to probe next. Decisions are pure functions of the current score and
// round count, so sessions stay independent and testable in isolation.
package policy

import (
	"fmt"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
)

// Category is a questioning topic.
type Category string

const (
	CategoryFunctional Category = "functional"
	CategoryPainPoint  Category = "painpoint"
	CategoryData       Category = "data"
	CategoryInterface  Category = "interface"
)

// Action is the outcome of a policy decision.
type Action string

const (
	ActionContinue Action = "continue"
	ActionProceed  Action = "proceed_to_confirmation"
)

// DefaultMaxRounds caps how many questioning rounds one session may take.
const DefaultMaxRounds = 8

// Thresholds for ending the interview early: all critical facts present and
// a high enough overall picture.
const (
	proceedOverallThreshold = 0.75
)

// Decision is one policy outcome. Reasoning names the tier that drove the
// choice so every decision is explainable.
type Decision struct {
	Action       Action   `json:"action"`
	NextCategory Category `json:"next_category,omitempty"`
	Reasoning    string   `json:"reasoning"`
}

// Policy holds the tunable round cap.
type Policy struct {
	MaxRounds int
}

// New returns a policy with the default round cap.
func New() Policy {
	return Policy{MaxRounds: DefaultMaxRounds}
}

// categoryTiers maps each questioning category to the completeness tier its
// answers feed. Ordered: this is also the fixed tie-break priority.
var categoryOrder = []struct {
	category Category
	tierName string
	tier     func(completeness.Score) float64
}{
	{CategoryFunctional, "critical", func(s completeness.Score) float64 { return s.Critical }},
	{CategoryPainPoint, "important", func(s completeness.Score) float64 { return s.Important }},
	{CategoryData, "important", func(s completeness.Score) float64 { return s.Important }},
	{CategoryInterface, "optional", func(s completeness.Score) float64 { return s.Optional }},
}

// Decide picks the next action. lastCategory is the category asked in the
// immediately preceding round (empty for the first round); it is excluded
// from selection so the user is never probed on the same topic twice in a
// row. Decide never blocks on degraded scores: a degraded round simply
// continues until the round cap is hit.
func (p Policy) Decide(score completeness.Score, roundsTaken int, lastCategory Category) Decision {
	maxRounds := p.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	if roundsTaken >= maxRounds {
		return Decision{
			Action:    ActionProceed,
			Reasoning: fmt.Sprintf("round cap reached (%d); proceeding with what we have", maxRounds),
		}
	}

	if score.Critical >= 1.0 && score.Overall >= proceedOverallThreshold {
		return Decision{
			Action: ActionProceed,
			Reasoning: fmt.Sprintf("critical facts complete and overall completeness %.2f meets the %.2f threshold",
				score.Overall, proceedOverallThreshold),
		}
	}

	next, tierName := lowestCategory(score, lastCategory)
	return Decision{
		Action:       ActionContinue,
		NextCategory: next,
		Reasoning:    fmt.Sprintf("%s tier is the weakest; probing %s next", tierName, next),
	}
}

// lowestCategory finds the category whose mapped tier currently scores
// lowest, skipping the category asked last round. Ties resolve in the fixed
// priority order functional, painpoint, data, interface.
func lowestCategory(score completeness.Score, lastCategory Category) (Category, string) {
	best := -1
	for i, c := range categoryOrder {
		if c.category == lastCategory {
			continue
		}
		if best == -1 || c.tier(score) < categoryOrder[best].tier(score) {
			best = i
		}
	}
	if best == -1 {
		// Only possible if every category was excluded, which a single
		// lastCategory cannot do; fall back to the top-priority one.
		best = 0
	}
	return categoryOrder[best].category, categoryOrder[best].tierName
}
