// Package completeness scores how much of a facts record has been filled in,
// split across three fixed priority tiers.
package completeness

import (
	"strings"

	"github.com/ziadkadry99/reqpilot/internal/facts"
)

// Tier weights. Overall is always this convex combination of the tier
// scores; missing core facts must dominate the signal.
const (
	criticalWeight  = 0.5
	importantWeight = 0.3
	optionalWeight  = 0.2
)

// minFieldLength is the smallest trimmed rune count for a string field to
// count as present. Rejects empty and single-character noise answers.
const minFieldLength = 2

// Score holds per-tier completeness plus the weighted overall figure, each
// in [0,1]. It is derived from a Record on demand and never stored.
type Score struct {
	Critical  float64 `json:"critical"`
	Important float64 `json:"important"`
	Optional  float64 `json:"optional"`
	Overall   float64 `json:"overall"`
}

// field is one scored record field: its adjustment path name and a presence test.
type field struct {
	name    string
	present func(facts.Record) bool
}

func stringField(name string, get func(facts.Record) string) field {
	return field{name: name, present: func(r facts.Record) bool {
		return PresentString(get(r))
	}}
}

func listField(name string, get func(facts.Record) []string) field {
	return field{name: name, present: func(r facts.Record) bool {
		return len(get(r)) > 0
	}}
}

// Tier membership is fixed. critical = what the product is and does,
// important = the context it lives in, optional = implementation detail.
var (
	criticalFields = []field{
		stringField("coreGoal", func(r facts.Record) string { return r.CoreGoal }),
		stringField("targetUsers", func(r facts.Record) string { return r.TargetUsers }),
		listField("coreFeatures", func(r facts.Record) []string { return r.CoreFeatures }),
	}
	importantFields = []field{
		stringField("useScenario", func(r facts.Record) string { return r.UseScenario }),
		stringField("painPoint", func(r facts.Record) string { return r.PainPoint }),
		stringField("inputOutput", func(r facts.Record) string { return r.InputOutput }),
	}
	optionalFields = []field{
		stringField("currentSolution", func(r facts.Record) string { return r.CurrentSolution }),
		listField("technicalHints", func(r facts.Record) []string { return r.TechnicalHints }),
		listField("integrationNeeds", func(r facts.Record) []string { return r.IntegrationNeeds }),
		stringField("performanceRequirements", func(r facts.Record) string { return r.PerformanceRequirements }),
		stringField("userJourney", func(r facts.Record) string { return r.UserJourney }),
	}
)

// PresentString reports whether a string field value counts as filled in.
func PresentString(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= minFieldLength
}

// Evaluate scores the record. Pure and deterministic: the same record always
// yields the same score.
func Evaluate(rec facts.Record) Score {
	critical := tierScore(rec, criticalFields)
	important := tierScore(rec, importantFields)
	optional := tierScore(rec, optionalFields)

	return Score{
		Critical:  critical,
		Important: important,
		Optional:  optional,
		Overall:   criticalWeight*critical + importantWeight*important + optionalWeight*optional,
	}
}

func tierScore(rec facts.Record, fields []field) float64 {
	presentCount := 0
	for _, f := range fields {
		if f.present(rec) {
			presentCount++
		}
	}
	return float64(presentCount) / float64(len(fields))
}

// MissingFields lists the field names that fail the presence test, tier
// order preserved. Used to warn the user before confirming a summary.
func MissingFields(rec facts.Record) []string {
	var missing []string
	for _, tier := range [][]field{criticalFields, importantFields, optionalFields} {
		for _, f := range tier {
			if !f.present(rec) {
				missing = append(missing, f.name)
			}
		}
	}
	return missing
}

// DegradedScore is the fallback used when no record has been extracted yet
// for a session. The tier values are heuristics, not derived figures; they
// are chosen so the overall still satisfies the weighted-sum invariant.
func DegradedScore() Score {
	const (
		critical  = 0.5
		important = 0.5
		optional  = 0.75
	)
	return Score{
		Critical:  critical,
		Important: important,
		Optional:  optional,
		Overall:   criticalWeight*critical + importantWeight*important + optionalWeight*optional, // 0.55
	}
}
