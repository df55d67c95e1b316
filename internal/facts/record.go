package facts

import "strings"

// Scope describes who the product is intended to serve.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeTeam     Scope = "team"
	ScopePublic   Scope = "public"
)

// ParseScope normalizes a user-supplied scope string. Unknown values fall
// back to personal, the most conservative assumption.
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeTeam:
		return ScopeTeam
	case ScopePublic:
		return ScopePublic
	default:
		return ScopePersonal
	}
}

// Record is the structured snapshot of everything learned about the user's
// product idea so far. All fields are always present; an empty value means
// "not yet learned". Fields are only ever refined across rounds, never removed.
type Record struct {
	ProductType             string   `json:"product_type"`
	CoreGoal                string   `json:"core_goal"`
	TargetUsers             string   `json:"target_users"`
	UserScope               Scope    `json:"user_scope"`
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

// NewRecord returns an empty record with the default scope.
func NewRecord() Record {
	return Record{UserScope: ScopePersonal}
}

// Merge combines new evidence into a prior record. Non-empty incoming string
// fields overwrite empty prior values; a non-empty prior value is only replaced
// when the incoming value is also non-empty (later answers refine earlier
// ones). List fields are unioned order-preserving with case-insensitive
// de-duplication.
func Merge(prior, incoming Record) Record {
	merged := prior

	merged.ProductType = pickString(prior.ProductType, incoming.ProductType)
	merged.CoreGoal = pickString(prior.CoreGoal, incoming.CoreGoal)
	merged.TargetUsers = pickString(prior.TargetUsers, incoming.TargetUsers)
	merged.UseScenario = pickString(prior.UseScenario, incoming.UseScenario)
	merged.UserJourney = pickString(prior.UserJourney, incoming.UserJourney)
	merged.InputOutput = pickString(prior.InputOutput, incoming.InputOutput)
	merged.PainPoint = pickString(prior.PainPoint, incoming.PainPoint)
	merged.CurrentSolution = pickString(prior.CurrentSolution, incoming.CurrentSolution)
	merged.PerformanceRequirements = pickString(prior.PerformanceRequirements, incoming.PerformanceRequirements)

	if incoming.UserScope != "" && incoming.UserScope != ScopePersonal {
		merged.UserScope = incoming.UserScope
	}
	if merged.UserScope == "" {
		merged.UserScope = ScopePersonal
	}

	merged.CoreFeatures = unionLists(prior.CoreFeatures, incoming.CoreFeatures)
	merged.TechnicalHints = unionLists(prior.TechnicalHints, incoming.TechnicalHints)
	merged.IntegrationNeeds = unionLists(prior.IntegrationNeeds, incoming.IntegrationNeeds)

	return merged
}

func pickString(prior, incoming string) string {
	if strings.TrimSpace(incoming) != "" {
		return strings.TrimSpace(incoming)
	}
	return prior
}

// unionLists appends items from incoming that are not already in prior,
// comparing case-insensitively after trimming.
func unionLists(prior, incoming []string) []string {
	seen := make(map[string]bool, len(prior))
	var out []string
	for _, v := range prior {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	for _, v := range incoming {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
