package quality

import "strings"

// Overall weights per dimension. Completeness dominates: a document missing
// whole sections is broken no matter how polished the rest is.
const (
	completenessWeight = 0.25
	clarityWeight      = 0.20
	specificityWeight  = 0.15
	feasibilityWeight  = 0.15
	visualWeight       = 0.10
	aiReadinessWeight  = 0.15
)

// Assess scores the document. Each sub-score is an independent deterministic
// presence/length computation, so a missing section only drags down its own
// dimension.
func Assess(doc StructuredDocument) Report {
	r := Report{
		Completeness:      scoreCompleteness(doc),
		Clarity:           scoreClarity(doc),
		Specificity:       scoreSpecificity(doc),
		Feasibility:       scoreFeasibility(doc),
		VisualQuality:     scoreVisualQuality(doc),
		AICodingReadiness: scoreAICodingReadiness(doc),
	}

	r.OverallScore = completenessWeight*r.Completeness +
		clarityWeight*r.Clarity +
		specificityWeight*r.Specificity +
		feasibilityWeight*r.Feasibility +
		visualWeight*r.VisualQuality +
		aiReadinessWeight*r.AICodingReadiness

	r.Recommendations, r.Strengths = adviceFor(r)
	return r
}

// scoreCompleteness counts five 0.2 presence checks: the title and the four
// required sections.
func scoreCompleteness(doc StructuredDocument) float64 {
	score := 0.0
	if strings.TrimSpace(doc.Title) != "" {
		score += 0.2
	}
	if doc.Overview != nil {
		score += 0.2
	}
	if doc.Requirements != nil {
		score += 0.2
	}
	if doc.TechnicalSpec != nil {
		score += 0.2
	}
	if doc.TestPlan != nil {
		score += 0.2
	}
	return score
}

// scoreClarity checks that prose sections are long enough to actually say
// something.
func scoreClarity(doc StructuredDocument) float64 {
	score := 0.0
	if doc.Overview != nil {
		if len(doc.Overview.Description) >= 80 {
			score += 0.4
		}
		if len(doc.Overview.ProblemStatement) >= 40 {
			score += 0.3
		}
	}
	if doc.TechnicalSpec != nil && len(doc.TechnicalSpec.Architecture) >= 40 {
		score += 0.3
	}
	return score
}

// scoreSpecificity counts itemized user stories and acceptance tests.
func scoreSpecificity(doc StructuredDocument) float64 {
	score := 0.0
	if doc.Requirements != nil {
		switch n := len(doc.Requirements.UserStories); {
		case n >= 3:
			score += 0.5
		case n >= 1:
			score += 0.25
		}
	}
	if doc.TestPlan != nil {
		switch n := len(doc.TestPlan.AcceptanceTests); {
		case n >= 3:
			score += 0.5
		case n >= 1:
			score += 0.25
		}
	}
	return score
}

// scoreFeasibility checks that the document commits to an implementation.
func scoreFeasibility(doc StructuredDocument) float64 {
	if doc.TechnicalSpec == nil {
		return 0
	}
	score := 0.0
	if len(doc.TechnicalSpec.TechStack) > 0 {
		score += 0.5
	}
	if strings.TrimSpace(doc.TechnicalSpec.Architecture) != "" {
		score += 0.3
	}
	if strings.TrimSpace(doc.TechnicalSpec.DataModel) != "" {
		score += 0.2
	}
	return score
}

// scoreVisualQuality checks for diagrams and style guidance.
func scoreVisualQuality(doc StructuredDocument) float64 {
	if doc.Design == nil {
		return 0
	}
	score := 0.0
	if len(doc.Design.Diagrams) >= 1 {
		score += 0.5
	}
	if len(doc.Design.Diagrams) >= 2 {
		score += 0.3
	}
	if strings.TrimSpace(doc.Design.StyleNotes) != "" {
		score += 0.2
	}
	return score
}

// scoreAICodingReadiness checks the material a coding agent needs: a file
// layout, instructions, and testable acceptance criteria.
func scoreAICodingReadiness(doc StructuredDocument) float64 {
	score := 0.0
	if doc.AICoding != nil {
		if strings.TrimSpace(doc.AICoding.FileStructure) != "" {
			score += 0.4
		}
		if strings.TrimSpace(doc.AICoding.Instructions) != "" {
			score += 0.3
		}
	}
	if doc.Requirements != nil {
		for _, s := range doc.Requirements.UserStories {
			if len(s.AcceptanceCriteria) > 0 {
				score += 0.3
				break
			}
		}
	}
	return score
}

// adviceRule emits a recommendation below the threshold and a strength at or
// above the strong mark.
type adviceRule struct {
	dimension      func(Report) float64
	threshold      float64
	strongMark     float64
	recommendation string
	strength       string
}

var adviceRules = []adviceRule{
	{
		dimension: func(r Report) float64 { return r.Completeness }, threshold: 0.8, strongMark: 1.0,
		recommendation: "Add the missing top-level sections; a PRD needs an overview, requirements, a technical specification and a test plan.",
		strength:       "All required sections are present.",
	},
	{
		dimension: func(r Report) float64 { return r.Clarity }, threshold: 0.6, strongMark: 0.9,
		recommendation: "Expand the overview and problem statement; short descriptions leave too much open to interpretation.",
		strength:       "The prose sections are substantial and unambiguous.",
	},
	{
		dimension: func(r Report) float64 { return r.Specificity }, threshold: 0.5, strongMark: 0.9,
		recommendation: "Itemize more user stories and acceptance tests; aim for at least three of each.",
		strength:       "Requirements are well itemized with stories and tests.",
	},
	{
		dimension: func(r Report) float64 { return r.Feasibility }, threshold: 0.6, strongMark: 0.9,
		recommendation: "Commit to a technology stack and describe the architecture and data model.",
		strength:       "The technical specification commits to a concrete implementation.",
	},
	{
		dimension: func(r Report) float64 { return r.VisualQuality }, threshold: 0.5, strongMark: 0.8,
		recommendation: "Add diagrams (user flow, architecture) to the design section.",
		strength:       "The design section includes useful diagrams.",
	},
	{
		dimension: func(r Report) float64 { return r.AICodingReadiness }, threshold: 0.6, strongMark: 0.9,
		recommendation: "Add a file structure, coding instructions and per-story acceptance criteria so an AI agent can build from this document.",
		strength:       "The document is ready to hand to an AI coding agent.",
	},
}

func adviceFor(r Report) (recommendations, strengths []string) {
	for _, rule := range adviceRules {
		v := rule.dimension(r)
		if v < rule.threshold {
			recommendations = append(recommendations, rule.recommendation)
		}
		if v >= rule.strongMark {
			strengths = append(strengths, rule.strength)
		}
	}
	// Neither list may be empty: downstream UIs render both unconditionally.
	if len(recommendations) == 0 {
		recommendations = []string{"No significant gaps found; review wording before publishing."}
	}
	if len(strengths) == 0 {
		strengths = []string{"The document has a workable starting structure."}
	}
	return recommendations, strengths
}
