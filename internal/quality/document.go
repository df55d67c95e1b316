// Package quality scores a generated requirements document against fixed
// criteria. It only looks at the document's structured shape, never at how
// the document was produced.
package quality

// StructuredDocument is the shape of a generated PRD as delivered by the
// document generator. Optional sections are pointers so an absent section is
// distinguishable from an empty one.
type StructuredDocument struct {
	Title         string         `json:"title"`
	Overview      *Overview      `json:"overview,omitempty"`
	Requirements  *Requirements  `json:"requirements,omitempty"`
	TechnicalSpec *TechnicalSpec `json:"technical_specification,omitempty"`
	Design        *DesignSection `json:"design,omitempty"`
	TestPlan      *TestPlan      `json:"test_plan,omitempty"`
	AICoding      *AICodingGuide `json:"ai_coding,omitempty"`
}

// Overview introduces the product.
type Overview struct {
	Description      string `json:"description"`
	ProblemStatement string `json:"problem_statement"`
	TargetAudience   string `json:"target_audience"`
}

// Requirements lists what the product must do.
type Requirements struct {
	UserStories []UserStory `json:"user_stories"`
	Functional  []string    `json:"functional"`
}

// UserStory is one itemized requirement from the user's perspective.
type UserStory struct {
	Role               string   `json:"role"`
	Goal               string   `json:"goal"`
	Benefit            string   `json:"benefit"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// TechnicalSpec describes how the product will be built.
type TechnicalSpec struct {
	TechStack    []string `json:"tech_stack"`
	Architecture string   `json:"architecture"`
	DataModel    string   `json:"data_model"`
	APIs         []string `json:"apis"`
}

// DesignSection carries visual material.
type DesignSection struct {
	Diagrams   []string `json:"diagrams"` // mermaid sources
	StyleNotes string   `json:"style_notes"`
}

// TestPlan lists how the product will be verified.
type TestPlan struct {
	AcceptanceTests []AcceptanceTest `json:"acceptance_tests"`
	Strategy        string           `json:"strategy"`
}

// AcceptanceTest is one itemized verification scenario.
type AcceptanceTest struct {
	Name     string `json:"name"`
	Scenario string `json:"scenario"`
	Expected string `json:"expected"`
}

// AICodingGuide is the section aimed at AI coding agents consuming the PRD.
type AICodingGuide struct {
	FileStructure string `json:"file_structure"`
	Instructions  string `json:"instructions"`
}

// Report is the scored assessment of one document. Each dimension and the
// overall figure are in [0,1]. Recommendations and strengths are never empty.
type Report struct {
	Completeness      float64  `json:"completeness"`
	Clarity           float64  `json:"clarity"`
	Specificity       float64  `json:"specificity"`
	Feasibility       float64  `json:"feasibility"`
	VisualQuality     float64  `json:"visual_quality"`
	AICodingReadiness float64  `json:"ai_coding_readiness"`
	OverallScore      float64  `json:"overall_score"`
	Recommendations   []string `json:"recommendations"`
	Strengths         []string `json:"strengths"`
}
