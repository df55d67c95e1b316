package confirm

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/reqpilot/internal/facts"
)

const notProvided = "_not provided yet_"

// RenderSummary produces the field-by-field markdown summary shown to the
// user for review.
func RenderSummary(rec facts.Record) string {
	var b strings.Builder

	b.WriteString("# Requirements Summary\n\n")

	b.WriteString("## Product\n")
	writeField(&b, "Type", rec.ProductType)
	writeField(&b, "Core goal", rec.CoreGoal)
	writeField(&b, "Target users", rec.TargetUsers)
	writeField(&b, "Scope", string(rec.UserScope))

	b.WriteString("\n## Features\n")
	writeList(&b, rec.CoreFeatures)

	b.WriteString("\n## Context\n")
	writeField(&b, "Use scenario", rec.UseScenario)
	writeField(&b, "User journey", rec.UserJourney)
	writeField(&b, "Input / output", rec.InputOutput)
	writeField(&b, "Pain point", rec.PainPoint)
	writeField(&b, "Current solution", rec.CurrentSolution)

	b.WriteString("\n## Technical\n")
	writeField(&b, "Hints", strings.Join(rec.TechnicalHints, ", "))
	writeField(&b, "Integrations", strings.Join(rec.IntegrationNeeds, ", "))
	writeField(&b, "Performance", rec.PerformanceRequirements)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = notProvided
	}
	fmt.Fprintf(b, "- **%s**: %s\n", label, value)
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "- %s\n", notProvided)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
