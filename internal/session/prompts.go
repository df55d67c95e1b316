package session

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/reqpilot/internal/facts"
	"github.com/ziadkadry99/reqpilot/internal/policy"
)

const questionSystemPrompt = `You are a friendly product-requirements interviewer. Given what is already known about a product idea and a topic to probe, write ONE short, concrete follow-up question a non-technical founder could answer. No preamble, no numbering, just the question.`

// categoryFocus tells the model what each questioning topic is after.
var categoryFocus = map[policy.Category]string{
	policy.CategoryFunctional: "what the product must do: its core goal, target users and main features",
	policy.CategoryPainPoint:  "the problem being solved and how the user copes with it today",
	policy.CategoryData:       "the data involved: what goes in, what comes out, where it lives",
	policy.CategoryInterface:  "how the product is used: the user journey, scenario and integrations",
}

// fallbackQuestions are the canned per-category questions used when the
// model cannot phrase one. The interview must never stall on a dead upstream.
var fallbackQuestions = map[policy.Category]string{
	policy.CategoryFunctional: "What are the main things a user should be able to do with this product?",
	policy.CategoryPainPoint:  "What problem are you trying to solve, and how do you deal with it today?",
	policy.CategoryData:       "What information goes into the product, and what should come out of it?",
	policy.CategoryInterface:  "Walk me through a typical session: how would someone use this from start to finish?",
}

func buildQuestionPrompt(category policy.Category, rec facts.Record) string {
	var b strings.Builder

	b.WriteString("## What we know so far\n")
	known := false
	lines := []struct {
		label string
		value string
	}{
		{"Product", rec.ProductType},
		{"Core goal", rec.CoreGoal},
		{"Target users", rec.TargetUsers},
		{"Pain point", rec.PainPoint},
		{"Scenario", rec.UseScenario},
	}
	for _, l := range lines {
		if strings.TrimSpace(l.value) != "" {
			fmt.Fprintf(&b, "- %s: %s\n", l.label, l.value)
			known = true
		}
	}
	if len(rec.CoreFeatures) > 0 {
		fmt.Fprintf(&b, "- Features: %s\n", strings.Join(rec.CoreFeatures, "; "))
		known = true
	}
	if !known {
		b.WriteString("(Nothing yet; this is the first question.)\n")
	}

	fmt.Fprintf(&b, "\n## Topic to probe\n%s\n", categoryFocus[category])
	b.WriteString("\nWrite the single best next question.")

	return b.String()
}
