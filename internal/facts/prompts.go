package facts

import (
	"fmt"
	"strings"
)

const extractionSystemPrompt = `You are a product-requirements extraction engine. You read a conversation about a product idea and extract what has been learned so far into structured facts.

You MUST respond with valid JSON matching this schema:
{
  "product_type": "what kind of product this is (web app, CLI tool, mobile app, ...)",
  "core_goal": "the one thing the product must achieve",
  "target_users": "who will use it",
  "user_scope": "personal|team|public",
  "core_features": ["feature 1", "feature 2"],
  "use_scenario": "when and where the product is used",
  "user_journey": "the end-to-end flow a user walks through",
  "input_output": "what goes in and what comes out",
  "pain_point": "the problem being solved",
  "current_solution": "how the user handles this today",
  "technical_hints": ["tech preferences the user mentioned"],
  "integration_needs": ["external systems to connect to"],
  "performance_requirements": "speed, scale or latency expectations"
}

Rules:
- Only extract what the user actually said or clearly implied. Leave fields you know nothing about as empty strings or empty arrays.
- Never invent features or requirements.
- Keep each value concise, one or two sentences at most.
- core_features entries are short noun phrases, one per feature.`

// maxHistoryTurns bounds how much conversation is replayed into the prompt.
const maxHistoryTurns = 10

func buildExtractionPrompt(history []Turn, latestUserText string) string {
	var b strings.Builder

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	if len(history) > 0 {
		b.WriteString("## Conversation so far\n")
		for _, t := range history {
			if t.Question != "" {
				fmt.Fprintf(&b, "Q: %s\n", t.Question)
			}
			if t.Answer != "" {
				fmt.Fprintf(&b, "A: %s\n", t.Answer)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Latest user answer\n%s\n", latestUserText)
	b.WriteString("\nExtract all product facts from the conversation above.")

	return b.String()
}
