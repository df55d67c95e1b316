package policy

import (
	"testing"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
)

func TestDecideRoundCap(t *testing.T) {
	p := New()
	zero := completeness.Score{}

	d := p.Decide(zero, DefaultMaxRounds, "")
	if d.Action != ActionProceed {
		t.Fatalf("action = %q at round cap, want proceed", d.Action)
	}

	d = p.Decide(zero, DefaultMaxRounds-1, "")
	if d.Action != ActionContinue {
		t.Fatalf("action = %q below round cap, want continue", d.Action)
	}

	t.Run("custom cap", func(t *testing.T) {
		p := Policy{MaxRounds: 3}
		if d := p.Decide(zero, 3, ""); d.Action != ActionProceed {
			t.Errorf("action = %q at custom cap, want proceed", d.Action)
		}
	})

	t.Run("zero cap falls back to default", func(t *testing.T) {
		p := Policy{}
		if d := p.Decide(zero, 1, ""); d.Action != ActionContinue {
			t.Errorf("action = %q, want continue", d.Action)
		}
		if d := p.Decide(zero, DefaultMaxRounds, ""); d.Action != ActionProceed {
			t.Errorf("action = %q, want proceed", d.Action)
		}
	})
}

func TestDecideProceedThreshold(t *testing.T) {
	p := New()

	tests := []struct {
		name  string
		score completeness.Score
		want  Action
	}{
		{
			"critical complete and overall above threshold",
			completeness.Score{Critical: 1, Important: 1, Optional: 0, Overall: 0.8},
			ActionProceed,
		},
		{
			"critical complete and overall exactly at threshold",
			completeness.Score{Critical: 1, Important: 2.0 / 3.0, Optional: 0.25, Overall: 0.75},
			ActionProceed,
		},
		{
			"critical complete but overall below threshold",
			completeness.Score{Critical: 1, Important: 0, Optional: 0, Overall: 0.5},
			ActionContinue,
		},
		{
			"overall high but critical incomplete",
			completeness.Score{Critical: 2.0 / 3.0, Important: 1, Optional: 1, Overall: 0.83},
			ActionContinue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(tt.score, 2, "")
			if d.Action != tt.want {
				t.Errorf("action = %q, want %q (reasoning: %s)", d.Action, tt.want, d.Reasoning)
			}
			if d.Reasoning == "" {
				t.Error("reasoning should never be empty")
			}
		})
	}
}

func TestDecideCategorySelection(t *testing.T) {
	p := New()

	t.Run("all tiers empty picks functional", func(t *testing.T) {
		d := p.Decide(completeness.Score{}, 0, "")
		if d.NextCategory != CategoryFunctional {
			t.Errorf("category = %q, want functional on ties", d.NextCategory)
		}
	})

	t.Run("weakest tier wins", func(t *testing.T) {
		score := completeness.Score{Critical: 1, Important: 0.5, Optional: 0.2, Overall: 0.69}
		d := p.Decide(score, 1, "")
		if d.NextCategory != CategoryInterface {
			t.Errorf("category = %q, want interface for weakest optional tier", d.NextCategory)
		}
	})

	t.Run("important tier ties break to painpoint", func(t *testing.T) {
		score := completeness.Score{Critical: 1, Important: 0, Optional: 0.5, Overall: 0.6}
		d := p.Decide(score, 1, "")
		if d.NextCategory != CategoryPainPoint {
			t.Errorf("category = %q, want painpoint over data on a tie", d.NextCategory)
		}
	})

	t.Run("never repeats last category", func(t *testing.T) {
		score := completeness.Score{}
		d := p.Decide(score, 1, CategoryFunctional)
		if d.NextCategory == CategoryFunctional {
			t.Error("repeated the category asked last round")
		}
		if d.NextCategory != CategoryPainPoint {
			t.Errorf("category = %q, want painpoint as next in priority", d.NextCategory)
		}
	})

	t.Run("alternates over a full interview", func(t *testing.T) {
		last := Category("")
		for round := 0; round < DefaultMaxRounds-1; round++ {
			d := p.Decide(completeness.Score{}, round, last)
			if d.Action != ActionContinue {
				t.Fatalf("round %d: action = %q", round, d.Action)
			}
			if d.NextCategory == last {
				t.Fatalf("round %d: category %q repeated", round, d.NextCategory)
			}
			last = d.NextCategory
		}
	})
}

func TestLowestCategory(t *testing.T) {
	t.Run("skips excluded category even when weakest", func(t *testing.T) {
		score := completeness.Score{Critical: 0, Important: 1, Optional: 1}
		got, _ := lowestCategory(score, CategoryFunctional)
		if got == CategoryFunctional {
			t.Error("excluded category selected")
		}
		if got != CategoryPainPoint {
			t.Errorf("got %q, want painpoint as next weakest by priority", got)
		}
	})

	t.Run("reports the driving tier", func(t *testing.T) {
		score := completeness.Score{Critical: 1, Important: 1, Optional: 0}
		got, tier := lowestCategory(score, "")
		if got != CategoryInterface || tier != "optional" {
			t.Errorf("got %q/%q, want interface/optional", got, tier)
		}
	})
}
