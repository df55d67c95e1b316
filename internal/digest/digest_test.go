package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/reqpilot/internal/facts"
)

func TestBuild(t *testing.T) {
	confirmedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := facts.Record{
		ProductType:    "web app",
		CoreGoal:       "track daily habits",
		TargetUsers:    "students",
		UserScope:      facts.ScopeTeam,
		CoreFeatures:   []string{"habit list", "streaks"},
		PainPoint:      "forgetting routines",
		TechnicalHints: []string{"go", "sqlite"},
	}
	info := ContextInfo{
		SessionID:         "sess-1",
		OriginalUserInput: "I want a habit tracker",
		ConfirmedAt:       confirmedAt,
	}

	d := Build(rec, info)

	if d.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", d.SessionID)
	}
	if d.CoreGoal != "track daily habits" || d.UserScope != facts.ScopeTeam {
		t.Errorf("record fields not carried: %+v", d)
	}
	if d.OriginalUserInput != "I want a habit tracker" {
		t.Errorf("OriginalUserInput = %q", d.OriginalUserInput)
	}
	if !d.ConfirmedAt.Equal(confirmedAt) {
		t.Errorf("ConfirmedAt = %v, want %v", d.ConfirmedAt, confirmedAt)
	}

	t.Run("lists do not alias the record", func(t *testing.T) {
		rec.CoreFeatures[0] = "mutated"
		if d.CoreFeatures[0] != "habit list" {
			t.Error("digest aliases the record's feature slice")
		}
	})

	t.Run("empty lists stay nil", func(t *testing.T) {
		d := Build(facts.NewRecord(), ContextInfo{})
		if d.CoreFeatures != nil || d.TechnicalHints != nil {
			t.Error("empty lists should be nil in the digest")
		}
	})
}

func TestText(t *testing.T) {
	d := Build(facts.Record{
		ProductType:  "web app",
		CoreGoal:     "track daily habits",
		TargetUsers:  "students",
		UserScope:    facts.ScopePersonal,
		CoreFeatures: []string{"habit list"},
		PainPoint:    "forgetting routines",
	}, ContextInfo{SessionID: "s"})

	text := d.Text()
	for _, want := range []string{"web app", "track daily habits", "students", "habit list", "forgetting routines"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}

	t.Run("optional sections omitted when empty", func(t *testing.T) {
		text := Build(facts.NewRecord(), ContextInfo{}).Text()
		if strings.Contains(text, "Pain point") || strings.Contains(text, "Tech:") {
			t.Errorf("empty sections rendered:\n%s", text)
		}
	})
}
