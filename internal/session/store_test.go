package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ziadkadry99/reqpilot/internal/confirm"
	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/facts"
	"github.com/ziadkadry99/reqpilot/internal/policy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session ID empty")
	}
	if sess.Status != StatusCollecting {
		t.Errorf("status = %q, want collecting", sess.Status)
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if got.UserID != "user-1" || got.Status != StatusCollecting {
		t.Errorf("loaded session = %+v", got)
	}

	t.Run("empty user becomes anonymous", func(t *testing.T) {
		sess, err := store.CreateSession(ctx, "")
		if err != nil {
			t.Fatal(err)
		}
		if sess.UserID != "anonymous" {
			t.Errorf("UserID = %q", sess.UserID)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := store.GetSession(ctx, "nope")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestUpdateSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}

	sess.Status = StatusConfirming
	sess.OriginalInput = "a habit tracker"
	sess.PendingQuestion = "Who is it for?"
	sess.PendingCategory = policy.CategoryFunctional
	sess.LastCategory = policy.CategoryPainPoint
	if err := store.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("updating session: %v", err)
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusConfirming || got.OriginalInput != "a habit tracker" {
		t.Errorf("loaded = %+v", got)
	}
	if got.PendingCategory != policy.CategoryFunctional || got.LastCategory != policy.CategoryPainPoint {
		t.Errorf("categories = %q/%q", got.PendingCategory, got.LastCategory)
	}

	t.Run("unknown session", func(t *testing.T) {
		bad := *sess
		bad.ID = "nope"
		if err := store.UpdateSession(ctx, &bad); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}

	for i, turn := range []Turn{
		{SessionID: sess.ID, Question: "", Answer: "a habit tracker", Category: ""},
		{SessionID: sess.ID, Question: "Who is it for?", Answer: "just me", Category: policy.CategoryFunctional, Degraded: true},
	} {
		if _, err := store.AddTurn(ctx, turn); err != nil {
			t.Fatalf("adding turn %d: %v", i, err)
		}
	}

	turns, err := store.GetTurns(ctx, sess.ID)
	if err != nil {
		t.Fatalf("loading turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	if turns[0].Answer != "a habit tracker" {
		t.Errorf("turns out of order: %+v", turns)
	}
	if !turns[1].Degraded || turns[1].Category != policy.CategoryFunctional {
		t.Errorf("turn fields lost: %+v", turns[1])
	}
}

func TestRecordRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("absent record is nil", func(t *testing.T) {
		rec, err := store.GetRecord(ctx, sess.ID)
		if err != nil {
			t.Fatal(err)
		}
		if rec != nil {
			t.Errorf("rec = %+v, want nil", rec)
		}
	})

	rec := facts.Record{
		CoreGoal:     "track habits",
		UserScope:    facts.ScopeTeam,
		CoreFeatures: []string{"lists", "streaks"},
	}
	if err := store.SaveRecord(ctx, sess.ID, rec); err != nil {
		t.Fatalf("saving record: %v", err)
	}

	got, err := store.GetRecord(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CoreGoal != "track habits" || got.UserScope != facts.ScopeTeam || len(got.CoreFeatures) != 2 {
		t.Errorf("loaded record = %+v", got)
	}

	t.Run("save is an upsert", func(t *testing.T) {
		rec.CoreGoal = "track habits with reminders"
		if err := store.SaveRecord(ctx, sess.ID, rec); err != nil {
			t.Fatal(err)
		}
		got, err := store.GetRecord(ctx, sess.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.CoreGoal != "track habits with reminders" {
			t.Errorf("CoreGoal = %q", got.CoreGoal)
		}
	})
}

func TestConfirmationStates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}

	m := confirm.NewMachine(facts.Record{CoreGoal: "track habits"})
	if _, err := m.Confirm(); err != nil {
		t.Fatal(err)
	}
	for _, st := range m.History() {
		if err := store.SaveConfirmationState(ctx, sess.ID, st); err != nil {
			t.Fatalf("saving state seq %d: %v", st.Seq, err)
		}
	}

	states, err := store.GetConfirmationStates(ctx, sess.ID)
	if err != nil {
		t.Fatalf("loading states: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("len(states) = %d, want 2", len(states))
	}
	if states[0].Phase != confirm.PhaseSummaryGenerated || states[1].Phase != confirm.PhaseConfirmed {
		t.Errorf("phases = %q, %q", states[0].Phase, states[1].Phase)
	}
	if states[0].Record.CoreGoal != "track habits" {
		t.Errorf("record not round-tripped: %+v", states[0].Record)
	}
}

func TestClearSessionData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddTurn(ctx, Turn{SessionID: sess.ID, Answer: "hi"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRecord(ctx, sess.ID, facts.Record{CoreGoal: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearSessionData(ctx, sess.ID); err != nil {
		t.Fatalf("clearing: %v", err)
	}

	turns, err := store.GetTurns(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Errorf("turns survive clear: %v", turns)
	}
	rec, err := store.GetRecord(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("record survives clear: %+v", rec)
	}

	// The session row itself stays.
	if _, err := store.GetSession(ctx, sess.ID); err != nil {
		t.Errorf("session row deleted by clear: %v", err)
	}
}
