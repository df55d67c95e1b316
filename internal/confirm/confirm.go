// Package confirm implements the confirmation flow: a small finite-state
// machine over immutable snapshots that turns accumulated facts into a
// reviewable summary and lets the user amend it before committing.
package confirm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/reqpilot/internal/completeness"
	"github.com/ziadkadry99/reqpilot/internal/facts"
)

var (
	// ErrInvalidAdjustment means an adjustment batch referenced an unknown
	// field path. The whole batch is rejected; prior state is untouched.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrInvalidTransition means the requested action is not legal from the
	// current phase. State is unchanged.
	ErrInvalidTransition = errors.New("invalid confirmation transition")
)

// Phase is a confirmation state-machine phase.
type Phase string

const (
	PhaseSummaryGenerated Phase = "summary_generated"
	PhaseConfirmed        Phase = "confirmed"
	PhaseAdjusted         Phase = "adjusted"
	PhaseRestartRequested Phase = "restart_requested"
)

// ValidationResult flags record fields that still fail the presence test,
// shown to the user before they confirm.
type ValidationResult struct {
	Complete      bool     `json:"complete"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// State is one immutable snapshot of the confirmation flow. Every action
// produces a new State with the next sequence number; prior states are kept
// for audit and undo.
type State struct {
	ID         string           `json:"id"`
	Seq        int              `json:"seq"`
	Phase      Phase            `json:"phase"`
	Summary    string           `json:"summary"`
	Validation ValidationResult `json:"validation"`
	Record     facts.Record     `json:"record"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Adjustment is a user-authored patch against one record field. Batches are
// applied atomically: one bad path rejects the whole batch.
type Adjustment struct {
	FieldPath string `json:"field_path"`
	NewValue  any    `json:"new_value"`
}

// Machine walks a record through summary, adjustment and confirmation.
type Machine struct {
	states []State
}

// NewMachine starts a confirmation flow for a finished elicitation,
// generating the initial summary state.
func NewMachine(rec facts.Record) *Machine {
	m := &Machine{}
	m.push(PhaseSummaryGenerated, rec)
	return m
}

// Restore rebuilds a machine from previously persisted states, oldest first.
func Restore(states []State) (*Machine, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("no confirmation states to restore")
	}
	return &Machine{states: states}, nil
}

// Current returns the latest state.
func (m *Machine) Current() State {
	return m.states[len(m.states)-1]
}

// History returns every state in order, oldest first.
func (m *Machine) History() []State {
	out := make([]State, len(m.states))
	copy(out, m.states)
	return out
}

func (m *Machine) push(phase Phase, rec facts.Record) State {
	st := State{
		ID:        uuid.NewString(),
		Seq:       len(m.states) + 1,
		Phase:     phase,
		Record:    rec,
		CreatedAt: time.Now().UTC(),
	}
	if phase == PhaseSummaryGenerated {
		st.Summary = RenderSummary(rec)
		missing := completeness.MissingFields(rec)
		st.Validation = ValidationResult{Complete: len(missing) == 0, MissingFields: missing}
	}
	m.states = append(m.states, st)
	return st
}

// ApplyAdjustments validates and applies a batch of field patches, then
// re-summarizes the patched record. On any unknown field path the batch is
// rejected with ErrInvalidAdjustment and no state is added.
func (m *Machine) ApplyAdjustments(adjs []Adjustment) (State, error) {
	if m.Current().Phase != PhaseSummaryGenerated {
		return State{}, fmt.Errorf("%w: cannot adjust from phase %s", ErrInvalidTransition, m.Current().Phase)
	}
	if len(adjs) == 0 {
		return State{}, fmt.Errorf("%w: empty adjustment batch", ErrInvalidAdjustment)
	}

	// Validate the entire batch before touching the record.
	for _, a := range adjs {
		if _, ok := fieldAppliers[a.FieldPath]; !ok {
			return State{}, fmt.Errorf("%w: unknown field path %q", ErrInvalidAdjustment, a.FieldPath)
		}
	}

	patched := m.Current().Record
	for _, a := range adjs {
		if err := fieldAppliers[a.FieldPath](&patched, a.NewValue); err != nil {
			return State{}, fmt.Errorf("%w: field %q: %v", ErrInvalidAdjustment, a.FieldPath, err)
		}
	}

	m.push(PhaseAdjusted, patched)
	return m.push(PhaseSummaryGenerated, patched), nil
}

// Confirm accepts the current summary as final. Only legal from a
// freshly generated summary.
func (m *Machine) Confirm() (State, error) {
	if m.Current().Phase != PhaseSummaryGenerated {
		return State{}, fmt.Errorf("%w: confirm requires phase %s, current is %s",
			ErrInvalidTransition, PhaseSummaryGenerated, m.Current().Phase)
	}
	return m.push(PhaseConfirmed, m.Current().Record), nil
}

// Confirmed reports whether the flow has reached its terminal success phase.
func (m *Machine) Confirmed() bool {
	return m.Current().Phase == PhaseConfirmed
}

// Restart signals the caller to discard the session and start over. Legal
// from any phase.
func (m *Machine) Restart() State {
	return m.push(PhaseRestartRequested, m.Current().Record)
}

// fieldAppliers maps adjustment field paths to record mutations. The set of
// paths doubles as the definition of "known field".
var fieldAppliers = map[string]func(*facts.Record, any) error{
	"productType": func(r *facts.Record, v any) error { return setString(&r.ProductType, v) },
	"coreGoal":    func(r *facts.Record, v any) error { return setString(&r.CoreGoal, v) },
	"targetUsers": func(r *facts.Record, v any) error { return setString(&r.TargetUsers, v) },
	"userScope": func(r *facts.Record, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		r.UserScope = facts.ParseScope(s)
		return nil
	},
	"coreFeatures":            func(r *facts.Record, v any) error { return setList(&r.CoreFeatures, v) },
	"useScenario":             func(r *facts.Record, v any) error { return setString(&r.UseScenario, v) },
	"userJourney":             func(r *facts.Record, v any) error { return setString(&r.UserJourney, v) },
	"inputOutput":             func(r *facts.Record, v any) error { return setString(&r.InputOutput, v) },
	"painPoint":               func(r *facts.Record, v any) error { return setString(&r.PainPoint, v) },
	"currentSolution":         func(r *facts.Record, v any) error { return setString(&r.CurrentSolution, v) },
	"technicalHints":          func(r *facts.Record, v any) error { return setList(&r.TechnicalHints, v) },
	"integrationNeeds":        func(r *facts.Record, v any) error { return setList(&r.IntegrationNeeds, v) },
	"performanceRequirements": func(r *facts.Record, v any) error { return setString(&r.PerformanceRequirements, v) },
}

func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	*dst = s
	return nil
}

// setList accepts either a []string, a JSON-decoded []any of strings, or a
// single string (replacing the list with one element).
func setList(dst *[]string, v any) error {
	switch val := v.(type) {
	case []string:
		*dst = val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string list element, got %T", item)
			}
			out = append(out, s)
		}
		*dst = out
	case string:
		*dst = []string{val}
	default:
		return fmt.Errorf("expected string list, got %T", v)
	}
	return nil
}
