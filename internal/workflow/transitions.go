package workflow

import (
	"github.com/kode4food/docket/internal/util"
)

type (
	// Phase is a session's position in its per-selection state machine
	Phase string

	// StateTransitions maps states to their set of valid next states
	StateTransitions[T comparable] map[T]util.Set[T]
)

const (
	PhaseNoSelection   Phase = "no_selection"
	PhaseViewing       Phase = "viewing"
	PhaseActionPending Phase = "action_pending"
	PhaseSaving        Phase = "saving"
)

// phaseTransitions encodes the per-selection session state machine. Every
// phase can fall back to NoSelection (selection cleared) or jump to Viewing
// (selection replaced); leaving Saving that way only suppresses the visible
// result of the in-flight mutation, not its remote effect
var phaseTransitions = StateTransitions[Phase]{
	PhaseNoSelection: util.SetOf(PhaseViewing),
	PhaseViewing: util.SetOf(
		PhaseActionPending,
		PhaseViewing,
		PhaseNoSelection,
	),
	PhaseActionPending: util.SetOf(
		PhaseSaving,
		PhaseViewing,
		PhaseNoSelection,
	),
	PhaseSaving: util.SetOf(
		PhaseViewing,
		PhaseNoSelection,
	),
}

// CanTransition returns whether transition from one state to another is valid
func (t StateTransitions[T]) CanTransition(from, to T) bool {
	allowed, ok := t[from]
	if !ok {
		return false
	}
	return allowed.Contains(to)
}

// IsTerminal returns true if the state has no valid transitions
func (t StateTransitions[T]) IsTerminal(state T) bool {
	allowed, ok := t[state]
	return ok && allowed.IsEmpty()
}
