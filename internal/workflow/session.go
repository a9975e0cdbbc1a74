package workflow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kode4food/docket/pkg/api"
)

type (
	// Session tracks one UI shell's review state: the acting role, the
	// currently selected case, and any pending action with its drafts.
	// Every selection change bumps the monotonic token; asynchronous
	// continuations compare their captured token against the live one
	// before touching visible state
	Session struct {
		fields   *api.FieldMap
		record   *api.CaseRecord
		id       string
		role     api.RoleCode
		sourceID api.SourceID

		phase   Phase
		token   int64
		pending api.ActionType

		noteDraft   string
		reasonDraft string
		snapNote    string
		snapReason  string
		attempted   bool
		notice      string

		mu sync.Mutex
	}

	// saveAttempt captures everything the executor needs from a session at
	// the moment a confirm is accepted, so the remote call can run without
	// holding the session lock
	saveAttempt struct {
		patch    api.Attrs
		action   api.ActionType
		sourceID api.SourceID
		recordID int64
		token    int64
	}
)

var (
	ErrNoSelection      = errors.New("no case selected")
	ErrNoPendingAction  = errors.New("no action pending confirmation")
	ErrSaveInFlight     = errors.New("a save is already in flight")
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrActionPending    = errors.New("another action is pending")
	ErrValidationFailed = errors.New("required fields are missing")
)

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Role returns the acting role the session was opened for
func (s *Session) Role() api.RoleCode {
	return s.role
}

// SourceID returns the backing record source the session works against
func (s *Session) SourceID() api.SourceID {
	return s.sourceID
}

// Fields returns the attribute mapping the session decodes records with
func (s *Session) Fields() *api.FieldMap {
	return s.fields
}

// Token returns the current selection token
func (s *Session) Token() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SelectionKey returns the derived key of the current selection, or the
// empty string when nothing is selected
func (s *Session) SelectionKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return ""
	}
	return selectionKey(s.sourceID, s.record.RecordID)
}

// Select makes the given case the session's current selection. Any pending
// action and soft validation state are discarded, drafts reset to the
// acting role's persisted note, and the selection token advances so that
// in-flight results for the previous selection resolve as stale
func (s *Session) Select(rec *api.CaseRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token++
	s.phase = PhaseViewing
	s.record = rec
	s.pending = ""
	s.attempted = false
	s.notice = ""

	fields := rec.Fields(s.role)
	s.noteDraft = fields.Note
	s.reasonDraft = ""
	s.snapNote = ""
	s.snapReason = ""

	return s.token
}

// Clear drops the current selection. Drafts reset to blank and the token
// advances
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token++
	s.phase = PhaseNoSelection
	s.record = nil
	s.pending = ""
	s.attempted = false
	s.notice = ""
	s.noteDraft = ""
	s.reasonDraft = ""
	s.snapNote = ""
	s.snapReason = ""
}

// StartAction begins one of the five workflow actions against the current
// selection. The action must be eligible for the acting role right now.
// Drafts are snapshotted so a cancel can revert them
func (s *Session) StartAction(action api.ActionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !action.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	if s.record == nil {
		return ErrNoSelection
	}
	if !phaseTransitions.CanTransition(s.phase, PhaseActionPending) {
		if s.phase == PhaseSaving {
			return ErrSaveInFlight
		}
		return ErrActionPending
	}
	if !CanStart(action, s.role, s.record) {
		return fmt.Errorf("%w: %s for %s", ErrActionNotAllowed, action,
			s.role)
	}

	s.snapNote = s.noteDraft
	s.snapReason = s.reasonDraft
	s.pending = action
	s.attempted = false
	s.phase = PhaseActionPending
	return nil
}

// CancelAction abandons the pending action and reverts drafts to their
// pre-action snapshot
func (s *Session) CancelAction() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == "" || s.phase != PhaseActionPending {
		return ErrNoPendingAction
	}

	s.noteDraft = s.snapNote
	s.reasonDraft = s.snapReason
	s.pending = ""
	s.attempted = false
	s.phase = PhaseViewing
	return nil
}

// SetNote updates the note draft. Editing clears the attempted flag so the
// soft validation error can re-evaluate cleanly
func (s *Session) SetNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteDraft = note
	s.attempted = false
}

// SetReason updates the reject-reason draft. Editing clears the attempted
// flag so the soft validation error can re-evaluate cleanly
func (s *Session) SetReason(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasonDraft = reason
	s.attempted = false
}

// View derives the session's display state: active role, per-action
// eligibility, validation flags, and any current notice
func (s *Session) View() *api.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &api.SessionView{
		SessionID:   s.id,
		Role:        s.role,
		Phase:       string(s.phase),
		Pending:     s.pending,
		NoteDraft:   s.noteDraft,
		ReasonDraft: s.reasonDraft,
		Notice:      s.notice,
		Eligibility: map[api.ActionType]bool{},
	}

	v := Validate(s.pending, s.noteDraft, s.reasonDraft)
	view.Validation = api.ValidationFlags{
		NoteRequired:   v.NoteRequired,
		ReasonRequired: v.ReasonRequired,
		Attempted:      s.attempted,
	}

	if s.record == nil {
		return view
	}

	view.ActiveRole = s.record.ActiveRole()
	view.Selection = &api.SelectionView{
		SourceID: s.sourceID,
		CaseID:   s.record.RecordID,
		Key:      selectionKey(s.sourceID, s.record.RecordID),
	}

	startable := s.phase == PhaseViewing
	for _, action := range []api.ActionType{
		api.ActionClaim, api.ActionRequestInfo, api.ActionApprove,
		api.ActionReject, api.ActionForward,
	} {
		view.Eligibility[action] = startable &&
			CanStart(action, s.role, s.record)
	}
	return view
}

// beginSave validates the pending action and moves the session into the
// Saving phase, capturing everything the remote call needs. A validation
// failure marks the attempt so the UI starts rendering the missing-field
// errors
func (s *Session) beginSave() (*saveAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return nil, ErrNoSelection
	}
	if s.pending == "" {
		return nil, ErrNoPendingAction
	}
	if !phaseTransitions.CanTransition(s.phase, PhaseSaving) {
		return nil, ErrSaveInFlight
	}

	if v := Validate(s.pending, s.noteDraft, s.reasonDraft); !v.OK() {
		s.attempted = true
		return nil, ErrValidationFailed
	}

	patch, err := BuildPatch(
		s.fields, s.role, s.pending, s.noteDraft, s.reasonDraft, timeNow(),
	)
	if err != nil {
		return nil, err
	}

	s.phase = PhaseSaving
	return &saveAttempt{
		token:    s.token,
		action:   s.pending,
		sourceID: s.sourceID,
		recordID: s.record.RecordID,
		patch:    patch,
	}, nil
}

// finishSave resolves a save attempt. When the captured token no longer
// matches the live selection the result is stale and nothing visible
// changes; the remote mutation still took effect. Returns whether the
// attempt was still current
func (s *Session) finishSave(token int64, notice string, failed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		return false
	}

	s.phase = PhaseViewing
	s.pending = ""
	s.attempted = false
	if !failed {
		s.notice = notice
	}
	return true
}

// clearNotice drops the success notice if the selection is still current
func (s *Session) clearNotice(token int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token || s.notice == "" {
		return false
	}
	s.notice = ""
	return true
}

func selectionKey(sourceID api.SourceID, caseID int64) string {
	return fmt.Sprintf("%s:%d", sourceID, caseID)
}
