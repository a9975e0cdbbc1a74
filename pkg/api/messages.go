package api

type (
	// CreateSessionRequest opens a review session for an acting role against
	// a backing record source. Fields overrides the engine's configured
	// attribute mapping when present
	CreateSessionRequest struct {
		Fields   *FieldMap `json:"fields,omitempty"`
		Role     RoleCode  `json:"role"`
		SourceID SourceID  `json:"source_id"`
	}

	// SessionCreatedResponse is returned when a session is opened
	SessionCreatedResponse struct {
		SessionID string   `json:"session_id"`
		Role      RoleCode `json:"role"`
	}

	// SelectCaseRequest selects a case within a session. The attribute bag
	// is the record as currently loaded by the UI shell
	SelectCaseRequest struct {
		Attributes Attrs `json:"attributes"`
	}

	// StartActionRequest begins one of the five workflow actions
	StartActionRequest struct {
		Action ActionType `json:"action"`
	}

	// DraftRequest updates the session's note or reject-reason draft
	DraftRequest struct {
		Note   *string `json:"note,omitempty"`
		Reason *string `json:"reason,omitempty"`
	}

	// ValidationFlags reports the required-field state of the pending action
	ValidationFlags struct {
		NoteRequired   bool `json:"note_required"`
		ReasonRequired bool `json:"reason_required"`
		Attempted      bool `json:"attempted"`
	}

	// SelectionView describes the currently selected case
	SelectionView struct {
		SourceID SourceID `json:"source_id"`
		CaseID   int64    `json:"case_id"`
		Key      string   `json:"key"`
	}

	// SessionView is the derived display state of a session: which role owns
	// the selected case, which actions the acting role may start, and the
	// state of any pending action
	SessionView struct {
		Eligibility map[ActionType]bool `json:"eligibility"`
		Selection   *SelectionView      `json:"selection,omitempty"`
		SessionID   string              `json:"session_id"`
		Role        RoleCode            `json:"role"`
		Phase       string              `json:"phase"`
		ActiveRole  RoleCode            `json:"active_role,omitempty"`
		Pending     ActionType          `json:"pending,omitempty"`
		NoteDraft   string              `json:"note_draft"`
		ReasonDraft string              `json:"reason_draft"`
		Validation  ValidationFlags     `json:"validation"`
		Notice      string              `json:"notice,omitempty"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
	}

	// MessageResponse contains a simple message string
	MessageResponse struct {
		Message string `json:"message"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}
)
