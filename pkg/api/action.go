package api

import "strings"

// ActionType identifies one of the five workflow actions a role can start
// against its selected case
type ActionType string

const (
	ActionClaim       ActionType = "claim"
	ActionRequestInfo ActionType = "request_info"
	ActionApprove     ActionType = "approve"
	ActionReject      ActionType = "reject"
	ActionForward     ActionType = "forward"
)

// RejectReasonOther is the sentinel reject reason that makes a free-text
// note mandatory
const RejectReasonOther = "Other"

var actionOutcomes = map[ActionType]Outcome{
	ActionRequestInfo: OutcomeInfoRequested,
	ActionApprove:     OutcomeApproved,
	ActionReject:      OutcomeRejected,
}

// Valid returns whether the action type is one of the five workflow actions
func (a ActionType) Valid() bool {
	switch a {
	case ActionClaim, ActionRequestInfo, ActionApprove, ActionReject,
		ActionForward:
		return true
	}
	return false
}

// Decision returns the outcome a deciding action renders. The second return
// is false for claim and forward, which do not render an outcome
func (a ActionType) Decision() (Outcome, bool) {
	o, ok := actionOutcomes[a]
	return o, ok
}

// IsOtherReason reports whether a reject reason matches the "Other"
// sentinel, compared case-insensitively on the trimmed whole word
func IsOtherReason(reason string) bool {
	return strings.EqualFold(strings.TrimSpace(reason), RejectReasonOther)
}
