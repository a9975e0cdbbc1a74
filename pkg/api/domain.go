package api

import "strconv"

type (
	// CustodyState tracks whether a role has claimed a case for review
	CustodyState int

	// ReviewStatus is the role-local lifecycle stage of a case
	ReviewStatus int

	// Outcome is the terminal decision a role renders on a case
	Outcome int
)

const (
	CustodyUnset   CustodyState = 0
	CustodyToClaim CustodyState = 1
	CustodyClaimed CustodyState = 2
)

const (
	StatusUnset         ReviewStatus = 0
	StatusToClaim       ReviewStatus = 1
	StatusClaimed       ReviewStatus = 2
	StatusInfoRequested ReviewStatus = 3
	StatusApproved      ReviewStatus = 4
	StatusRejected      ReviewStatus = 5
)

const (
	OutcomeUnset         Outcome = 0
	OutcomeInfoRequested Outcome = 1
	OutcomeApproved      Outcome = 2
	OutcomeRejected      Outcome = 3
)

var (
	outcomeStatus = map[Outcome]ReviewStatus{
		OutcomeInfoRequested: StatusInfoRequested,
		OutcomeApproved:      StatusApproved,
		OutcomeRejected:      StatusRejected,
	}

	custodyLabels = map[CustodyState]string{
		CustodyToClaim: "To Claim",
		CustodyClaimed: "Claimed",
	}

	statusLabels = map[ReviewStatus]string{
		StatusToClaim:       "To Claim",
		StatusClaimed:       "Claimed",
		StatusInfoRequested: "Info Requested",
		StatusApproved:      "Approved",
		StatusRejected:      "Rejected",
	}

	outcomeLabels = map[Outcome]string{
		OutcomeInfoRequested: "Info Requested",
		OutcomeApproved:      "Approved",
		OutcomeRejected:      "Rejected",
	}
)

// Status maps a terminal outcome to its corresponding review status. The
// second return is false for unset or unknown outcome codes
func (o Outcome) Status() (ReviewStatus, bool) {
	st, ok := outcomeStatus[o]
	return st, ok
}

// Terminal returns whether the outcome represents a rendered decision
func (o Outcome) Terminal() bool {
	_, ok := outcomeStatus[o]
	return ok
}

// Terminal returns whether the status reflects a rendered decision
func (s ReviewStatus) Terminal() bool {
	return s == StatusInfoRequested || s == StatusApproved ||
		s == StatusRejected
}

// Label returns the display label for a custody state. Unknown codes pass
// through as their raw numeric value
func (c CustodyState) Label() string {
	if l, ok := custodyLabels[c]; ok {
		return l
	}
	return strconv.Itoa(int(c))
}

// Label returns the display label for a review status. Unknown codes pass
// through as their raw numeric value
func (s ReviewStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return strconv.Itoa(int(s))
}

// Label returns the display label for an outcome. Unknown codes pass through
// as their raw numeric value
func (o Outcome) Label() string {
	if l, ok := outcomeLabels[o]; ok {
		return l
	}
	return strconv.Itoa(int(o))
}
