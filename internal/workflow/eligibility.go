package workflow

import (
	"github.com/kode4food/docket/pkg/api"
)

// ForwardLocked reports whether the role is frozen because the case has
// already been handed to the next role. Only DT forwards in this chain, so
// the lock engages for DT once DA's status shows any data
func ForwardLocked(role api.RoleCode, rec *api.CaseRecord) bool {
	return role == api.RoleDT &&
		rec.Fields(api.RoleDA).Status != api.StatusUnset
}

// CanClaim reports whether the role may claim the case for review. Requires
// that it is the role's turn, the role's custody and status are still at
// most "to claim", and the role is not forward-locked. A TI-originated case
// with no custody recorded is implicitly owned by TI already and does not
// need claiming; that carve-out applies to TI only
func CanClaim(role api.RoleCode, rec *api.CaseRecord) bool {
	if rec == nil || rec.ActiveRole() != role || ForwardLocked(role, rec) {
		return false
	}

	f := rec.Fields(role)
	if f.Custody != api.CustodyUnset && f.Custody != api.CustodyToClaim {
		return false
	}
	if f.Status != api.StatusUnset && f.Status != api.StatusToClaim {
		return false
	}

	if role == api.RoleTI && rec.Origin == api.OriginInternal &&
		f.Custody == api.CustodyUnset {
		return false
	}
	return true
}

// CanDecide reports whether the role may render a decision (request info,
// approve, or reject) on the case. Requires that it is the role's turn and
// the role holds the case with custody and status both claimed
func CanDecide(role api.RoleCode, rec *api.CaseRecord) bool {
	if rec == nil || rec.ActiveRole() != role || ForwardLocked(role, rec) {
		return false
	}

	f := rec.Fields(role)
	return f.Custody == api.CustodyClaimed && f.Status == api.StatusClaimed
}

// CanForward reports whether the role may hand the case from DT to DA. Only
// DT forwards, only once its own status is terminal, and only while DA has
// not been initialized
func CanForward(role api.RoleCode, rec *api.CaseRecord) bool {
	if rec == nil || role != api.RoleDT || rec.ActiveRole() != role {
		return false
	}

	return rec.Fields(api.RoleDT).Status.Terminal() &&
		rec.Fields(api.RoleDA).Status == api.StatusUnset
}

// CanStart reports whether the role may start the given action on the case.
// This is the pure core of eligibility; the session layer adds the gates
// that depend on session state (selection present, nothing pending, no save
// in flight)
func CanStart(
	action api.ActionType, role api.RoleCode, rec *api.CaseRecord,
) bool {
	switch action {
	case api.ActionClaim:
		return CanClaim(role, rec)
	case api.ActionRequestInfo, api.ActionApprove, api.ActionReject:
		return CanDecide(role, rec)
	case api.ActionForward:
		return CanForward(role, rec)
	}
	return false
}
