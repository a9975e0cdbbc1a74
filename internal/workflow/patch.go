package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kode4food/docket/pkg/api"
)

var (
	ErrRoleNotMapped  = errors.New("role has no attribute mapping")
	ErrNotDecision    = errors.New("action does not render an outcome")
	ErrForwardNotDT   = errors.New("only DT forwards a case")
	ErrInvalidAction  = errors.New("invalid action")
	ErrUnmappedStatus = errors.New("outcome has no status mapping")
)

// BuildPatch assembles the attribute patch for a confirmed action. The
// patch is the complete remote effect of the transition: claim marks the
// role's custody and status as claimed, a decision writes the outcome with
// its derived status and note, forward initializes DA's custody and status
// to "to claim". Each mutated field's stamp attribute receives the current
// time in epoch milliseconds
func BuildPatch(
	fields *api.FieldMap, role api.RoleCode, action api.ActionType,
	note, reason string, now time.Time,
) (api.Attrs, error) {
	attrs, ok := fields.Roles[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotMapped, role)
	}

	switch action {
	case api.ActionClaim:
		return claimPatch(attrs, api.CustodyClaimed, api.StatusClaimed, now),
			nil

	case api.ActionRequestInfo, api.ActionApprove, api.ActionReject:
		return decisionPatch(attrs, action, note, reason, now)

	case api.ActionForward:
		if role != api.RoleDT {
			return nil, fmt.Errorf("%w: %s", ErrForwardNotDT, role)
		}
		da, ok := fields.Roles[api.RoleDA]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotMapped, api.RoleDA)
		}
		return claimPatch(da, api.CustodyToClaim, api.StatusToClaim, now),
			nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidAction, action)
}

func claimPatch(
	attrs api.RoleAttributes, custody api.CustodyState,
	status api.ReviewStatus, now time.Time,
) api.Attrs {
	patch := api.Attrs{
		attrs.Custody: int(custody),
		attrs.Status:  int(status),
	}
	stamp(patch, attrs.CustodyStamp, now)
	stamp(patch, attrs.StatusStamp, now)
	return patch
}

func decisionPatch(
	attrs api.RoleAttributes, action api.ActionType, note, reason string,
	now time.Time,
) (api.Attrs, error) {
	outcome, ok := action.Decision()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDecision, action)
	}
	status, ok := outcome.Status()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnmappedStatus, outcome.Label())
	}

	patch := api.Attrs{
		attrs.Outcome: int(outcome),
		attrs.Status:  int(status),
	}
	stamp(patch, attrs.OutcomeStamp, now)
	stamp(patch, attrs.StatusStamp, now)

	if note = strings.TrimSpace(note); note != "" {
		patch[attrs.Note] = note
		stamp(patch, attrs.NoteStamp, now)
	}

	if action == api.ActionReject {
		reason = strings.TrimSpace(reason)
		switch {
		case attrs.Reason != "":
			patch[attrs.Reason] = reason
		case reason != "" && note == "":
			// no dedicated reason attribute; keep the reason in the note
			patch[attrs.Note] = reason
			stamp(patch, attrs.NoteStamp, now)
		}
	}

	return patch, nil
}

func stamp(patch api.Attrs, name api.Name, now time.Time) {
	if name != "" {
		patch[name] = now.UnixMilli()
	}
}
