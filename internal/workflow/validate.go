package workflow

import (
	"strings"

	"github.com/kode4food/docket/pkg/api"
)

// Validation reports which required fields of a pending action are still
// missing. The flags are computed unconditionally but only rendered as
// errors after the user has attempted to confirm at least once
type Validation struct {
	NoteRequired   bool
	ReasonRequired bool
}

// Validate computes the required-field flags for a pending action against
// the current drafts. A note is required when requesting info, or when
// rejecting with the "Other" reason; a reject reason is always required
// when rejecting
func Validate(pending api.ActionType, note, reason string) Validation {
	var res Validation
	switch pending {
	case api.ActionRequestInfo:
		res.NoteRequired = blank(note)
	case api.ActionReject:
		res.ReasonRequired = blank(reason)
		if api.IsOtherReason(reason) {
			res.NoteRequired = blank(note)
		}
	}
	return res
}

// OK returns whether confirmation may proceed
func (v Validation) OK() bool {
	return !v.NoteRequired && !v.ReasonRequired
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
