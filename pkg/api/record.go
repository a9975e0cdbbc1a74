package api

type (
	// Name identifies an attribute in the backing record store
	Name string

	// Attrs is an attribute bag as exchanged with the record store
	Attrs map[Name]any

	// SourceID identifies a backing record source
	SourceID string

	// RoleFields holds one role's slice of a case record
	RoleFields struct {
		Note    string       `json:"note,omitempty"`
		Custody CustodyState `json:"custody"`
		Status  ReviewStatus `json:"status"`
		Outcome Outcome      `json:"outcome"`
	}

	// CaseRecord is the typed view of one case as it flows through the
	// approval chain. RecordID is immutable; everything else is mutated only
	// through the transition executor
	CaseRecord struct {
		Roles    map[RoleCode]RoleFields `json:"roles"`
		RecordID int64                   `json:"record_id"`
		Origin   Origin                  `json:"origin"`
	}
)

// HasData returns whether any of the role's custody, status, or outcome
// fields has been touched
func (f RoleFields) HasData() bool {
	return f.Custody != CustodyUnset ||
		f.Status != StatusUnset ||
		f.Outcome != OutcomeUnset
}

// Fields returns the named role's slice of the record. Roles without data
// yield the zero value
func (c *CaseRecord) Fields(role RoleCode) RoleFields {
	return c.Roles[role]
}

// ActiveRole computes which role currently owns the case. Roles are scanned
// most advanced first; the first role with any custody, status, or outcome
// data is the active node. A role that has already rendered its outcome is
// still reported as active; eligibility checks are what disable further
// actions for it. When no role has data the starting role is derived from
// the case origin
func (c *CaseRecord) ActiveRole() RoleCode {
	for _, role := range ChainReversed {
		if c.Fields(role).HasData() {
			return role
		}
	}
	return c.Origin.StartingRole()
}
