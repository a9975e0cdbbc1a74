package api

type (
	// RoleCode identifies a reviewing role in the approval chain
	RoleCode string

	// Origin distinguishes externally and internally created cases
	Origin int
)

const (
	RoleTR RoleCode = "TR"
	RoleTI RoleCode = "TI"
	RoleRZ RoleCode = "RZ"
	RoleRI RoleCode = "RI"
	RoleDT RoleCode = "DT"
	RoleDA RoleCode = "DA"
)

const (
	OriginUnset    Origin = 0
	OriginExternal Origin = 1
	OriginInternal Origin = 2
)

// Chain is the fixed ordered sequence of reviewing roles. A case enters the
// chain at TI or RZ depending on its origin and is handed forward until DA
// renders the final decision
var Chain = []RoleCode{RoleTR, RoleTI, RoleRZ, RoleRI, RoleDT, RoleDA}

// ChainReversed lists the roles most advanced first, the order in which the
// turn resolver scans for the active role
var ChainReversed = []RoleCode{RoleDA, RoleDT, RoleRI, RoleRZ, RoleTI, RoleTR}

var validRoles = func() map[RoleCode]struct{} {
	res := make(map[RoleCode]struct{}, len(Chain))
	for _, r := range Chain {
		res[r] = struct{}{}
	}
	return res
}()

// Valid returns whether the role code belongs to the chain
func (r RoleCode) Valid() bool {
	_, ok := validRoles[r]
	return ok
}

// StartingRole returns the role that owns a case no role has touched yet.
// Internally created cases route to TI, everything else to RZ
func (o Origin) StartingRole() RoleCode {
	if o == OriginInternal {
		return RoleTI
	}
	return RoleRZ
}
