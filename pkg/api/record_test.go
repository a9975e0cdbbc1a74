package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/docket/pkg/api"
)

func TestActiveRoleSinglePopulated(t *testing.T) {
	for _, role := range api.Chain {
		rec := &api.CaseRecord{
			RecordID: 1,
			Roles: map[api.RoleCode]api.RoleFields{
				role: {Custody: api.CustodyToClaim},
			},
		}
		assert.Equal(t, role, rec.ActiveRole())
	}
}

func TestActiveRoleMostAdvancedWins(t *testing.T) {
	rec := &api.CaseRecord{
		RecordID: 1,
		Roles: map[api.RoleCode]api.RoleFields{
			api.RoleRZ: {
				Custody: api.CustodyClaimed,
				Status:  api.StatusApproved,
				Outcome: api.OutcomeApproved,
			},
			api.RoleDT: {Status: api.StatusToClaim},
		},
	}
	assert.Equal(t, api.RoleDT, rec.ActiveRole())
}

func TestActiveRoleTerminalStillActive(t *testing.T) {
	rec := &api.CaseRecord{
		RecordID: 1,
		Roles: map[api.RoleCode]api.RoleFields{
			api.RoleDT: {
				Custody: api.CustodyClaimed,
				Status:  api.StatusRejected,
				Outcome: api.OutcomeRejected,
			},
		},
	}
	assert.Equal(t, api.RoleDT, rec.ActiveRole())
}

func TestActiveRoleOriginFallback(t *testing.T) {
	internal := &api.CaseRecord{RecordID: 1, Origin: api.OriginInternal}
	assert.Equal(t, api.RoleTI, internal.ActiveRole())

	external := &api.CaseRecord{RecordID: 2, Origin: api.OriginExternal}
	assert.Equal(t, api.RoleRZ, external.ActiveRole())

	unset := &api.CaseRecord{RecordID: 3}
	assert.Equal(t, api.RoleRZ, unset.ActiveRole())
}

func TestActiveRoleOutcomeOnly(t *testing.T) {
	rec := &api.CaseRecord{
		RecordID: 1,
		Roles: map[api.RoleCode]api.RoleFields{
			api.RoleRI: {Outcome: api.OutcomeApproved},
		},
	}
	assert.Equal(t, api.RoleRI, rec.ActiveRole())
}

func TestFieldsZeroValue(t *testing.T) {
	rec := &api.CaseRecord{RecordID: 1}
	f := rec.Fields(api.RoleDT)
	assert.False(t, f.HasData())
	assert.Equal(t, api.CustodyUnset, f.Custody)
}
