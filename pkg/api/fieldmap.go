package api

import (
	"errors"
	"fmt"
)

type (
	// RoleAttributes names the backing-store attributes that hold one role's
	// fields. Stamp attributes receive a timestamp whenever their companion
	// field is mutated. Reason is optional; when absent the reject reason is
	// folded into the note attribute
	RoleAttributes struct {
		Custody Name `json:"custody"`
		Status  Name `json:"status"`
		Outcome Name `json:"outcome"`
		Note    Name `json:"note"`
		Reason  Name `json:"reason,omitempty"`

		CustodyStamp Name `json:"custody_stamp,omitempty"`
		StatusStamp  Name `json:"status_stamp,omitempty"`
		OutcomeStamp Name `json:"outcome_stamp,omitempty"`
		NoteStamp    Name `json:"note_stamp,omitempty"`
	}

	// FieldMap is the injected configuration that binds role fields to
	// attribute names in a backing record source. It is validated once at
	// the boundary; the engine never touches raw attribute names elsewhere
	FieldMap struct {
		Roles  map[RoleCode]RoleAttributes `json:"roles"`
		ID     Name                        `json:"id"`
		Origin Name                        `json:"origin"`
	}
)

var (
	ErrMissingIDAttribute   = errors.New("field map has no id attribute")
	ErrUnknownRole          = errors.New("field map names an unknown role")
	ErrIncompleteRoleFields = errors.New("role is missing field attributes")
	ErrRecordIDMissing      = errors.New("record has no id attribute")
)

// Validate checks that the field map names an id attribute and that every
// configured role carries its custody, status, outcome, and note attributes
func (m *FieldMap) Validate() error {
	if m.ID == "" {
		return ErrMissingIDAttribute
	}
	for role, attrs := range m.Roles {
		if !role.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
		if attrs.Custody == "" || attrs.Status == "" ||
			attrs.Outcome == "" || attrs.Note == "" {
			return fmt.Errorf("%w: %s", ErrIncompleteRoleFields, role)
		}
	}
	return nil
}

// DecodeCase translates a raw attribute bag into a typed case record using
// the configured attribute names. Attributes the map does not name are
// ignored; missing role attributes decode as unset
func (m *FieldMap) DecodeCase(bag Attrs) (*CaseRecord, error) {
	id, ok := attrInt(bag, m.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordIDMissing, m.ID)
	}

	rec := &CaseRecord{
		RecordID: id,
		Roles:    make(map[RoleCode]RoleFields, len(m.Roles)),
	}
	if origin, ok := attrInt(bag, m.Origin); ok {
		rec.Origin = Origin(origin)
	}

	for role, attrs := range m.Roles {
		fields := RoleFields{Note: attrString(bag, attrs.Note)}
		if v, ok := attrInt(bag, attrs.Custody); ok {
			fields.Custody = CustodyState(v)
		}
		if v, ok := attrInt(bag, attrs.Status); ok {
			fields.Status = ReviewStatus(v)
		}
		if v, ok := attrInt(bag, attrs.Outcome); ok {
			fields.Outcome = Outcome(v)
		}
		if fields.HasData() || fields.Note != "" {
			rec.Roles[role] = fields
		}
	}
	return rec, nil
}

// attrInt reads a numeric attribute from the bag. JSON decoding hands
// numbers over as float64, so both integer and float shapes are accepted
func attrInt(bag Attrs, name Name) (int64, bool) {
	if name == "" {
		return 0, false
	}
	switch v := bag[name].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func attrString(bag Attrs, name Name) string {
	if name == "" {
		return ""
	}
	if s, ok := bag[name].(string); ok {
		return s
	}
	return ""
}
