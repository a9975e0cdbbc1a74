package workflow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kode4food/docket/pkg/api"
)

// Registry tracks the open review sessions, keyed by session id
type Registry struct {
	defaults *api.FieldMap
	sessions sync.Map // map[string]*Session
}

var (
	ErrInvalidRoleCode = errors.New("invalid role code")
	ErrMissingSource   = errors.New("source id is required")
)

// NewRegistry creates a session registry. The default field map is used by
// sessions that do not inject their own attribute mapping
func NewRegistry(defaults *api.FieldMap) (*Registry, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &Registry{defaults: defaults}, nil
}

// Create opens a session for an acting role against a record source. A
// non-nil field map overrides the registry default after validation
func (r *Registry) Create(
	role api.RoleCode, sourceID api.SourceID, fields *api.FieldMap,
) (*Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoleCode, role)
	}
	if sourceID == "" {
		return nil, ErrMissingSource
	}

	if fields == nil {
		fields = r.defaults
	} else if err := fields.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:       uuid.NewString(),
		role:     role,
		sourceID: sourceID,
		fields:   fields,
		phase:    PhaseNoSelection,
	}
	r.sessions.Store(s.id, s)
	return s, nil
}

// Get returns the session with the given id
func (r *Registry) Get(id string) (*Session, bool) {
	v, ok := r.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete closes the session with the given id, returning whether it existed
func (r *Registry) Delete(id string) bool {
	_, loaded := r.sessions.LoadAndDelete(id)
	return loaded
}
