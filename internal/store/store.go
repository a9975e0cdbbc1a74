// Package store implements the client for the remote record store that
// persists case records
//
// The engine treats the store as a best-effort collaborator: every update is
// a single attribute-patch call that may fail independently, responses come
// back in a loosely specified shape, and schema introspection is optional.
// The client normalizes all of that into typed results
package store

import (
	"context"
	"errors"

	"github.com/kode4food/docket/pkg/api"
)

type (
	// RecordStore is the interface the transition executor mutates records
	// through
	RecordStore interface {
		// ResolveTarget resolves the mutation endpoints and schema for a
		// record source. Tried once per operation; there are no chained
		// fallbacks, an unusable source fails with ErrTargetUnavailable
		ResolveTarget(context.Context, api.SourceID) (*Target, error)

		// ApplyUpdate issues exactly one attribute-patch call for a record
		ApplyUpdate(
			context.Context, *Target, int64, api.Attrs,
		) (*UpdateResult, error)

		// Reload asks the source to re-fetch its records using its
		// last-used query parameters
		Reload(context.Context, *Target) error
	}

	// Target is a resolved mutation target for a record source
	Target struct {
		Schema    *Schema
		SourceID  api.SourceID
		UpdateURL string
		ReloadURL string
	}

	// ResultKind classifies the outcome of an update call
	ResultKind string

	// UpdateResult is the normalized outcome of an attribute-patch call.
	// Applied carries the returned object id when the store echoes one;
	// Rejected carries the remote error code and message; Ambiguous carries
	// the raw response body for diagnosis
	UpdateResult struct {
		Kind     ResultKind
		Message  string
		Raw      string
		ObjectID int64
		Code     int64
	}
)

const (
	ResultApplied   ResultKind = "applied"
	ResultRejected  ResultKind = "rejected"
	ResultAmbiguous ResultKind = "ambiguous"
)

var (
	ErrTargetUnavailable = errors.New("record source unavailable")
	ErrNoUpdateEndpoint  = errors.New("record source has no update endpoint")
)

// Applied returns whether the update was positively acknowledged
func (r *UpdateResult) Applied() bool {
	return r.Kind == ResultApplied
}
