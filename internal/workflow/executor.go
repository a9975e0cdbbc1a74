package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kode4food/docket/internal/store"
	"github.com/kode4food/docket/pkg/api"
	"github.com/kode4food/docket/pkg/log"
)

// Executor performs one state transition as a single attribute-patch call
// against the remote record store. The call is never retried; a failed
// attempt always releases the session's save lock so the user can try
// again or move to a different case
type Executor struct {
	store     store.RecordStore
	hub       *Hub
	noticeTTL time.Duration
}

var (
	ErrStaleSelection    = errors.New("selection changed during save")
	ErrRemoteRejected    = errors.New("record store rejected the update")
	ErrAmbiguousResponse = errors.New("record store response was ambiguous")
)

var successMessages = map[api.ActionType]string{
	api.ActionClaim:       "Case claimed",
	api.ActionRequestInfo: "Additional information requested",
	api.ActionApprove:     "Case approved",
	api.ActionReject:      "Case rejected",
	api.ActionForward:     "Case forwarded for final decision",
}

// NewExecutor creates a transition executor. Success notices auto-clear
// after noticeTTL as long as the selection is still current at clear time
func NewExecutor(
	st store.RecordStore, hub *Hub, noticeTTL time.Duration,
) *Executor {
	return &Executor{
		store:     st,
		hub:       hub,
		noticeTTL: noticeTTL,
	}
}

// SuccessMessage returns the confirmation text shown when an action of the
// given type completes
func SuccessMessage(action api.ActionType) string {
	if msg, ok := successMessages[action]; ok {
		return msg
	}
	return "Saved"
}

// Execute confirms the session's pending action: validates it, resolves the
// mutation target once, issues exactly one update call, and applies the
// result only if the selection token is still current. On success dependent
// views are asked to refresh and the success notice is scheduled to
// auto-clear. Returns ErrStaleSelection when the user navigated away during
// the call; the mutation still took effect remotely but no feedback is
// surfaced for a session that is no longer current
func (x *Executor) Execute(ctx context.Context, s *Session) error {
	attempt, err := s.beginSave()
	if err != nil {
		return err
	}

	slog.Info("Executing transition",
		log.SessionID(s.ID()),
		log.Role(s.Role()),
		log.Action(attempt.action),
		log.CaseID(attempt.recordID),
		log.Token(attempt.token))

	target, err := x.store.ResolveTarget(ctx, attempt.sourceID)
	if err != nil {
		return x.fail(s, attempt, err)
	}

	patch := target.Schema.Filter(attempt.patch)
	if dropped := len(attempt.patch) - len(patch); dropped > 0 {
		slog.Warn("Schema filter dropped patch attributes",
			log.SourceID(attempt.sourceID),
			slog.Int("dropped", dropped))
	}

	res, err := x.store.ApplyUpdate(ctx, target, attempt.recordID, patch)
	if err != nil {
		return x.fail(s, attempt, err)
	}

	switch res.Kind {
	case store.ResultRejected:
		return x.fail(s, attempt, fmt.Errorf("%w: code %d: %s",
			ErrRemoteRejected, res.Code, res.Message))
	case store.ResultAmbiguous:
		return x.fail(s, attempt, fmt.Errorf("%w: %s",
			ErrAmbiguousResponse, res.Raw))
	}

	return x.succeed(ctx, s, attempt, target)
}

func (x *Executor) succeed(
	ctx context.Context, s *Session, attempt *saveAttempt,
	target *store.Target,
) error {
	if err := x.store.Reload(ctx, target); err != nil {
		slog.Warn("Source reload failed after update",
			log.SourceID(attempt.sourceID),
			log.Error(err))
	}

	msg := SuccessMessage(attempt.action)
	if !s.finishSave(attempt.token, msg, false) {
		slog.Info("Discarding stale save result",
			log.SessionID(s.ID()),
			log.Token(attempt.token))
		return ErrStaleSelection
	}

	x.publish(s, attempt, api.NoticeRefresh, "")
	x.publish(s, attempt, api.NoticeSuccess, msg)

	time.AfterFunc(x.noticeTTL, func() {
		if s.clearNotice(attempt.token) {
			x.publish(s, attempt, api.NoticeCleared, "")
		}
	})
	return nil
}

func (x *Executor) fail(s *Session, attempt *saveAttempt, err error) error {
	if !s.finishSave(attempt.token, "", true) {
		slog.Info("Discarding stale save failure",
			log.SessionID(s.ID()),
			log.Token(attempt.token),
			log.Error(err))
		return ErrStaleSelection
	}

	slog.Error("Transition failed",
		log.SessionID(s.ID()),
		log.Action(attempt.action),
		log.CaseID(attempt.recordID),
		log.Error(err))

	x.publish(s, attempt, api.NoticeError, err.Error())
	return err
}

func (x *Executor) publish(
	s *Session, attempt *saveAttempt, typ api.NoticeType, msg string,
) {
	x.hub.Publish(&api.Notice{
		At:        timeNow(),
		Type:      typ,
		SessionID: s.ID(),
		SourceID:  attempt.sourceID,
		CaseID:    attempt.recordID,
		Message:   msg,
		Token:     attempt.token,
	})
}
