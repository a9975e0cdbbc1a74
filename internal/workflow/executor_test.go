package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kode4food/caravan/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/docket/internal/store"
	"github.com/kode4food/docket/internal/workflow"
	"github.com/kode4food/docket/pkg/api"
)

type fakeStore struct {
	target     *store.Target
	resolveErr error
	result     *store.UpdateResult
	applyErr   error
	onApply    func()

	applied   api.Attrs
	appliedID int64
	reloads   int
	mu        sync.Mutex
}

func (f *fakeStore) ResolveTarget(
	_ context.Context, sourceID api.SourceID,
) (*store.Target, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if f.target != nil {
		return f.target, nil
	}
	return &store.Target{
		SourceID:  sourceID,
		UpdateURL: "http://store.local/update",
		ReloadURL: "http://store.local/reload",
	}, nil
}

func (f *fakeStore) ApplyUpdate(
	_ context.Context, _ *store.Target, recordID int64, patch api.Attrs,
) (*store.UpdateResult, error) {
	f.mu.Lock()
	f.appliedID = recordID
	f.applied = patch
	f.mu.Unlock()

	if f.onApply != nil {
		f.onApply()
	}
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &store.UpdateResult{
		Kind:     store.ResultApplied,
		ObjectID: recordID,
	}, nil
}

func (f *fakeStore) Reload(context.Context, *store.Target) error {
	f.mu.Lock()
	f.reloads++
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) appliedPatch() api.Attrs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}

func newExecutorFixture(
	t *testing.T, fs *fakeStore, ttl time.Duration,
) (*workflow.Executor, *workflow.Hub) {
	t.Helper()
	hub := workflow.NewHub()
	t.Cleanup(hub.Close)
	return workflow.NewExecutor(fs, hub, ttl), hub
}

func nextNotice(
	t *testing.T, cons topic.Consumer[*api.Notice],
) *api.Notice {
	t.Helper()
	select {
	case n, ok := <-cons.Receive():
		require.True(t, ok)
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notice")
		return nil
	}
}

func assertNoNotice(t *testing.T, cons topic.Consumer[*api.Notice]) {
	t.Helper()
	select {
	case n := <-cons.Receive():
		t.Fatalf("unexpected notice: %s", n.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExecuteClaimSuccess(t *testing.T) {
	fs := &fakeStore{}
	exec, hub := newExecutorFixture(t, fs, time.Minute)
	cons := hub.NewConsumer()
	defer cons.Close()

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	require.NoError(t, exec.Execute(context.Background(), sess))

	assert.Equal(t, int64(1001), fs.appliedID)
	patch := fs.appliedPatch()
	assert.Equal(t, int(api.CustodyClaimed), patch["custody_rz"])
	assert.Equal(t, int(api.StatusClaimed), patch["status_rz"])
	assert.Contains(t, patch, api.Name("custody_rz_at"))
	assert.Equal(t, 1, fs.reloads)

	view := sess.View()
	assert.Equal(t, string(workflow.PhaseViewing), view.Phase)
	assert.Empty(t, view.Pending)
	assert.Equal(t, "Case claimed", view.Notice)

	refresh := nextNotice(t, cons)
	assert.Equal(t, api.NoticeRefresh, refresh.Type)
	assert.Equal(t, int64(1001), refresh.CaseID)

	success := nextNotice(t, cons)
	assert.Equal(t, api.NoticeSuccess, success.Type)
	assert.Equal(t, "Case claimed", success.Message)
	assert.Equal(t, sess.ID(), success.SessionID)
}

func TestExecuteWithoutPendingAction(t *testing.T) {
	fs := &fakeStore{}
	exec, _ := newExecutorFixture(t, fs, time.Minute)

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, workflow.ErrNoPendingAction)
	assert.Nil(t, fs.appliedPatch())
}

func TestExecuteValidationFailure(t *testing.T) {
	fs := &fakeStore{}
	exec, _ := newExecutorFixture(t, fs, time.Minute)

	_, sess := newTestSession(t, api.RoleDT)
	sess.Select(caseWith(api.OriginExternal, map[api.RoleCode]api.RoleFields{
		api.RoleDT: {
			Custody: api.CustodyClaimed,
			Status:  api.StatusClaimed,
		},
	}))
	require.NoError(t, sess.StartAction(api.ActionReject))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, workflow.ErrValidationFailed)
	assert.Nil(t, fs.appliedPatch())

	// the attempt sticks so the UI can surface the missing fields, and the
	// action stays pending for another try
	view := sess.View()
	assert.Equal(t, string(workflow.PhaseActionPending), view.Phase)
	assert.Equal(t, api.ActionReject, view.Pending)
	assert.True(t, view.Validation.Attempted)
	assert.True(t, view.Validation.ReasonRequired)
}

func TestExecuteRemoteRejected(t *testing.T) {
	fs := &fakeStore{
		result: &store.UpdateResult{
			Kind:    store.ResultRejected,
			Code:    1020,
			Message: "record locked by another writer",
		},
	}
	exec, hub := newExecutorFixture(t, fs, time.Minute)
	cons := hub.NewConsumer()
	defer cons.Close()

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, workflow.ErrRemoteRejected)
	assert.ErrorContains(t, err, "record locked")
	assert.Zero(t, fs.reloads)

	view := sess.View()
	assert.Equal(t, string(workflow.PhaseViewing), view.Phase)
	assert.Empty(t, view.Pending)
	assert.Empty(t, view.Notice)

	notice := nextNotice(t, cons)
	assert.Equal(t, api.NoticeError, notice.Type)
	assert.Contains(t, notice.Message, "record locked")
}

func TestExecuteAmbiguousResponse(t *testing.T) {
	fs := &fakeStore{
		result: &store.UpdateResult{
			Kind: store.ResultAmbiguous,
			Raw:  `{"status":"maybe"}`,
		},
	}
	exec, _ := newExecutorFixture(t, fs, time.Minute)

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, workflow.ErrAmbiguousResponse)
	assert.Equal(t,
		string(workflow.PhaseViewing), sess.View().Phase)
}

func TestExecuteResolveFailure(t *testing.T) {
	fs := &fakeStore{resolveErr: store.ErrTargetUnavailable}
	exec, _ := newExecutorFixture(t, fs, time.Minute)

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, store.ErrTargetUnavailable)

	// the save lock is released so the user can try again
	view := sess.View()
	assert.Equal(t, string(workflow.PhaseViewing), view.Phase)
	assert.Empty(t, view.Pending)
}

func TestExecuteStaleSelection(t *testing.T) {
	fs := &fakeStore{}
	exec, hub := newExecutorFixture(t, fs, time.Minute)
	cons := hub.NewConsumer()
	defer cons.Close()

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	// the user navigates to another case while the update is in flight
	other := &api.CaseRecord{RecordID: 2002, Origin: api.OriginExternal}
	fs.onApply = func() {
		sess.Select(other)
	}

	err := exec.Execute(context.Background(), sess)
	assert.ErrorIs(t, err, workflow.ErrStaleSelection)

	// the mutation went out, but no feedback reaches the new selection
	assert.Equal(t, int64(1001), fs.appliedID)
	view := sess.View()
	assert.Equal(t, "cases:2002", view.Selection.Key)
	assert.Empty(t, view.Notice)
	assertNoNotice(t, cons)
}

func TestExecuteSchemaFilter(t *testing.T) {
	fs := &fakeStore{
		target: &store.Target{
			SourceID:  "cases",
			UpdateURL: "http://store.local/update",
			Schema: &store.Schema{
				Fields: map[api.Name]store.Field{
					"custody_rz": {},
					"status_rz":  {},
				},
			},
		},
	}
	exec, _ := newExecutorFixture(t, fs, time.Minute)

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	require.NoError(t, exec.Execute(context.Background(), sess))

	patch := fs.appliedPatch()
	assert.Len(t, patch, 2)
	assert.Contains(t, patch, api.Name("custody_rz"))
	assert.NotContains(t, patch, api.Name("custody_rz_at"))
}

func TestExecuteNoticeAutoClear(t *testing.T) {
	fs := &fakeStore{}
	exec, hub := newExecutorFixture(t, fs, 20*time.Millisecond)
	cons := hub.NewConsumer()
	defer cons.Close()

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))
	require.NoError(t, exec.Execute(context.Background(), sess))

	assert.Equal(t, "Case claimed", sess.View().Notice)
	assert.Eventually(t, func() bool {
		return sess.View().Notice == ""
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, api.NoticeRefresh, nextNotice(t, cons).Type)
	assert.Equal(t, api.NoticeSuccess, nextNotice(t, cons).Type)
	assert.Equal(t, api.NoticeCleared, nextNotice(t, cons).Type)
}

func TestExecuteNoticeDroppedOnReselect(t *testing.T) {
	fs := &fakeStore{}
	exec, _ := newExecutorFixture(t, fs, 20*time.Millisecond)

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))
	require.NoError(t, exec.Execute(context.Background(), sess))

	// reselecting drops the notice immediately; the delayed clear is a no-op
	sess.Select(&api.CaseRecord{RecordID: 3003, Origin: api.OriginExternal})
	assert.Empty(t, sess.View().Notice)
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, sess.View().Notice)
}

func TestSuccessMessages(t *testing.T) {
	assert.Equal(t, "Case claimed", workflow.SuccessMessage(api.ActionClaim))
	assert.Equal(t, "Case approved",
		workflow.SuccessMessage(api.ActionApprove))
	assert.Equal(t, "Saved", workflow.SuccessMessage("bogus"))
}

func TestExecuteApplyError(t *testing.T) {
	fs := &fakeStore{applyErr: errors.New("connection reset")}
	exec, hub := newExecutorFixture(t, fs, time.Minute)
	cons := hub.NewConsumer()
	defer cons.Close()

	_, sess := newTestSession(t, api.RoleRZ)
	sess.Select(caseWith(api.OriginExternal, nil))
	require.NoError(t, sess.StartAction(api.ActionClaim))

	err := exec.Execute(context.Background(), sess)
	assert.ErrorContains(t, err, "connection reset")

	notice := nextNotice(t, cons)
	assert.Equal(t, api.NoticeError, notice.Type)
}
