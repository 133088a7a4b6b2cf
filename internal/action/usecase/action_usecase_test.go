package usecase

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"execassist-backend/internal/action/domain"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/jsontype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActionRepo struct {
	actions map[string]*domain.AssistantAction
	nextID  int
	updates int
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{actions: map[string]*domain.AssistantAction{}}
}

func (r *fakeActionRepo) Create(ctx context.Context, action *domain.AssistantAction) error {
	if action.ID == "" {
		r.nextID++
		action.ID = fmt.Sprintf("action-%d", r.nextID)
	}
	action.CreatedAt = time.Now()
	copied := *action
	r.actions[action.ID] = &copied
	return nil
}

func (r *fakeActionRepo) FindByID(ctx context.Context, id string) (*domain.AssistantAction, error) {
	action, ok := r.actions[id]
	if !ok {
		return nil, nil
	}
	copied := *action
	return &copied, nil
}

func (r *fakeActionRepo) Update(ctx context.Context, action *domain.AssistantAction) error {
	r.updates++
	copied := *action
	r.actions[action.ID] = &copied
	return nil
}

func (r *fakeActionRepo) ListByUserWindow(ctx context.Context, userID string, from, to time.Time) ([]*domain.AssistantAction, error) {
	var out []*domain.AssistantAction
	for _, action := range r.actions {
		if action.UserID != userID {
			continue
		}
		if action.CreatedAt.Before(from) || action.CreatedAt.After(to) {
			continue
		}
		copied := *action
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func beginAction(t *testing.T, uc ActionUsecase, actionType domain.ActionType) *domain.AssistantAction {
	t.Helper()
	action, err := uc.Begin(context.Background(), "user-1", actionType, "msg-1", "thread-1", jsontype.JSON{"to": "a@example.com"})
	require.NoError(t, err)
	return action
}

func TestBeginRecordsPendingBeforeExecution(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)

	action := beginAction(t, uc, domain.ActionDraftReply)
	assert.Equal(t, domain.StatusPending, action.Status)
	assert.NotEmpty(t, action.ID)

	stored, _ := repo.FindByID(context.Background(), action.ID)
	require.NotNil(t, stored)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestSettleIsOnceOnly(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)

	settled, err := uc.Complete(context.Background(), action.ID, jsontype.JSON{"draft_id": "d1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, settled.Status)

	var transitionErr *apperror.InvalidTransitionError
	_, err = uc.Complete(context.Background(), action.ID, jsontype.JSON{})
	assert.ErrorAs(t, err, &transitionErr)

	_, err = uc.Fail(context.Background(), action.ID, "late failure")
	assert.ErrorAs(t, err, &transitionErr)
}

func TestConfirmCompletesAwaitingAction(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionScheduleMeeting)

	_, err := uc.AwaitConfirmation(context.Background(), action.ID, jsontype.JSON{"event_id": "e1"})
	require.NoError(t, err)

	confirmed, err := uc.Confirm(context.Background(), "user-1", action.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, confirmed.Status)

	// Confirming twice is a transition error.
	var transitionErr *apperror.InvalidTransitionError
	_, err = uc.Confirm(context.Background(), "user-1", action.ID)
	assert.ErrorAs(t, err, &transitionErr)
}

func TestConfirmByOtherUser(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionScheduleMeeting)
	_, err := uc.AwaitConfirmation(context.Background(), action.ID, nil)
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), "user-2", action.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUndoSetsTimestampWithStatus(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)
	_, err := uc.Complete(context.Background(), action.ID, nil)
	require.NoError(t, err)

	undone, err := uc.Undo(context.Background(), "user-1", action.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUndone, undone.Status)
	require.NotNil(t, undone.UndoneAt)
}

func TestUndoIsIdempotent(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)
	_, err := uc.Complete(context.Background(), action.ID, nil)
	require.NoError(t, err)

	first, err := uc.Undo(context.Background(), "user-1", action.ID)
	require.NoError(t, err)
	updatesAfterFirst := repo.updates

	second, err := uc.Undo(context.Background(), "user-1", action.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, updatesAfterFirst, repo.updates, "repeated undo must not write")
}

func TestUndoRejectsPendingAndFailed(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)

	pending := beginAction(t, uc, domain.ActionDraftReply)
	var transitionErr *apperror.InvalidTransitionError
	_, err := uc.Undo(context.Background(), "user-1", pending.ID)
	assert.ErrorAs(t, err, &transitionErr)

	failed := beginAction(t, uc, domain.ActionDraftReply)
	_, err = uc.Fail(context.Background(), failed.ID, "remote error")
	require.NoError(t, err)
	_, err = uc.Undo(context.Background(), "user-1", failed.ID)
	assert.ErrorAs(t, err, &transitionErr)
}

func TestFeedbackValidatedBeforeStoreAccess(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)
	updatesBefore := repo.updates

	_, err := uc.SubmitFeedback(context.Background(), "user-1", action.ID, "amazing", "")
	require.Error(t, err)
	assert.Equal(t, updatesBefore, repo.updates)

	// Even a nonexistent action rejects the rating first.
	_, err = uc.SubmitFeedback(context.Background(), "user-1", "no-such-action", "amazing", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestFeedbackIsIdempotentOverwrite(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)
	_, err := uc.Complete(context.Background(), action.ID, nil)
	require.NoError(t, err)

	_, err = uc.SubmitFeedback(context.Background(), "user-1", action.ID, domain.RatingHelpful, "good draft")
	require.NoError(t, err)

	updated, err := uc.SubmitFeedback(context.Background(), "user-1", action.ID, domain.RatingNotHelpful, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingNotHelpful, updated.Feedback["rating"])
}

func TestFeedbackAllowedAfterUndo(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	action := beginAction(t, uc, domain.ActionDraftReply)
	_, err := uc.Complete(context.Background(), action.ID, nil)
	require.NoError(t, err)
	_, err = uc.Undo(context.Background(), "user-1", action.ID)
	require.NoError(t, err)

	updated, err := uc.SubmitFeedback(context.Background(), "user-1", action.ID, domain.RatingNeedsFollowUp, "meeting still needed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUndone, updated.Status)
	assert.Equal(t, domain.RatingNeedsFollowUp, updated.Feedback["rating"])
}

func TestMetricsEmptyWindow(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)

	report, err := uc.Metrics(context.Background(), "user-1", time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.NotNil(t, report.ByStatus)
	assert.NotNil(t, report.ByActionType)
	assert.NotNil(t, report.Feedback)
	assert.NotNil(t, report.Recent)
	assert.Empty(t, report.Recent)
}

func TestMetricsFoldsLedger(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)

	for i := 0; i < 3; i++ {
		action := beginAction(t, uc, domain.ActionDraftReply)
		_, err := uc.Complete(context.Background(), action.ID, nil)
		require.NoError(t, err)
	}
	failed := beginAction(t, uc, domain.ActionScheduleMeeting)
	_, err := uc.Fail(context.Background(), failed.ID, "calendar down")
	require.NoError(t, err)

	rated := beginAction(t, uc, domain.ActionDraftReply)
	_, err = uc.Complete(context.Background(), rated.ID, nil)
	require.NoError(t, err)
	_, err = uc.SubmitFeedback(context.Background(), "user-1", rated.ID, domain.RatingHelpful, "")
	require.NoError(t, err)

	report, err := uc.Metrics(context.Background(), "user-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.Total)
	assert.Equal(t, int64(4), report.ByStatus[domain.StatusCompleted])
	assert.Equal(t, int64(1), report.ByStatus[domain.StatusFailed])
	assert.Equal(t, int64(4), report.ByActionType[domain.ActionDraftReply])
	assert.Equal(t, int64(1), report.Feedback[domain.RatingHelpful])
	assert.Len(t, report.Recent, 5)
}

func TestMetricsRecentCapped(t *testing.T) {
	repo := newFakeActionRepo()
	uc := NewActionUsecase(repo)
	for i := 0; i < recentLimit+5; i++ {
		beginAction(t, uc, domain.ActionDraftReply)
	}

	report, err := uc.Metrics(context.Background(), "user-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(recentLimit+5), report.Total)
	assert.Len(t, report.Recent, recentLimit)
}
