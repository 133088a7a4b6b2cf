package usecase

import (
	"context"
	"fmt"
	"time"

	"execassist-backend/internal/action/domain"
	"execassist-backend/internal/action/repository"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/jsontype"
)

const recentLimit = 10

// actionUsecase implements ActionUsecase
type actionUsecase struct {
	repo repository.ActionRepository
}

// NewActionUsecase creates a new instance of actionUsecase
func NewActionUsecase(repo repository.ActionRepository) ActionUsecase {
	return &actionUsecase{repo: repo}
}

func (u *actionUsecase) Begin(ctx context.Context, userID string, actionType domain.ActionType, messageRef, threadRef string, payload jsontype.JSON) (*domain.AssistantAction, error) {
	action := &domain.AssistantAction{
		UserID:     userID,
		MessageRef: messageRef,
		ThreadRef:  threadRef,
		ActionType: actionType,
		Status:     domain.StatusPending,
		Payload:    payload,
	}
	if err := u.repo.Create(ctx, action); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "begin action", Err: err}
	}
	return action, nil
}

func (u *actionUsecase) Complete(ctx context.Context, actionID string, result jsontype.JSON) (*domain.AssistantAction, error) {
	return u.settle(ctx, actionID, domain.StatusCompleted, result)
}

func (u *actionUsecase) AwaitConfirmation(ctx context.Context, actionID string, result jsontype.JSON) (*domain.AssistantAction, error) {
	return u.settle(ctx, actionID, domain.StatusAwaitingConfirmation, result)
}

func (u *actionUsecase) Fail(ctx context.Context, actionID string, cause string) (*domain.AssistantAction, error) {
	return u.settle(ctx, actionID, domain.StatusFailed, jsontype.JSON{"error": cause})
}

// settle records the operation's outcome. Only a pending action can be
// settled; the settle write happens exactly once.
func (u *actionUsecase) settle(ctx context.Context, actionID string, status domain.ActionStatus, result jsontype.JSON) (*domain.AssistantAction, error) {
	action, err := u.repo.FindByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, apperror.ErrNotFound
	}
	if action.Status != domain.StatusPending {
		return nil, &apperror.InvalidTransitionError{From: string(action.Status), Op: "settle"}
	}

	action.Status = status
	action.Result = result
	if err := u.repo.Update(ctx, action); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "settle action", Err: err}
	}
	return action, nil
}

func (u *actionUsecase) Confirm(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error) {
	action, err := u.ownedAction(ctx, userID, actionID)
	if err != nil {
		return nil, err
	}
	if action.Status != domain.StatusAwaitingConfirmation {
		return nil, &apperror.InvalidTransitionError{From: string(action.Status), Op: "confirm"}
	}

	action.Status = domain.StatusCompleted
	if err := u.repo.Update(ctx, action); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "confirm action", Err: err}
	}
	return action, nil
}

func (u *actionUsecase) Undo(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error) {
	action, err := u.ownedAction(ctx, userID, actionID)
	if err != nil {
		return nil, err
	}
	if action.Status == domain.StatusUndone {
		// Undo is idempotent.
		return action, nil
	}
	if action.Status == domain.StatusPending || action.Status == domain.StatusFailed {
		return nil, &apperror.InvalidTransitionError{From: string(action.Status), Op: "undo"}
	}

	now := time.Now()
	action.Status = domain.StatusUndone
	action.UndoneAt = &now
	if err := u.repo.Update(ctx, action); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "undo action", Err: err}
	}
	return action, nil
}

// SubmitFeedback is idempotent and allowed at any point after creation,
// including after undo. The rating is validated before any store access.
func (u *actionUsecase) SubmitFeedback(ctx context.Context, userID, actionID, rating, note string) (*domain.AssistantAction, error) {
	if !domain.ValidRating(rating) {
		return nil, fmt.Errorf("invalid rating %q: must be one of helpful, not_helpful, needs_follow_up", rating)
	}

	action, err := u.ownedAction(ctx, userID, actionID)
	if err != nil {
		return nil, err
	}

	feedback := jsontype.JSON{"rating": rating}
	if note != "" {
		feedback["note"] = note
	}
	feedback["submitted_at"] = time.Now().Format(time.RFC3339)

	action.Feedback = feedback
	if err := u.repo.Update(ctx, action); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "submit feedback", Err: err}
	}
	return action, nil
}

func (u *actionUsecase) Get(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error) {
	return u.ownedAction(ctx, userID, actionID)
}

func (u *actionUsecase) Metrics(ctx context.Context, userID string, from, to time.Time) (*MetricsReport, error) {
	actions, err := u.repo.ListByUserWindow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	report := &MetricsReport{
		ByStatus:     map[domain.ActionStatus]int64{},
		ByActionType: map[domain.ActionType]int64{},
		Feedback:     map[string]int64{},
		Recent:       []*domain.AssistantAction{},
	}
	for _, a := range actions {
		report.Total++
		report.ByStatus[a.Status]++
		report.ByActionType[a.ActionType]++
		if rating, ok := a.Feedback["rating"].(string); ok {
			report.Feedback[rating]++
		}
	}
	// ListByUserWindow returns newest first.
	if len(actions) > recentLimit {
		report.Recent = actions[:recentLimit]
	} else if len(actions) > 0 {
		report.Recent = actions
	}
	return report, nil
}

func (u *actionUsecase) ownedAction(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error) {
	action, err := u.repo.FindByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil || action.UserID != userID {
		return nil, apperror.ErrNotFound
	}
	return action, nil
}
