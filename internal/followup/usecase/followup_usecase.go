package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"execassist-backend/internal/followup/domain"
	"execassist-backend/internal/followup/repository"
	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/jsontype"
)

// followupUsecase implements FollowupUsecase
type followupUsecase struct {
	repo    repository.FollowupRepository
	drafter ai.CompletionService
}

// NewFollowupUsecase creates a new instance of followupUsecase
func NewFollowupUsecase(repo repository.FollowupRepository, drafter ai.CompletionService) FollowupUsecase {
	return &followupUsecase{repo: repo, drafter: drafter}
}

func (u *followupUsecase) Create(ctx context.Context, req CreateTaskRequest) (*domain.FollowupTask, error) {
	if req.TeamID == "" || req.OwnerUserID == "" {
		return nil, errors.New("team and owner are required")
	}
	if req.CounterpartEmail == "" {
		return nil, errors.New("counterpart email is required")
	}

	task := &domain.FollowupTask{
		TeamID:           req.TeamID,
		OwnerUserID:      req.OwnerUserID,
		ThreadRef:        req.ThreadRef,
		MessageRef:       req.MessageRef,
		CounterpartEmail: req.CounterpartEmail,
		CounterpartName:  req.CounterpartName,
		Subject:          req.Subject,
		Summary:          req.Summary,
		Status:           domain.StatusPending,
		Priority:         req.Priority,
		DueAt:            req.DueAt,
		SuggestedSendAt:  req.SuggestedSendAt,
		ToneHint:         req.ToneHint,
		Metadata:         req.Metadata,
	}

	// Seed an initial draft so the task is actionable from the start.
	draft, err := u.drafter.DraftFollowup(ctx, ai.DraftRequest{
		CounterpartName:  req.CounterpartName,
		CounterpartEmail: req.CounterpartEmail,
		Subject:          req.Subject,
		Summary:          req.Summary,
		Tone:             req.ToneHint,
	})
	if err == nil {
		task.DraftSubject = draft.Subject
		task.DraftBody = draft.Body
	}

	if err := u.repo.CreateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "create task", Err: err}
	}
	if task.DraftBody != "" {
		if err := u.appendEvent(ctx, task.ID, domain.EventDraftCreated, jsontype.JSON{
			"tone":    task.ToneHint,
			"subject": task.DraftSubject,
		}); err != nil {
			return nil, err
		}
	}
	return task, nil
}

func (u *followupUsecase) Get(ctx context.Context, callerTeamID, taskID string) (*domain.FollowupTask, error) {
	return u.visibleTask(ctx, callerTeamID, taskID)
}

func (u *followupUsecase) ListForTeam(ctx context.Context, teamID string, status *domain.TaskStatus, limit, offset int) ([]*domain.FollowupTask, int64, error) {
	return u.repo.ListTasksByTeam(ctx, teamID, status, limit, offset)
}

func (u *followupUsecase) ListDue(ctx context.Context, teamID string) ([]*domain.FollowupTask, error) {
	return u.repo.ListDue(ctx, teamID, time.Now())
}

func (u *followupUsecase) Events(ctx context.Context, callerTeamID, taskID string) ([]*domain.FollowupEvent, error) {
	if _, err := u.visibleTask(ctx, callerTeamID, taskID); err != nil {
		return nil, err
	}
	return u.repo.ListEventsByTask(ctx, taskID)
}

func (u *followupUsecase) Approve(ctx context.Context, callerUserID, taskID string, sendAt time.Time) (*domain.FollowupTask, error) {
	task, err := u.ownedTask(ctx, callerUserID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, &apperror.InvalidTransitionError{From: string(task.Status), Op: "approve"}
	}

	task.Status = domain.StatusScheduled
	task.SuggestedSendAt = &sendAt
	if err := u.repo.UpdateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "approve", Err: err}
	}
	if err := u.appendEvent(ctx, task.ID, domain.EventScheduled, jsontype.JSON{
		"send_at": sendAt.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *followupUsecase) Snooze(ctx context.Context, callerUserID, taskID string, minutes int) (*domain.FollowupTask, error) {
	if minutes <= 0 {
		return nil, errors.New("snooze minutes must be positive")
	}
	task, err := u.ownedTask(ctx, callerUserID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, &apperror.InvalidTransitionError{From: string(task.Status), Op: "snooze"}
	}

	dueAt := time.Now().Add(time.Duration(minutes) * time.Minute)
	task.Status = domain.StatusSnoozed
	task.DueAt = &dueAt
	if err := u.repo.UpdateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "snooze", Err: err}
	}
	if err := u.appendEvent(ctx, task.ID, domain.EventSnoozed, jsontype.JSON{
		"minutes": minutes,
		"due_at":  dueAt.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *followupUsecase) Dismiss(ctx context.Context, callerUserID, taskID, reason string) (*domain.FollowupTask, error) {
	task, err := u.ownedTask(ctx, callerUserID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, &apperror.InvalidTransitionError{From: string(task.Status), Op: "dismiss"}
	}

	task.Status = domain.StatusDismissed
	if err := u.repo.UpdateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "dismiss", Err: err}
	}
	payload := jsontype.JSON{}
	if reason != "" {
		payload["reason"] = reason
	}
	if err := u.appendEvent(ctx, task.ID, domain.EventDismissed, payload); err != nil {
		return nil, err
	}
	return task, nil
}

// Regenerate replaces the draft without touching the status, so a team
// member can iterate on wording without losing queue position.
func (u *followupUsecase) Regenerate(ctx context.Context, callerUserID, taskID, toneHint string) (*domain.FollowupTask, error) {
	task, err := u.ownedTask(ctx, callerUserID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, &apperror.InvalidTransitionError{From: string(task.Status), Op: "regenerate"}
	}

	if toneHint != "" {
		task.ToneHint = toneHint
	}
	draft, err := u.drafter.DraftFollowup(ctx, ai.DraftRequest{
		CounterpartName:  task.CounterpartName,
		CounterpartEmail: task.CounterpartEmail,
		Subject:          task.Subject,
		Summary:          task.Summary,
		Tone:             task.ToneHint,
	})
	if err != nil {
		return nil, fmt.Errorf("draft generation failed: %w", err)
	}

	task.DraftSubject = draft.Subject
	task.DraftBody = draft.Body
	if err := u.repo.UpdateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "regenerate", Err: err}
	}
	if err := u.appendEvent(ctx, task.ID, domain.EventDraftCreated, jsontype.JSON{
		"tone":    task.ToneHint,
		"subject": task.DraftSubject,
	}); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *followupUsecase) MarkSent(ctx context.Context, taskID string) (*domain.FollowupTask, error) {
	task, err := u.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.ErrNotFound
	}
	if task.Status.Terminal() {
		return nil, &apperror.InvalidTransitionError{From: string(task.Status), Op: "mark sent"}
	}

	now := time.Now()
	task.Status = domain.StatusSent
	task.SentAt = &now
	if err := u.repo.UpdateTask(ctx, task); err != nil {
		return nil, &apperror.LedgerWriteError{Op: "mark sent", Err: err}
	}
	if err := u.appendEvent(ctx, task.ID, domain.EventSent, jsontype.JSON{
		"sent_at": now.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// ownedTask loads the task and checks ownership. Every mutation goes
// through here so the authorization check always precedes any write.
func (u *followupUsecase) ownedTask(ctx context.Context, callerUserID, taskID string) (*domain.FollowupTask, error) {
	task, err := u.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.ErrNotFound
	}
	if task.OwnerUserID != callerUserID {
		return nil, apperror.ErrNotTaskOwner
	}
	return task, nil
}

func (u *followupUsecase) visibleTask(ctx context.Context, callerTeamID, taskID string) (*domain.FollowupTask, error) {
	task, err := u.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.TeamID != callerTeamID {
		return nil, apperror.ErrNotFound
	}
	return task, nil
}

// appendEvent records the transition. The event log is the source of
// truth, so a failed append propagates instead of being dropped.
func (u *followupUsecase) appendEvent(ctx context.Context, taskID string, eventType domain.EventType, payload jsontype.JSON) error {
	event := &domain.FollowupEvent{
		TaskID:    taskID,
		EventType: eventType,
		Payload:   payload,
	}
	if err := u.repo.AppendEvent(ctx, event); err != nil {
		return &apperror.LedgerWriteError{Op: string(eventType) + " event", Err: err}
	}
	return nil
}
