package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"execassist-backend/internal/followup/domain"
	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFollowupRepo struct {
	tasks  map[string]*domain.FollowupTask
	events []*domain.FollowupEvent
	nextID int
}

func newFakeFollowupRepo() *fakeFollowupRepo {
	return &fakeFollowupRepo{tasks: map[string]*domain.FollowupTask{}}
}

func (r *fakeFollowupRepo) CreateTask(ctx context.Context, task *domain.FollowupTask) error {
	if task.ID == "" {
		r.nextID++
		task.ID = fmt.Sprintf("task-%d", r.nextID)
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeFollowupRepo) FindTaskByID(ctx context.Context, id string) (*domain.FollowupTask, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (r *fakeFollowupRepo) ListTasksByTeam(ctx context.Context, teamID string, status *domain.TaskStatus, limit, offset int) ([]*domain.FollowupTask, int64, error) {
	var out []*domain.FollowupTask
	for _, task := range r.tasks {
		if task.TeamID != teamID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFollowupRepo) ListDue(ctx context.Context, teamID string, now time.Time) ([]*domain.FollowupTask, error) {
	var out []*domain.FollowupTask
	for _, task := range r.tasks {
		if task.TeamID == teamID && task.Status == domain.StatusSnoozed && task.DueAt != nil && !task.DueAt.After(now) {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeFollowupRepo) UpdateTask(ctx context.Context, task *domain.FollowupTask) error {
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeFollowupRepo) AppendEvent(ctx context.Context, event *domain.FollowupEvent) error {
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", len(r.events)+1)
	}
	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *fakeFollowupRepo) ListEventsByTask(ctx context.Context, taskID string) ([]*domain.FollowupEvent, error) {
	var out []*domain.FollowupEvent
	for _, event := range r.events {
		if event.TaskID == taskID {
			copied := *event
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeFollowupRepo) eventsFor(taskID string) []*domain.FollowupEvent {
	events, _ := r.ListEventsByTask(context.Background(), taskID)
	return events
}

type fakeDrafter struct {
	drafts int
	err    error
}

func (d *fakeDrafter) DraftFollowup(ctx context.Context, req ai.DraftRequest) (*ai.Draft, error) {
	d.drafts++
	if d.err != nil {
		return nil, d.err
	}
	return &ai.Draft{Subject: "Re: " + req.Subject, Body: "Just checking in about " + req.Subject + "."}, nil
}

func (d *fakeDrafter) ClassifyMessage(ctx context.Context, subject, snippet string, categories []string) (string, error) {
	return "", nil
}

func (d *fakeDrafter) SummarizeThread(ctx context.Context, messages []string) (string, error) {
	return "", nil
}

func newTestUsecase() (*fakeFollowupRepo, *fakeDrafter, FollowupUsecase) {
	repo := newFakeFollowupRepo()
	drafter := &fakeDrafter{}
	return repo, drafter, NewFollowupUsecase(repo, drafter)
}

func createTask(t *testing.T, uc FollowupUsecase) *domain.FollowupTask {
	t.Helper()
	task, err := uc.Create(context.Background(), CreateTaskRequest{
		TeamID:           "team-1",
		OwnerUserID:      "user-1",
		CounterpartEmail: "client@example.com",
		CounterpartName:  "Alex",
		Subject:          "Q3 proposal",
		Summary:          "Waiting on contract signature",
		ToneHint:         "friendly",
	})
	require.NoError(t, err)
	return task
}

func TestCreateSeedsDraftAndEvent(t *testing.T) {
	repo, drafter, uc := newTestUsecase()

	task := createTask(t, uc)

	assert.Equal(t, domain.StatusPending, task.Status)
	assert.NotEmpty(t, task.DraftBody)
	assert.Equal(t, 1, drafter.drafts)

	events := repo.eventsFor(task.ID)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventDraftCreated, events[0].EventType)
}

func TestCreateRequiresCounterpart(t *testing.T) {
	_, _, uc := newTestUsecase()

	_, err := uc.Create(context.Background(), CreateTaskRequest{
		TeamID:      "team-1",
		OwnerUserID: "user-1",
		Subject:     "no counterpart",
	})
	assert.Error(t, err)
}

func TestApproveSchedulesAndLogsOneEvent(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)

	sendAt := time.Now().Add(2 * time.Hour)
	updated, err := uc.Approve(context.Background(), "user-1", task.ID, sendAt)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, updated.Status)

	events := repo.eventsFor(task.ID)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventScheduled, events[1].EventType)
}

func TestMutationByNonOwnerWritesNothing(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)
	before := len(repo.eventsFor(task.ID))

	_, err := uc.Approve(context.Background(), "intruder", task.ID, time.Now())
	assert.ErrorIs(t, err, apperror.ErrNotTaskOwner)

	stored, _ := repo.FindTaskByID(context.Background(), task.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Len(t, repo.eventsFor(task.ID), before)
}

func TestMutationOnMissingTask(t *testing.T) {
	_, _, uc := newTestUsecase()

	_, err := uc.Approve(context.Background(), "user-1", "no-such-task", time.Now())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSnoozeSetsDueTime(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)

	updated, err := uc.Snooze(context.Background(), "user-1", task.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSnoozed, updated.Status)
	require.NotNil(t, updated.DueAt)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), *updated.DueAt, 5*time.Second)

	events := repo.eventsFor(task.ID)
	assert.Equal(t, domain.EventSnoozed, events[len(events)-1].EventType)
}

func TestSnoozeRejectsNonPositiveMinutes(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)
	before := len(repo.eventsFor(task.ID))

	_, err := uc.Snooze(context.Background(), "user-1", task.ID, 0)
	assert.Error(t, err)
	assert.Len(t, repo.eventsFor(task.ID), before)
}

func TestSnoozedTaskNeedsReapproval(t *testing.T) {
	_, _, uc := newTestUsecase()
	task := createTask(t, uc)

	_, err := uc.Snooze(context.Background(), "user-1", task.ID, 30)
	require.NoError(t, err)

	// Elapsed snoozes surface through ListDue but stay snoozed until a
	// person approves again.
	updated, err := uc.Approve(context.Background(), "user-1", task.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, updated.Status)
}

func TestListDueReturnsElapsedSnoozes(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)

	_, err := uc.Snooze(context.Background(), "user-1", task.ID, 30)
	require.NoError(t, err)

	// Not yet due.
	due, err := uc.ListDue(context.Background(), "team-1")
	require.NoError(t, err)
	assert.Empty(t, due)

	// Force the due time into the past.
	stored, _ := repo.FindTaskByID(context.Background(), task.ID)
	past := time.Now().Add(-time.Minute)
	stored.DueAt = &past
	require.NoError(t, repo.UpdateTask(context.Background(), stored))

	due, err = uc.ListDue(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, task.ID, due[0].ID)
}

func TestRegeneratePreservesStatus(t *testing.T) {
	repo, drafter, uc := newTestUsecase()
	task := createTask(t, uc)

	_, err := uc.Approve(context.Background(), "user-1", task.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	updated, err := uc.Regenerate(context.Background(), "user-1", task.ID, "formal")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, updated.Status, "regenerate must not change the status")
	assert.Equal(t, "formal", updated.ToneHint)
	assert.Equal(t, 2, drafter.drafts)

	events := repo.eventsFor(task.ID)
	assert.Equal(t, domain.EventDraftCreated, events[len(events)-1].EventType)
}

func TestTerminalStatusRejectsMutations(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)

	_, err := uc.Dismiss(context.Background(), "user-1", task.ID, "no longer relevant")
	require.NoError(t, err)
	before := len(repo.eventsFor(task.ID))

	var transitionErr *apperror.InvalidTransitionError
	_, err = uc.Approve(context.Background(), "user-1", task.ID, time.Now())
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, string(domain.StatusDismissed), transitionErr.From)

	_, err = uc.Snooze(context.Background(), "user-1", task.ID, 10)
	assert.ErrorAs(t, err, &transitionErr)

	_, err = uc.Regenerate(context.Background(), "user-1", task.ID, "")
	assert.ErrorAs(t, err, &transitionErr)

	assert.Len(t, repo.eventsFor(task.ID), before)
}

func TestMarkSentStampsTime(t *testing.T) {
	repo, _, uc := newTestUsecase()
	task := createTask(t, uc)

	updated, err := uc.MarkSent(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, updated.Status)
	require.NotNil(t, updated.SentAt)

	events := repo.eventsFor(task.ID)
	assert.Equal(t, domain.EventSent, events[len(events)-1].EventType)

	// Sent is terminal.
	_, err = uc.MarkSent(context.Background(), task.ID)
	var transitionErr *apperror.InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestEventsHiddenFromOtherTeams(t *testing.T) {
	_, _, uc := newTestUsecase()
	task := createTask(t, uc)

	_, err := uc.Events(context.Background(), "team-2", task.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	events, err := uc.Events(context.Background(), "team-1", task.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}
