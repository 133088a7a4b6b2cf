package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"execassist-backend/internal/action/domain"
	"execassist-backend/internal/action/usecase"
	"execassist-backend/internal/workspace"
	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/jsontype"

	"github.com/gin-gonic/gin"
)

// ActionHandler orchestrates AI-initiated operations: it opens a ledger
// row, runs the remote operation, then settles the row with the outcome.
type ActionHandler struct {
	actionUsecase usecase.ActionUsecase
	workspaceSvc  *workspace.Service
	aiService     ai.CompletionService
}

func NewActionHandler(actionUsecase usecase.ActionUsecase, workspaceSvc *workspace.Service, aiService ai.CompletionService) *ActionHandler {
	return &ActionHandler{
		actionUsecase: actionUsecase,
		workspaceSvc:  workspaceSvc,
		aiService:     aiService,
	}
}

type draftReplyRequest struct {
	MessageRef string `json:"message_ref" binding:"required"`
	ThreadRef  string `json:"thread_ref"`
	Tone       string `json:"tone"`
}

// POST /api/actions/draft-reply
func (h *ActionHandler) DraftReply(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	var req draftReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionUsecase.Begin(ctx, userID, domain.ActionDraftReply, req.MessageRef, req.ThreadRef,
		jsontype.JSON{"message_ref": req.MessageRef, "tone": req.Tone})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.workspaceSvc.GetMessage(ctx, userID, req.MessageRef)
	if err != nil {
		h.failAndRender(c, action.ID, err)
		return
	}

	draft, err := h.aiService.DraftFollowup(ctx, ai.DraftRequest{
		CounterpartEmail: msg.HeaderValue("From"),
		Subject:          msg.HeaderValue("Subject"),
		Summary:          msg.Snippet,
		Tone:             req.Tone,
	})
	if err != nil {
		h.failAndRender(c, action.ID, err)
		return
	}

	action, err = h.actionUsecase.Complete(ctx, action.ID,
		jsontype.JSON{"draft_subject": draft.Subject, "draft_body": draft.Body})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "draft": draft})
}

type scheduleMeetingRequest struct {
	Summary     string    `json:"summary" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	ThreadRef   string    `json:"thread_ref"`
}

// POST /api/actions/schedule-meeting
// The event is created immediately but the action stays in
// awaiting_confirmation until the user confirms the proposed time.
func (h *ActionHandler) ScheduleMeeting(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	var req scheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionUsecase.Begin(ctx, userID, domain.ActionScheduleMeeting, "", req.ThreadRef,
		jsontype.JSON{"summary": req.Summary, "start": req.Start.Format(time.RFC3339), "end": req.End.Format(time.RFC3339)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	event, err := h.workspaceSvc.InsertEvent(ctx, userID, &workspace.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &workspace.EventTime{DateTime: req.Start.Format(time.RFC3339)},
		End:         &workspace.EventTime{DateTime: req.End.Format(time.RFC3339)},
	})
	if err != nil {
		h.failAndRender(c, action.ID, err)
		return
	}

	action, err = h.actionUsecase.AwaitConfirmation(ctx, action.ID, jsontype.JSON{"event_id": event.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "event": event})
}

// POST /api/actions/:id/confirm
func (h *ActionHandler) Confirm(c *gin.Context) {
	action, err := h.actionUsecase.Confirm(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

// POST /api/actions/:id/undo
// For schedule_meeting the remote side effect is reverted best-effort;
// the ledger row is marked undone regardless, so the audit trail
// reflects the user's intent even when the revert fails.
func (h *ActionHandler) Undo(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	action, err := h.actionUsecase.Undo(ctx, userID, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	revertError := ""
	if action.ActionType == domain.ActionScheduleMeeting {
		if eventID, ok := action.Result["event_id"].(string); ok && eventID != "" {
			if err := h.workspaceSvc.DeleteEvent(ctx, userID, eventID); err != nil {
				revertError = err.Error()
			}
		}
	}

	resp := gin.H{"action": action}
	if revertError != "" {
		resp["revert_error"] = revertError
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/actions/:id/feedback
func (h *ActionHandler) Feedback(c *gin.Context) {
	var req struct {
		Rating string `json:"rating" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := h.actionUsecase.SubmitFeedback(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Rating, req.Note)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, action)
}

// GET /api/actions/metrics?days=7
func (h *ActionHandler) Metrics(c *gin.Context) {
	days := 7
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	report, err := h.actionUsecase.Metrics(c.Request.Context(), c.GetString("userID"), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// failAndRender settles the action as failed and reports the cause.
// The original error, not the settle outcome, is what the caller sees.
func (h *ActionHandler) failAndRender(c *gin.Context, actionID string, cause error) {
	_, settleErr := h.actionUsecase.Fail(c.Request.Context(), actionID, cause.Error())
	if settleErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": settleErr.Error()})
		return
	}

	var remote *apperror.RemoteAPIError
	if errors.As(cause, &remote) {
		c.JSON(http.StatusBadGateway, gin.H{"error": cause.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": cause.Error()})
}

func (h *ActionHandler) renderError(c *gin.Context, err error) {
	var transition *apperror.InvalidTransitionError
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
