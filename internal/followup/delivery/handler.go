package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"execassist-backend/internal/followup/domain"
	"execassist-backend/internal/followup/usecase"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/jsontype"

	"github.com/gin-gonic/gin"
)

// FollowupHandler handles follow-up task HTTP requests
type FollowupHandler struct {
	followupUsecase usecase.FollowupUsecase
}

func NewFollowupHandler(followupUsecase usecase.FollowupUsecase) *FollowupHandler {
	return &FollowupHandler{followupUsecase: followupUsecase}
}

type createFollowupRequest struct {
	ThreadRef        string         `json:"thread_ref"`
	MessageRef       string         `json:"message_ref"`
	CounterpartEmail string         `json:"counterpart_email" binding:"required"`
	CounterpartName  string         `json:"counterpart_name"`
	Subject          string         `json:"subject" binding:"required"`
	Summary          string         `json:"summary"`
	Priority         int            `json:"priority"`
	DueAt            *time.Time     `json:"due_at"`
	SuggestedSendAt  *time.Time     `json:"suggested_send_at"`
	ToneHint         string         `json:"tone_hint"`
	Metadata         map[string]any `json:"metadata"`
}

// POST /api/followups
func (h *FollowupHandler) Create(c *gin.Context) {
	var req createFollowupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.followupUsecase.Create(c.Request.Context(), usecase.CreateTaskRequest{
		TeamID:           c.GetString("teamID"),
		OwnerUserID:      c.GetString("userID"),
		ThreadRef:        req.ThreadRef,
		MessageRef:       req.MessageRef,
		CounterpartEmail: req.CounterpartEmail,
		CounterpartName:  req.CounterpartName,
		Subject:          req.Subject,
		Summary:          req.Summary,
		Priority:         req.Priority,
		DueAt:            req.DueAt,
		SuggestedSendAt:  req.SuggestedSendAt,
		ToneHint:         req.ToneHint,
		Metadata:         jsontype.JSON(req.Metadata),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GET /api/followups?status=pending&limit=50&offset=0
func (h *FollowupHandler) List(c *gin.Context) {
	teamID := c.GetString("teamID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var statusFilter *domain.TaskStatus
	if status := c.Query("status"); status != "" {
		s := domain.TaskStatus(status)
		statusFilter = &s
	}

	tasks, total, err := h.followupUsecase.ListForTeam(c.Request.Context(), teamID, statusFilter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": total})
}

// GET /api/followups/due
func (h *FollowupHandler) ListDue(c *gin.Context) {
	tasks, err := h.followupUsecase.ListDue(c.Request.Context(), c.GetString("teamID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tasks == nil {
		tasks = []*domain.FollowupTask{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GET /api/followups/:id
func (h *FollowupHandler) Get(c *gin.Context) {
	task, err := h.followupUsecase.Get(c.Request.Context(), c.GetString("teamID"), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /api/followups/:id/events
func (h *FollowupHandler) Events(c *gin.Context) {
	events, err := h.followupUsecase.Events(c.Request.Context(), c.GetString("teamID"), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /api/followups/:id/approve
func (h *FollowupHandler) Approve(c *gin.Context) {
	var req struct {
		SendAt *time.Time `json:"send_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sendAt := time.Now()
	if req.SendAt != nil {
		sendAt = *req.SendAt
	}

	task, err := h.followupUsecase.Approve(c.Request.Context(), c.GetString("userID"), c.Param("id"), sendAt)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/followups/:id/snooze
func (h *FollowupHandler) Snooze(c *gin.Context) {
	var req struct {
		Minutes int `json:"minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.followupUsecase.Snooze(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Minutes)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/followups/:id/dismiss
func (h *FollowupHandler) Dismiss(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	task, err := h.followupUsecase.Dismiss(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Reason)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/followups/:id/regenerate
func (h *FollowupHandler) Regenerate(c *gin.Context) {
	var req struct {
		Tone string `json:"tone"`
	}
	_ = c.ShouldBindJSON(&req)

	task, err := h.followupUsecase.Regenerate(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Tone)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/followups/:id/sent
// Callback for the component that actually delivers the message.
func (h *FollowupHandler) MarkSent(c *gin.Context) {
	task, err := h.followupUsecase.MarkSent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *FollowupHandler) renderError(c *gin.Context, err error) {
	var transition *apperror.InvalidTransitionError
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, apperror.ErrNotTaskOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the task owner may do this"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
