package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"execassist-backend/internal/workspace"
	"execassist-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// WorkspaceHandler exposes the connected-account operations over HTTP
type WorkspaceHandler struct {
	svc *workspace.Service
}

func NewWorkspaceHandler(svc *workspace.Service) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// GET /api/mail/labels
func (h *WorkspaceHandler) ListLabels(c *gin.Context) {
	labels, err := h.svc.ListLabels(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

// POST /api/mail/labels
func (h *WorkspaceHandler) CreateLabel(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := h.svc.CreateLabel(c.Request.Context(), c.GetString("userID"), req.Name)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, label)
}

// GET /api/mail/messages
func (h *WorkspaceHandler) ListMessages(c *gin.Context) {
	maxResults := 25
	if raw := c.Query("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxResults = n
		}
	}

	refs, err := h.svc.ListMessages(c.Request.Context(), c.GetString("userID"), c.Query("q"), maxResults)
	if err != nil {
		h.renderError(c, err)
		return
	}

	messages := h.svc.GetMessages(c.Request.Context(), c.GetString("userID"), refs)
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GET /api/mail/messages/:id
func (h *WorkspaceHandler) GetMessage(c *gin.Context) {
	message, err := h.svc.GetMessage(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// POST /api/mail/send
func (h *WorkspaceHandler) SendMessage(c *gin.Context) {
	var req struct {
		To      string `json:"to" binding:"required"`
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref, err := h.svc.SendMessage(c.Request.Context(), c.GetString("userID"), req.To, req.Subject, req.Body)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

// POST /api/mail/autosort
func (h *WorkspaceHandler) AutoSort(c *gin.Context) {
	var req struct {
		Rules []workspace.SortRule `json:"rules"`
		Max   int                  `json:"max"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Max <= 0 {
		req.Max = 20
	}

	results, err := h.svc.AutoSortMessages(c.Request.Context(), c.GetString("userID"), req.Rules, req.Max)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GET /api/briefing
func (h *WorkspaceHandler) Briefing(c *gin.Context) {
	briefing, err := h.svc.BuildBriefing(c.Request.Context(), c.GetString("userID"), time.Now())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, briefing)
}

// GET /api/calendar/events
func (h *WorkspaceHandler) ListEvents(c *gin.Context) {
	now := time.Now()
	from, to := now, now.AddDate(0, 0, 7)
	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			from = parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			to = parsed
		}
	}

	events, err := h.svc.ListEvents(c.Request.Context(), c.GetString("userID"), from, to)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GET /api/drive/files
func (h *WorkspaceHandler) ListFiles(c *gin.Context) {
	pageSize := 25
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
		}
	}

	files, err := h.svc.ListFiles(c.Request.Context(), c.GetString("userID"), c.Query("q"), pageSize)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GET /api/tasklists
func (h *WorkspaceHandler) ListTaskLists(c *gin.Context) {
	lists, err := h.svc.ListTaskLists(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_lists": lists})
}

func (h *WorkspaceHandler) renderError(c *gin.Context, err error) {
	var remoteErr *apperror.RemoteAPIError
	switch {
	case errors.Is(err, apperror.ErrCredentialUnavailable):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no connected account, visit /api/auth/google/connect first"})
	case errors.As(err, &remoteErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": remoteErr.Error(), "surface": remoteErr.Surface})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
