package handler

import (
	appaudit "github.com/creatorhub/backend/internal/application/audit"
	"github.com/creatorhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler serves the admin action log
type AuditHandler struct {
	BaseHandler
	auditService *appaudit.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *appaudit.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogRequest carries admin log filters
type ListAuditLogRequest struct {
	dto.ListRequest
	dto.DateRangeRequest
	AdminID string `form:"admin_id" binding:"omitempty,uuid"`
	Action  string `form:"action" binding:"omitempty,max=50"`
}

// List godoc
// @Summary      List admin log entries
// @Description  Returns the privileged action log. Admin only.
// @Tags         audit
// @Produce      json
// @Router       /admin/audit-log [get]
func (h *AuditHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListAuditLogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := appaudit.ListInput{
		Action:   req.Action,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.AdminID != "" {
		id := uuid.MustParse(req.AdminID)
		input.AdminID = &id
	}

	results, total, err := h.auditService.List(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, results, total, page, pageSize)
}
