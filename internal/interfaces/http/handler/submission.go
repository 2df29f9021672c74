package handler

import (
	appsubmission "github.com/creatorhub/backend/internal/application/submission"
	"github.com/creatorhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmissionHandler handles submission lifecycle API endpoints
type SubmissionHandler struct {
	BaseHandler
	submissionService *appsubmission.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *appsubmission.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// CreateSubmissionRequest carries the multipart form fields of an upload
type CreateSubmissionRequest struct {
	Category    string `form:"category" binding:"required"`
	Description string `form:"description" binding:"omitempty,max=500"`
}

// Create godoc
// @Summary      Create a submission
// @Description  Uploads a file and creates a PENDING submission
// @Tags         submissions
// @Accept       multipart/form-data
// @Produce      json
// @Router       /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "Invalid form fields")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read file upload")
		return
	}
	defer file.Close()

	result, err := h.submissionService.Create(c.Request.Context(), userID, appsubmission.CreateInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListSubmissionsRequest carries submission list filters
type ListSubmissionsRequest struct {
	dto.ListRequest
	dto.DateRangeRequest
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Category string `form:"category"`
}

// List godoc
// @Summary      List submissions
// @Description  Lists submissions; non-staff callers only see their own
// @Tags         submissions
// @Produce      json
// @Router       /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := appsubmission.ListInput{
		Status:   req.Status,
		Category: req.Category,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid user_id")
			return
		}
		input.UserID = &id
	}

	results, total, err := h.submissionService.List(c.Request.Context(), actorID, input)
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

// Get godoc
// @Summary      Get one submission
// @Tags         submissions
// @Produce      json
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid submission id")
		return
	}
	submissionID := uuid.MustParse(req.ID)

	result, err := h.submissionService.Get(c.Request.Context(), actorID, submissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a submission
// @Description  Owners may delete their own submissions while still PENDING
// @Tags         submissions
// @Produce      json
// @Router       /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid submission id")
		return
	}
	submissionID := uuid.MustParse(req.ID)

	if err := h.submissionService.Delete(c.Request.Context(), actorID, submissionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReviewRequest carries a single moderation decision
type ReviewRequest struct {
	Approve      bool   `json:"approve"`
	RejectReason string `json:"reject_reason" binding:"omitempty,max=200"`
	Bonus        string `json:"bonus" binding:"omitempty"`
}

// Review godoc
// @Summary      Review a submission
// @Description  Applies a terminal APPROVED/REJECTED decision, optionally crediting a bonus
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Router       /submissions/{id}/review [post]
func (h *SubmissionHandler) Review(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid submission id")
		return
	}
	submissionID := uuid.MustParse(uriReq.ID)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	bonus := decimal.Zero
	if req.Bonus != "" {
		bonus, err = decimal.NewFromString(req.Bonus)
		if err != nil {
			h.BadRequest(c, "Invalid bonus amount")
			return
		}
	}

	result, err := h.submissionService.Review(c.Request.Context(), actorID, submissionID, appsubmission.ReviewInput{
		Approve:      req.Approve,
		RejectReason: req.RejectReason,
		Bonus:        bonus,
	}, requestContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// BulkReviewRequest carries a batch moderation decision
type BulkReviewRequest struct {
	IDs          []string `json:"ids" binding:"required,min=1,max=100,dive,uuid"`
	Approve      bool     `json:"approve"`
	RejectReason string   `json:"reject_reason" binding:"omitempty,max=200"`
}

// BulkReviewResponse reports how many submissions the batch decision touched
type BulkReviewResponse struct {
	Requested int   `json:"requested"`
	Affected  int64 `json:"affected"`
}

// BulkReview godoc
// @Summary      Review a batch of submissions
// @Description  Applies one decision to every submission in the batch that is still PENDING
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Router       /submissions/bulk-review [post]
func (h *SubmissionHandler) BulkReview(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = uuid.MustParse(raw)
	}

	affected, err := h.submissionService.BulkReview(c.Request.Context(), actorID, appsubmission.BulkReviewInput{
		IDs:          ids,
		Approve:      req.Approve,
		RejectReason: req.RejectReason,
	}, requestContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, BulkReviewResponse{
		Requested: len(req.IDs),
		Affected:  affected,
	})
}
