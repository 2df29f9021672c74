package handler

import (
	appidentity "github.com/creatorhub/backend/internal/application/identity"
	"github.com/creatorhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserHandler handles user management API endpoints
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsersRequest carries user list filters
type ListUsersRequest struct {
	dto.ListRequest
	Role   string `form:"role" binding:"omitempty,oneof=USER MODERATOR ADMIN"`
	Banned *bool  `form:"banned"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// List godoc
// @Summary      List users
// @Description  Lists platform users with role, ban and search filters. Staff only.
// @Tags         users
// @Produce      json
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	results, total, err := h.userService.List(c.Request.Context(), actorID, appidentity.ListInput{
		Role:     req.Role,
		Banned:   req.Banned,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
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
// @Summary      Get a user's profile
// @Description  Users may read themselves; staff may read anyone
// @Tags         users
// @Produce      json
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}
	userID := uuid.MustParse(req.ID)

	result, err := h.userService.Get(c.Request.Context(), actorID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateUserRequest carries an admin patch for a user. Omitted fields are
// left untouched.
type UpdateUserRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,min=1,max=100"`
	Banned   *bool   `json:"banned"`
	Role     *string `json:"role" binding:"omitempty,oneof=USER MODERATOR ADMIN"`
	Balance  *string `json:"balance"`
}

// Update godoc
// @Summary      Update a user
// @Description  Applies an admin patch to a user. Role changes require ADMIN.
// @Tags         users
// @Accept       json
// @Produce      json
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}
	targetID := uuid.MustParse(uriReq.ID)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appidentity.UpdateUserInput{
		Nickname: req.Nickname,
		Banned:   req.Banned,
		Role:     req.Role,
	}
	if req.Balance != nil {
		balance, err := decimal.NewFromString(*req.Balance)
		if err != nil {
			h.BadRequest(c, "Invalid balance amount")
			return
		}
		input.Balance = &balance
	}

	result, err := h.userService.Update(c.Request.Context(), actorID, targetID, input, requestContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
