package handler

import (
	appledger "github.com/creatorhub/backend/internal/application/ledger"
	"github.com/creatorhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles balance and payout ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *appledger.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *appledger.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CreditRequest carries a manual balance credit
type CreditRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required,min=1,max=200"`
}

// Credit godoc
// @Summary      Credit a user's balance
// @Description  Adds to a user's balance and appends a payout row in one transaction. Staff only.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Router       /ledger/credits [post]
func (h *LedgerHandler) Credit(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}

	result, err := h.ledgerService.Credit(c.Request.Context(), actorID, appledger.CreditInput{
		UserID: uuid.MustParse(req.UserID),
		Amount: amount,
		Reason: req.Reason,
	}, requestContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListPayoutsRequest carries payout list filters
type ListPayoutsRequest struct {
	dto.ListRequest
	dto.DateRangeRequest
	UserID  string `form:"user_id" binding:"omitempty,uuid"`
	AdminID string `form:"admin_id" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
}

// ListPayouts godoc
// @Summary      List payout ledger rows
// @Description  Lists payouts; non-staff callers only see their own rows
// @Tags         ledger
// @Produce      json
// @Router       /ledger/payouts [get]
func (h *LedgerHandler) ListPayouts(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPayoutsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := appledger.ListInput{
		Status:   req.Status,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserID != "" {
		id := uuid.MustParse(req.UserID)
		input.UserID = &id
	}
	if req.AdminID != "" {
		id := uuid.MustParse(req.AdminID)
		input.AdminID = &id
	}

	results, total, err := h.ledgerService.List(c.Request.Context(), actorID, input)
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

// BalanceResponse carries the authenticated user's current balance
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// GetBalance godoc
// @Summary      Get the authenticated user's balance
// @Tags         ledger
// @Produce      json
// @Router       /ledger/balance [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, BalanceResponse{Balance: balance})
}
