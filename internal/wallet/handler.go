package wallet

import (
	"net/http"

	"gymcore/internal/api"
	"gymcore/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Member wallet balance
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        memberID path int true "Member ID"
// @Success      200 {object} wallet.Wallet
// @Failure      404 {object} api.ErrorResponse
// @Router       /wallets/{memberID} [get]
func (h *Handler) GetBalance(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "memberID")
	if !ok {
		return
	}

	w, err := h.service.Balance(c.Request.Context(), id, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Top up a member wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        memberID path int true "Member ID"
// @Param        request body wallet.TopUpRequest true "Amount"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /wallets/{memberID}/topup [post]
func (h *Handler) TopUp(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "memberID")
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	w, err := h.service.TopUp(c.Request.Context(), id, memberID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Member wallet transactions
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        memberID path int true "Member ID"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} wallet.Transaction
// @Failure      404 {object} api.ErrorResponse
// @Router       /wallets/{memberID}/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "memberID")
	if !ok {
		return
	}

	page := api.PageOf(c)
	txs, err := h.service.Transactions(c.Request.Context(), id, memberID, page.Limit, page.Offset)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}
