package invoice

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

// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        member_id query int false "Member"
// @Param        status query string false "Unpaid, Partial, Paid or Overdue"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} invoice.Invoice
// @Router       /invoices [get]
func (h *Handler) List(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.QueryInt(c, "member_id")
	if !ok {
		return
	}

	page := api.PageOf(c)
	invoices, err := h.service.List(c.Request.Context(), id, ListFilter{
		MemberID: memberID,
		Status:   Status(c.Query("status")),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invoice ID"
// @Success      200 {object} invoice.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	invoiceID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.Get(c.Request.Context(), id, invoiceID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// @Summary      Record a payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invoice ID"
// @Param        request body invoice.PaymentRequest true "Payment"
// @Success      200 {object} invoice.Invoice
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /invoices/{id}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	invoiceID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	inv, err := h.service.RecordPayment(c.Request.Context(), id, invoiceID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// @Summary      Pay an invoice from the member wallet
// @Tags         invoices,wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invoice ID"
// @Param        request body invoice.WalletPaymentRequest false "Amount, defaults to the outstanding balance"
// @Success      200 {object} invoice.Invoice
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /invoices/{id}/pay-wallet [post]
func (h *Handler) PayFromWallet(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	invoiceID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req WalletPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.BindError(c, err)
			return
		}
	}

	inv, err := h.service.PayFromWallet(c.Request.Context(), id, invoiceID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}
