package store

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

// @Summary      Create a product
// @Tags         store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body store.ProductRequest true "Product"
// @Success      201 {object} store.Product
// @Failure      400 {object} api.ErrorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List products
// @Tags         store
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} store.Product
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	products, err := h.service.ListProducts(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary      Restock a product
// @Tags         store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        request body store.RestockRequest true "Quantity"
// @Success      200 {object} store.Product
// @Failure      404 {object} api.ErrorResponse
// @Router       /products/{id}/restock [post]
func (h *Handler) Restock(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	productID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.Restock(c.Request.Context(), id, productID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Check out a cart
// @Description  Sells the items to a member, optionally paying from the member's wallet
// @Tags         store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body store.CheckoutRequest true "Cart"
// @Success      201 {object} store.CheckoutResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
