package plan

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

// @Summary      Create a membership plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.PlanRequest true "Plan payload"
// @Success      201 {object} plan.MembershipPlan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /plans [post]
func (h *Handler) Create(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List membership plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Only active plans"
// @Success      200 {array} plan.MembershipPlan
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	plans, err := h.service.List(c.Request.Context(), id, c.Query("active") == "true")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// @Summary      Get a membership plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} plan.MembershipPlan
// @Failure      404 {object} api.ErrorResponse
// @Router       /plans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	planID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id, planID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Update a membership plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Param        request body plan.PlanRequest true "Plan payload"
// @Success      200 {object} plan.MembershipPlan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /plans/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	planID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, planID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a membership plan
// @Tags         plans
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	planID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, planID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
