package saas

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

// @Summary      Create a SaaS plan
// @Tags         admin,saas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body saas.PlanRequest true "Plan payload"
// @Success      201 {object} saas.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/saas-plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// @Summary      List SaaS plans
// @Tags         admin,saas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} saas.Plan
// @Router       /admin/saas-plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// @Summary      Get a SaaS plan
// @Tags         admin,saas
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} saas.Plan
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/saas-plans/{id} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary      Update a SaaS plan
// @Tags         admin,saas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Param        request body saas.PlanRequest true "Plan payload"
// @Success      200 {object} saas.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/saas-plans/{id} [put]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	plan, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary      Delete a SaaS plan
// @Tags         admin,saas
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/saas-plans/{id} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	id, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Get a tenant's active subscription
// @Tags         admin,saas
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      200 {object} saas.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id}/subscription [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), tenantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Assign a SaaS plan to a tenant
// @Description  Suspends the current subscription and starts a new one.
// @Tags         admin,saas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Param        request body saas.AssignRequest true "Assignment"
// @Success      200 {object} saas.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id}/subscription [put]
func (h *Handler) Assign(c *gin.Context) {
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	sub, err := h.service.Assign(c.Request.Context(), tenantID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Suspend a tenant's subscription
// @Tags         admin,saas
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id}/subscription [delete]
func (h *Handler) Suspend(c *gin.Context) {
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Suspend(c.Request.Context(), tenantID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Plan usage for the caller's tenant
// @Tags         saas
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id query int false "Tenant (super admin only)"
// @Success      200 {object} saas.LimitsResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /limits [get]
func (h *Handler) Limits(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	tenantID, ok := api.QueryInt(c, "tenant_id")
	if !ok {
		return
	}

	resp, err := h.service.Limits(c.Request.Context(), id, tenantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
