package tenant

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

// @Summary      Onboard a tenant
// @Description  Creates the tenant, its BRANCH_ADMIN owner and an optional SaaS subscription
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tenant.OnboardRequest true "Tenant"
// @Success      201 {object} tenant.OnboardResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/tenants [post]
func (h *Handler) Onboard(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Onboard(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Add a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tenant.BranchRequest true "Branch"
// @Success      201 {object} tenant.Tenant
// @Failure      403 {object} api.ErrorResponse
// @Router       /branches [post]
func (h *Handler) AddBranch(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.AddBranch(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      List tenants
// @Description  All tenants for a super admin, otherwise the caller's tenant and the branches they own
// @Tags         branches
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} tenant.Tenant
// @Router       /branches [get]
func (h *Handler) ListMine(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	tenants, err := h.service.ListMine(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// @Summary      Get a tenant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      200 {object} tenant.Tenant
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), id, tenantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Suspend a tenant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      200 {object} tenant.Tenant
// @Router       /admin/tenants/{id}/suspend [post]
func (h *Handler) Suspend(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.Suspend(c.Request.Context(), id, tenantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Activate a tenant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      200 {object} tenant.Tenant
// @Router       /admin/tenants/{id}/activate [post]
func (h *Handler) Activate(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.Activate(c.Request.Context(), id, tenantID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Delete a tenant
// @Description  Removes the tenant and every row it owns
// @Tags         admin
// @Security     BearerAuth
// @Param        id path int true "Tenant ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	tenantID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, tenantID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
