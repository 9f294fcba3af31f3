package member

import (
	"net/http"
	"time"

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

func (h *Handler) respond(c *gin.Context, status int, m *Member, err error) {
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(status, m)
}

// @Summary      Create a member
// @Description  Applies the members plan limit. With plan_id an Unpaid invoice is issued.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.CreateRequest true "Member"
// @Success      201 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members [post]
func (h *Handler) Create(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), id, req)
	h.respond(c, http.StatusCreated, m, err)
}

// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Member status"
// @Param        q query string false "Search name, email or code"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} member.Member
// @Router       /members [get]
func (h *Handler) List(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	page := api.PageOf(c)
	members, err := h.service.List(c.Request.Context(), id, ListFilter{
		Status: Status(c.Query("status")),
		Search: c.Query("q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id, memberID)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Update member contact fields
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.UpdateRequest true "Fields"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Delete a member
// @Description  Releases lockers and removes invoices, orders and wallet.
// @Tags         members
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, memberID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Assign a plan from the join date
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.AssignPlanRequest true "Plan"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/plan [post]
func (h *Handler) AssignPlan(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.AssignPlan(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Renew a membership
// @Description  Not idempotent: every call bills plan price times duration.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.RenewRequest true "Renewal"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.Renew(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Freeze a membership
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.FreezeRequest true "Freeze"
// @Success      200 {object} member.Member
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/freeze [post]
func (h *Handler) Freeze(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.Freeze(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Unfreeze a membership
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/unfreeze [post]
func (h *Handler) Unfreeze(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.Unfreeze(c.Request.Context(), id, memberID)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Gift days
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.GiftRequest true "Gift"
// @Success      200 {object} member.Member
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/gift [post]
func (h *Handler) GiftDays(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req GiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	m, err := h.service.GiftDays(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Toggle Active and Inactive
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} member.Member
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/toggle [post]
func (h *Handler) ToggleStatus(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.ToggleStatus(c.Request.Context(), id, memberID)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Cancel a membership
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.CancelRequest false "Reason"
// @Success      200 {object} member.Member
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.BindError(c, err)
			return
		}
	}

	m, err := h.service.Cancel(c.Request.Context(), id, memberID, req)
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Use one unit of a benefit
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        name path string true "Benefit name"
// @Success      200 {object} member.Member
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id}/benefits/{name}/use [post]
func (h *Handler) UseBenefit(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	memberID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.UseBenefit(c.Request.Context(), id, memberID, c.Param("name"))
	h.respond(c, http.StatusOK, m, err)
}

// @Summary      Members expiring soon
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.Member
// @Router       /members/expiring [get]
func (h *Handler) ExpiringSoon(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	members, err := h.service.ExpiringSoon(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Recently expired members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} member.Member
// @Router       /members/expired [get]
func (h *Handler) RecentlyExpired(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	members, err := h.service.RecentlyExpired(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// @Summary      Export the member roster
// @Tags         members
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status query string false "Member status"
// @Success      200 {file} file
// @Router       /members/export [get]
func (h *Handler) Export(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	members, err := h.service.List(c.Request.Context(), id, ListFilter{Status: Status(c.Query("status"))})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	data, err := Roster(members)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	filename := "members-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
