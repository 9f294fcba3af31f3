package locker

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

// @Summary      Create a locker
// @Tags         lockers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body locker.CreateRequest true "Locker"
// @Success      201 {object} locker.Locker
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /lockers [post]
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

	l, err := h.service.Create(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, l)
}

// @Summary      List lockers
// @Tags         lockers
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Available or Occupied"
// @Success      200 {array} locker.Locker
// @Router       /lockers [get]
func (h *Handler) List(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	lockers, err := h.service.List(c.Request.Context(), id, Status(c.Query("status")))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lockers)
}

// @Summary      Assign a locker to a member
// @Tags         lockers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Locker ID"
// @Param        request body locker.AssignRequest true "Assignment"
// @Success      200 {object} locker.Locker
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /lockers/{id}/assign [post]
func (h *Handler) Assign(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	lockerID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	l, err := h.service.Assign(c.Request.Context(), id, lockerID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// @Summary      Release a locker
// @Tags         lockers
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Locker ID"
// @Success      200 {object} locker.Locker
// @Failure      404 {object} api.ErrorResponse
// @Router       /lockers/{id}/release [post]
func (h *Handler) Release(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	lockerID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.Release(c.Request.Context(), id, lockerID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}
