package lead

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

// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body lead.CreateRequest true "Lead"
// @Success      201 {object} lead.Lead
// @Failure      400 {object} api.ErrorResponse
// @Router       /leads [post]
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

// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "New, Contacted, Converted or Lost"
// @Success      200 {array} lead.Lead
// @Router       /leads [get]
func (h *Handler) List(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	page := api.PageOf(c)
	leads, err := h.service.List(c.Request.Context(), id, Status(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lead ID"
// @Success      200 {object} lead.Lead
// @Failure      404 {object} api.ErrorResponse
// @Router       /leads/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	leadID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id, leadID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

func (h *Handler) bindNote(c *gin.Context) (NoteRequest, bool) {
	var req NoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.BindError(c, err)
			return req, false
		}
	}
	return req, true
}

// @Summary      Mark a lead contacted
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lead ID"
// @Param        request body lead.NoteRequest false "Note"
// @Success      200 {object} lead.Lead
// @Failure      409 {object} api.ErrorResponse
// @Router       /leads/{id}/contact [post]
func (h *Handler) Contact(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	leadID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	req, ok := h.bindNote(c)
	if !ok {
		return
	}

	l, err := h.service.Contact(c.Request.Context(), id, leadID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// @Summary      Mark a lead lost
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lead ID"
// @Param        request body lead.NoteRequest false "Note"
// @Success      200 {object} lead.Lead
// @Failure      409 {object} api.ErrorResponse
// @Router       /leads/{id}/lost [post]
func (h *Handler) MarkLost(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	leadID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}
	req, ok := h.bindNote(c)
	if !ok {
		return
	}

	l, err := h.service.MarkLost(c.Request.Context(), id, leadID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// @Summary      Convert a lead into a member
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lead ID"
// @Param        request body lead.ConvertRequest false "Plan"
// @Success      201 {object} lead.ConvertResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /leads/{id}/convert [post]
func (h *Handler) Convert(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	leadID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	var req ConvertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.BindError(c, err)
			return
		}
	}

	resp, err := h.service.Convert(c.Request.Context(), id, leadID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
