package user

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

// Login godoc
// @Summary      Login
// @Description  Authenticates a user by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Description  Returns a new token pair for a valid refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	u, err := h.service.Me(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// CreateStaff godoc
// @Summary      Create a staff account
// @Description  Applies the staff plan limit.
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      StaffRequest  true  "Staff member"
// @Success      201      {object}  User
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /staff [post]
func (h *Handler) CreateStaff(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, err := h.service.CreateStaff(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// ListStaff godoc
// @Summary      List staff
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  User
// @Router       /staff [get]
func (h *Handler) ListStaff(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}

	users, err := h.service.ListStaff(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteStaff godoc
// @Summary      Delete a staff account
// @Tags         staff
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Router       /staff/{id} [delete]
func (h *Handler) DeleteStaff(c *gin.Context) {
	id, ok := auth.Caller(c)
	if !ok {
		return
	}
	userID, ok := api.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteStaff(c.Request.Context(), id, userID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
