package api

import (
	"strconv"

	"gymcore/internal/apperr"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive integer path parameter. On failure it answers
// 400 and returns false.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		RespondError(c, apperr.Validation("invalid "+name))
		return 0, false
	}
	return id, true
}

// QueryInt parses an optional integer query parameter.
func QueryInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		RespondError(c, apperr.Validation("invalid "+name))
		return nil, false
	}
	return &v, true
}

type Page struct {
	Limit  int
	Offset int
}

// PageOf reads limit/offset query parameters, defaulting to 50 rows and
// capping at 500.
func PageOf(c *gin.Context) Page {
	p := Page{Limit: 50}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}
