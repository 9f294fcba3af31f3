package server

import (
	"net/http"

	"gymcore/internal/api"
	"gymcore/internal/auth"
	"gymcore/internal/saas"

	"github.com/gin-gonic/gin"
)

// ActiveTenantMiddleware rejects writes from callers whose tenant is
// Suspended. Reads stay open so a suspended gym can still see its data.
// It must run after AuthMiddleware.
func ActiveTenantMiddleware(guard saas.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		id, ok := auth.GetIdentity(c)
		if !ok {
			c.Next()
			return
		}
		if err := guard.CheckActive(c.Request.Context(), id, id.TenantID); err != nil {
			api.RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
