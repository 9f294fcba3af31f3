package auth

import (
	"errors"
	"net/http"
	"strings"

	"gymcore/internal/api"
	"gymcore/internal/apperr"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: message, Code: "unauthorized"})
}

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			unauthorized(c, "Token is empty")
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				unauthorized(c, "Token expired")
			default:
				unauthorized(c, "Invalid or malformed token")
			}
			return
		}

		if claims.TokenType != "access" {
			unauthorized(c, "Access token required")
			return
		}

		SetIdentity(c, claims.Identity())
		c.Next()
	}
}

// RequireRole lets the request through when the caller holds one of roles.
// A denial carries the required roles so the UI can explain it.
func RequireRole(roles ...Role) gin.HandlerFunc {
	required := make([]string, len(roles))
	for i, r := range roles {
		required[i] = string(r)
	}

	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			unauthorized(c, "User identity not found")
			return
		}

		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}

		api.RespondError(c, apperr.Forbidden("Insufficient permissions", required))
	}
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}

	id, ok := v.(Identity)
	return id, ok
}

// Caller returns the authenticated identity, answering 401 when the route
// was mounted without AuthMiddleware.
func Caller(c *gin.Context) (Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		unauthorized(c, "User identity not found")
	}
	return id, ok
}
