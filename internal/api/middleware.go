package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/railsuser2014/WebVella-ERP/internal/auth"
	apperrors "github.com/railsuser2014/WebVella-ERP/internal/errors"
)

const claimsKey = "claims"

// AuthMiddleware requires a valid bearer token and stores its claims
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWith(c, apperrors.NewUnauthorizedError(""))
			return
		}

		claims, err := h.tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			h.logger.Debug("rejected token", "error", err)
			abortWith(c, apperrors.NewUnauthorizedError("invalid or expired token"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdministrator rejects callers without the administrator role
func RequireAdministrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !claimsFrom(c).IsAdministrator() {
			abortWith(c, apperrors.NewPermissionDeniedError("manage", "entity metadata"))
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortWith(c *gin.Context, err error) {
	status, body := apperrors.ToHTTPError(err)
	c.AbortWithStatusJSON(status, body)
}
