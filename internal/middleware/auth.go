package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartclinic/booking-api/internal/handler"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/service/authz"
)

const (
	// ContextIdentity carries the resolved *model.Identity for the
	// request after RequireRole admits it.
	ContextIdentity = "identity"
)

type AuthMiddleware struct {
	gate *authz.Service
}

func NewAuthMiddleware(gate *authz.Service) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireRole verifies the bearer token and admits the request only if
// the bound identifier still exists for the expected role.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("invalid authorization format"))
			return
		}

		identity, err := m.gate.Authorize(c.Request.Context(), parts[1], role)
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// RequireAnyRole admits the request under the first of the allowed
// roles the token's identifier resolves for.
func (m *AuthMiddleware) RequireAnyRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				handler.NewErrorResponse("invalid authorization format"))
			return
		}

		var lastErr error
		for _, role := range roles {
			identity, err := m.gate.Authorize(c.Request.Context(), parts[1], role)
			if err == nil {
				c.Set(ContextIdentity, identity)
				c.Next()
				return
			}
			lastErr = err
		}

		handler.RespondError(c, lastErr)
		c.Abort()
	}
}

// IdentityFrom returns the identity RequireRole stored on the context.
func IdentityFrom(c *gin.Context) (*model.Identity, bool) {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*model.Identity)
	return identity, ok
}
