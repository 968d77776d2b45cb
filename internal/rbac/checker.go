package rbac

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"event_org/internal/auth"
	"event_org/internal/http/response"
)

// RoleLookup answers whether a user holds a named role.
type RoleLookup interface {
	HasRole(ctx context.Context, userID, roleName string) (bool, error)
}

type Checker struct{ Roles RoleLookup }

func (c Checker) Can(ctx context.Context, userID, roleName string) (bool, error) {
	return c.Roles.HasRole(ctx, userID, Key(roleName))
}

// Key normalises a role name the way roles are stored.
func Key(roleName string) string { return strings.ToUpper(strings.TrimSpace(roleName)) }

// Require lets the request through only when the authenticated caller holds
// one of roles. It must run after auth.JWT.
func Require(chk Checker, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl, ok := auth.ClaimsFrom(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		for _, role := range roles {
			allowed, err := chk.Can(c.Request.Context(), cl.UserID, role)
			if err != nil {
				response.Abort(c, http.StatusInternalServerError, "failed to check permissions")
				return
			}
			if allowed {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden")
	}
}
