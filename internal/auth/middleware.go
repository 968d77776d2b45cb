package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"event_org/internal/http/response"
	"event_org/internal/models"
	"event_org/internal/repository"
)

const (
	// ClaimsKey holds *Claims in the gin context.
	ClaimsKey = "claims"
	// UserKey holds the *models.User loaded for the token.
	UserKey = "user"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// JWT returns a Gin middleware that validates JWT tokens from
// either the Authorization header or a "token" cookie and verifies
// that the user still exists.
func JWT(tokens *Tokens, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenStr = "Bearer " + cookie
			}
		}
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "user not found")
			return
		}
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "failed to verify token owner")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserKey, user)
		c.Next()
	}
}

// ClaimsFrom returns the claims set by JWT.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok
}

// UserFrom returns the user loaded by JWT.
func UserFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
