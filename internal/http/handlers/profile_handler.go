package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/auth"
	"event_org/internal/http/response"
	"event_org/internal/repository"
)

// GetProfile returns the authenticated caller.
func GetProfile(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.UserFrom(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		response.OK(c, "", user)
	}
}

func UpdateProfile(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl, ok := auth.ClaimsFrom(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		var patch repository.UserPatch
		if !bind(c, &patch) {
			return
		}

		user, err := d.Users.UpdateUser(c.Request.Context(), cl.UserID, patch)
		if err != nil {
			fail(c, d.Log, err, "Failed to update profile")
			return
		}

		d.Audit.Record(c, audit.Entry{Action: "user.update_profile", EntityType: "user", EntityID: cl.UserID})
		response.OK(c, "Profile updated successfully", user)
	}
}
