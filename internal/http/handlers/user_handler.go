package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/auth"
	"event_org/internal/http/response"
	"event_org/internal/models"
	"event_org/internal/repository"
	"event_org/internal/telemetry"
)

// RegisterUser creates an account holding exactly the GUEST role.
func RegisterUser(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repository.RegisterInput
		if !bind(c, &in) {
			return
		}

		user, err := d.Users.Register(c.Request.Context(), in)
		telemetry.RegistrationsTotal.WithLabelValues(outcome(err, "created")).Inc()
		if err != nil {
			fail(c, d.Log, err, "Failed to register user")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "user.register",
			EntityType: "user",
			EntityID:   user.UserID,
			Metadata:   map[string]any{"username": user.Username},
		})
		response.Created(c, "User registered successfully", user)
	}
}

func ListUsers(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := d.Users.GetAllUsers(c.Request.Context())
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch users")
			return
		}
		response.OK(c, "", users)
	}
}

func GetUser(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := d.Users.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch user")
			return
		}
		response.OK(c, "", user)
	}
}

// UpdateUser changes another account. Callers may edit themselves; editing
// anyone else takes ADMIN.
func UpdateUser(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !mayManage(c, d, id) {
			return
		}
		var patch repository.UserPatch
		if !bind(c, &patch) {
			return
		}

		user, err := d.Users.UpdateUser(c.Request.Context(), id, patch)
		if err != nil {
			fail(c, d.Log, err, "Failed to update user")
			return
		}

		d.Audit.Record(c, audit.Entry{Action: "user.update", EntityType: "user", EntityID: id})
		response.OK(c, "User updated successfully", user)
	}
}

func DeleteUser(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !mayManage(c, d, id) {
			return
		}

		if err := d.Users.DeleteUser(c.Request.Context(), id); err != nil {
			failDelete(c, d.Log, err, "Failed to delete user")
			return
		}

		d.Audit.Record(c, audit.Entry{Action: "user.delete", EntityType: "user", EntityID: id})
		response.OK(c, "User deleted successfully", nil)
	}
}

// mayManage answers 401/403 itself when the caller cannot act on targetID.
func mayManage(c *gin.Context, d *Deps, targetID string) bool {
	cl, ok := auth.ClaimsFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", "")
		return false
	}
	if cl.UserID == targetID {
		return true
	}
	admin, err := d.Users.HasRole(c.Request.Context(), cl.UserID, models.RoleAdmin)
	if err != nil {
		fail(c, d.Log, err, "Failed to check permissions")
		return false
	}
	if !admin {
		response.Fail(c, http.StatusForbidden, "forbidden", "")
		return false
	}
	return true
}
