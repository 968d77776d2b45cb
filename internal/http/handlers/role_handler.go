package handlers

import (
	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/http/response"
	"event_org/internal/repository"
)

func ListRoles(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := d.Users.ListRoles(c.Request.Context())
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch roles")
			return
		}
		response.OK(c, "", roles)
	}
}

func CreateRole(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repository.RoleInput
		if !bind(c, &in) {
			return
		}

		role, err := d.Users.CreateRole(c.Request.Context(), in)
		if err != nil {
			fail(c, d.Log, err, "Failed to create role")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "role.create",
			EntityType: "role",
			EntityID:   role.RoleName,
		})
		response.Created(c, "Role created successfully", role)
	}
}
