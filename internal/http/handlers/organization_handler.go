package handlers

import (
	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/http/response"
	"event_org/internal/repository"
	"event_org/internal/telemetry"
)

func ListOrganizations(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := d.Orgs.GetAll(c.Request.Context())
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch organizations")
			return
		}
		response.OK(c, "", orgs)
	}
}

func GetOrganization(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := d.Orgs.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch organization")
			return
		}
		response.OK(c, "", org)
	}
}

func ListOrganizationMembers(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		members, err := d.Orgs.Members(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch organization members")
			return
		}
		response.OK(c, "", members)
	}
}

// CreateOrganization builds the organization, then saves it. A name or email
// already in use answers 400 with the existing organization as data.
func CreateOrganization(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repository.OrganizationInput
		if !bind(c, &in) {
			return
		}

		org, err := d.Orgs.Create(in)
		if err == nil {
			org, err = d.Orgs.Save(c.Request.Context(), org)
		}
		telemetry.OrganizationsCreatedTotal.WithLabelValues(outcome(err, "created")).Inc()
		if err != nil {
			fail(c, d.Log, err, "Failed to create organization")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "organization.create",
			EntityType: "organization",
			EntityID:   org.OrganizationID,
			Metadata:   map[string]any{"name": org.OrganizationName},
		})
		response.Created(c, "Organization created successfully", org)
	}
}

func UpdateOrganization(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch repository.OrganizationPatch
		if !bind(c, &patch) {
			return
		}

		org, err := d.Orgs.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			fail(c, d.Log, err, "Failed to update organization")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "organization.update",
			EntityType: "organization",
			EntityID:   org.OrganizationID,
		})
		response.OK(c, "Organization updated successfully", org)
	}
}

func DeleteOrganization(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := d.Orgs.Delete(c.Request.Context(), id); err != nil {
			failDelete(c, d.Log, err, "Failed to delete organization")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "organization.delete",
			EntityType: "organization",
			EntityID:   id,
		})
		response.OK(c, "Organization deleted successfully", nil)
	}
}

type addUserRequest struct {
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
}

// AddUserToOrganization is idempotent: repeating it for the same pair answers
// 200 with success=false and leaves the membership untouched.
func AddUserToOrganization(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addUserRequest
		if !bind(c, &req) {
			return
		}

		m, err := d.Orgs.AddUserToOrganization(c.Request.Context(), req.UserID, req.OrganizationID)
		telemetry.MembershipsTotal.WithLabelValues(outcome(err, "added")).Inc()
		if err != nil {
			fail(c, d.Log, err, "Failed to add user to organization")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "organization.add_user",
			EntityType: "organization",
			EntityID:   m.Organization.OrganizationID,
			Metadata:   map[string]any{"userId": m.User.UserID},
		})
		response.OK(c, "User added to organization successfully", m)
	}
}
