package handlers

import (
	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/http/response"
	"event_org/internal/repository"
)

func ListEvents(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := d.Events.GetAll(c.Request.Context())
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch events")
			return
		}
		response.OK(c, "", events)
	}
}

func GetEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := d.Events.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch event")
			return
		}
		response.OK(c, "", event)
	}
}

func CreateEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in repository.EventInput
		if !bind(c, &in) {
			return
		}

		event, err := d.Events.Create(c.Request.Context(), in)
		if err != nil {
			fail(c, d.Log, err, "Failed to create event")
			return
		}

		d.Audit.Record(c, audit.Entry{
			Action:     "event.create",
			EntityType: "event",
			EntityID:   event.EventID,
			Metadata:   map[string]any{"organizationId": event.OrganizationID, "title": event.EventTitle},
		})
		response.Created(c, "Event created successfully", event)
	}
}

func UpdateEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch repository.EventPatch
		if !bind(c, &patch) {
			return
		}

		event, err := d.Events.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			fail(c, d.Log, err, "Failed to update event")
			return
		}

		d.Audit.Record(c, audit.Entry{Action: "event.update", EntityType: "event", EntityID: event.EventID})
		response.OK(c, "Event updated successfully", event)
	}
}

func DeleteEvent(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := d.Events.Delete(c.Request.Context(), id); err != nil {
			failDelete(c, d.Log, err, "Failed to delete event")
			return
		}

		d.Audit.Record(c, audit.Entry{Action: "event.delete", EntityType: "event", EntityID: id})
		response.OK(c, "Event deleted successfully", nil)
	}
}
