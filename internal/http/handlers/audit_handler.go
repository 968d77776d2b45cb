package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"event_org/internal/http/response"
	"event_org/internal/models"
	"event_org/internal/repository"
)

type auditPage struct {
	Logs       []models.AuditLog `json:"logs"`
	NextCursor *int64            `json:"nextCursor"`
}

// ListAudit pages the audit trail newest first. ?after_id=<nextCursor>
// continues from a previous page, ?q= filters by initiator, action, entity
// type or IP.
func ListAudit(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}

		var afterID int64
		if cursorStr := c.Query("after_id"); cursorStr != "" {
			if parsed, err := strconv.ParseInt(cursorStr, 10, 64); err == nil && parsed > 0 {
				afterID = parsed
			}
		}

		logs, err := d.AuditLogs.ListAudit(c.Request.Context(), repository.AuditQuery{
			Limit:   limit + 1,
			AfterID: afterID,
			Search:  strings.TrimSpace(c.Query("q")),
		})
		if err != nil {
			fail(c, d.Log, err, "Failed to fetch audit log")
			return
		}

		page := auditPage{Logs: logs}
		if len(logs) > limit {
			next := logs[limit-1].ID
			page.Logs = logs[:limit]
			page.NextCursor = &next
		}
		if page.Logs == nil {
			page.Logs = []models.AuditLog{}
		}
		response.OK(c, "", page)
	}
}
