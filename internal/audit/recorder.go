// Package audit writes the trail of mutating requests. A failed write is
// logged and counted but never fails the request that caused it.
package audit

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"event_org/internal/auth"
	"event_org/internal/models"
	"event_org/internal/repository"
	"event_org/internal/telemetry"
)

type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

type Recorder struct {
	store repository.AuditStore
	log   *zap.Logger
}

func NewRecorder(store repository.AuditStore, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record stores e with the caller taken from the request: the JWT subject
// when present, the request IP and user agent.
func (r *Recorder) Record(c *gin.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}

	entry := models.AuditLog{
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		IP:         c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		CreatedAt:  time.Now(),
	}
	if cl, ok := auth.ClaimsFrom(c); ok {
		id := cl.UserID
		entry.ActorID = &id
		entry.InitiatorName = cl.Email
	}
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := r.store.RecordAudit(c.Request.Context(), &entry); err != nil {
		telemetry.AuditWriteFailuresTotal.Inc()
		r.log.Warn("audit write failed",
			zap.String("action", e.Action),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
	}
}
