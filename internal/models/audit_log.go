package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID            int64          `gorm:"primaryKey" json:"id"`
	ActorID       *string        `gorm:"type:char(36);index" json:"actorId"` // nil for anonymous callers
	Action        string         `gorm:"size:200;not null" json:"action"`    // e.g. "organization.create"
	EntityType    string         `gorm:"size:100" json:"entityType"`         // e.g. "organization"
	EntityID      string         `gorm:"size:64;index" json:"entityId"`
	Metadata      datatypes.JSON `gorm:"type:json" json:"metadata"`
	IP            string         `gorm:"size:64" json:"ip"`
	InitiatorName string         `gorm:"size:255" json:"initiatorName"`
	UserAgent     string         `gorm:"size:255" json:"userAgent"`
	CreatedAt     time.Time      `json:"createdAt"`
}
