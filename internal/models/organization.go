package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	OrganizationID   string    `gorm:"type:char(36);primaryKey" json:"organizationId"`
	OrganizationName string    `gorm:"size:200;uniqueIndex;not null" json:"organizationName"`
	Description      string    `gorm:"size:1000" json:"description"`
	ContactEmail     string    `gorm:"size:255;uniqueIndex;not null" json:"contactEmail"`
	ContactPhone     string    `gorm:"size:50" json:"contactPhone"`
	Address          string    `gorm:"size:255;not null" json:"address"`
	OrganizationType string    `gorm:"size:100;not null" json:"organizationType"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.OrganizationID == "" {
		o.OrganizationID = uuid.NewString()
	}
	return nil
}
