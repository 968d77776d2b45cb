package models

import "time"

// OrganizationUser is a membership row. The composite primary key
// (user_id, organization_id) is what guarantees a user joins an organization
// at most once, even when two requests race past the existence check.
// Foreign keys to users and organizations come from User.Organizations.
type OrganizationUser struct {
	UserID         string    `gorm:"type:char(36);primaryKey" json:"userId"`
	OrganizationID string    `gorm:"type:char(36);primaryKey" json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
}
