package models

import "time"

const (
	RoleGuest = "GUEST"
	RoleAdmin = "ADMIN"
)

type Role struct {
	RoleID    uint64    `gorm:"primaryKey;autoIncrement" json:"roleId"`
	RoleName  string    `gorm:"size:100;uniqueIndex;not null" json:"roleName"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
