package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserColumns is the projection used whenever users leave the service.
// It never includes password_hash.
var UserColumns = []string{
	"user_id", "username", "first_name", "last_name", "email", "phone_number", "created_at", "updated_at",
}

type User struct {
	UserID       string    `gorm:"type:char(36);primaryKey" json:"userId"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:100" json:"firstName"`
	LastName     string    `gorm:"size:100" json:"lastName"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber  *string   `gorm:"size:50" json:"phoneNumber"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Roles         []Role         `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;references:RoleID;joinReferences:RoleID;constraint:OnDelete:CASCADE" json:"roles"`
	Organizations []Organization `gorm:"many2many:organization_users;foreignKey:UserID;joinForeignKey:UserID;references:OrganizationID;joinReferences:OrganizationID;constraint:OnDelete:CASCADE" json:"organizations"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

// MemberView is a user as shown inside an organization: roles are included,
// the organizations list is not.
type MemberView struct {
	UserID      string  `json:"userId"`
	Username    string  `json:"username"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Roles       []Role  `json:"roles"`
}

func (u *User) MemberView() MemberView {
	roles := u.Roles
	if roles == nil {
		roles = []Role{}
	}
	return MemberView{
		UserID:      u.UserID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Roles:       roles,
	}
}
