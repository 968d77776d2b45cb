package models

// UserRole is the join between users and roles. The `user_roles` table uses
// the composite primary key (user_id, role_id) and has no `id` column; its
// foreign keys come from User.Roles.
type UserRole struct {
	UserID string `gorm:"type:char(36);primaryKey"`
	RoleID uint64 `gorm:"primaryKey"`
}
