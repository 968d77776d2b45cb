package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"event_org/internal/models"
)

// withRelations selects the public user columns and loads roles and
// organizations in follow-up queries.
func (s *Store) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Select(models.UserColumns).
		Preload("Roles", func(tx *gorm.DB) *gorm.DB { return tx.Order("roles.role_id ASC") }).
		Preload("Organizations", func(tx *gorm.DB) *gorm.DB { return tx.Order("organizations.organization_name ASC") })
}

func normalize(u *models.User) {
	if u.Roles == nil {
		u.Roles = []models.Role{}
	}
	if u.Organizations == nil {
		u.Organizations = []models.Organization{}
	}
}

func (s *Store) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var u models.User
	err := either(s.db.WithContext(ctx).Select(models.UserColumns), "email", email, "username", username).
		First(&u).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email or username: %w", err)
	}
	return &u, nil
}

func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.withRelations(ctx).Where("user_id = ?", id).First(&u).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	normalize(&u)
	return &u, nil
}

func (s *Store) FindCredentials(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Select("user_id", "username", "email", "password_hash").
		Where("email = ? OR username = ?", strings.ToLower(login), login).
		First(&u).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find credentials: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.withRelations(ctx).Order("username DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		normalize(&users[i])
	}
	return users, nil
}

func (s *Store) CreateUserWithRoles(ctx context.Context, u *models.User, roles []models.Role) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		links := make([]models.UserRole, 0, len(roles))
		for _, r := range roles {
			links = append(links, models.UserRole{UserID: u.UserID, RoleID: r.RoleID})
		}
		return tx.Omit(clause.Associations).Create(&links).Error
	})
	return translate(err)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", u.UserID).
		Updates(map[string]any{
			"username":     u.Username,
			"first_name":   u.FirstName,
			"last_name":    u.LastName,
			"email":        u.Email,
			"phone_number": u.PhoneNumber,
		}).Error
	return translate(err)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.User{}).Error
}

func (s *Store) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var r models.Role
	err := s.db.WithContext(ctx).Where("role_name = ?", name).First(&r).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &r, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("role_id ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *Store) CreateRole(ctx context.Context, r *models.Role) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) AssignRole(ctx context.Context, userID string, roleID uint64) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

// UserHasRole walks user_roles -> roles by name.
func (s *Store) UserHasRole(ctx context.Context, userID, roleName string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("user_roles ur").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("ur.user_id = ? AND r.role_name = ?", userID, roleName).
		Count(&count).Error
	return count > 0, err
}
