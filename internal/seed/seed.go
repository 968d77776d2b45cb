package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"event_org/internal/models"
	"event_org/internal/repository"
)

// Store is the slice of the user gateway that seeding needs.
type Store interface {
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	CreateRole(ctx context.Context, r *models.Role) error
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	CreateUserWithRoles(ctx context.Context, u *models.User, roles []models.Role) error
	AssignRole(ctx context.Context, userID string, roleID uint64) error
}

type Admin struct {
	Email    string
	Username string
	Password string
}

// FirstSetup makes sure the GUEST and ADMIN roles exist and, when admin
// credentials are configured, that an account holding ADMIN exists.
// Running it again is a no-op.
func FirstSetup(ctx context.Context, store Store, admin Admin, log *zap.Logger) error {
	guest, err := ensureRole(ctx, store, models.RoleGuest)
	if err != nil {
		return err
	}
	adminRole, err := ensureRole(ctx, store, models.RoleAdmin)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		log.Info("seed ok", zap.Strings("roles", []string{guest.RoleName, adminRole.RoleName}))
		return nil
	}

	username := strings.TrimSpace(admin.Username)
	if username == "" {
		username = "admin"
	}

	existing, err := store.FindUserByEmailOrUsername(ctx, email, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := store.AssignRole(ctx, existing.UserID, adminRole.RoleID); err != nil {
			return fmt.Errorf("assign admin role: %w", err)
		}
		log.Info("seed ok", zap.String("admin", existing.Email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    "Admin",
		PasswordHash: string(hash),
	}
	if err := store.CreateUserWithRoles(ctx, user, []models.Role{*guest, *adminRole}); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("seed ok", zap.String("admin", email), zap.String("user_id", user.UserID))
	return nil
}

func ensureRole(ctx context.Context, store Store, name string) (*models.Role, error) {
	role, err := store.FindRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}

	role = &models.Role{RoleName: name}
	err = store.CreateRole(ctx, role)
	if errors.Is(err, repository.ErrConflict) {
		// another instance created it first
		return store.FindRoleByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("create role %s: %w", name, err)
	}
	return role, nil
}
