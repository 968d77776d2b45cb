// Package repository holds the decision logic that sits in front of the
// persistence gateway: required fields, uniqueness pre-checks, membership
// and default-role rules.
//
// Stores follow one convention for lookups: a missing row is (nil, nil), and
// a unique-constraint rejection on write is an error wrapping ErrConflict.
package repository

import (
	"context"

	"event_org/internal/models"
)

type OrganizationStore interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	FindOrganization(ctx context.Context, id string) (*models.Organization, error)
	FindOrganizationByNameOrEmail(ctx context.Context, name, email string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, org *models.Organization) error
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	DeleteOrganization(ctx context.Context, id string) (int64, error)

	FindMembership(ctx context.Context, userID, organizationID string) (*models.OrganizationUser, error)
	CreateMembership(ctx context.Context, m *models.OrganizationUser) error
	ListMembers(ctx context.Context, organizationID string) ([]models.User, error)
}

type UserStore interface {
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	// FindUser loads roles and organizations and leaves PasswordHash empty.
	FindUser(ctx context.Context, id string) (*models.User, error)
	// FindCredentials loads only what login needs, including PasswordHash.
	FindCredentials(ctx context.Context, login string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// CreateUserWithRoles inserts the user and its role links atomically.
	CreateUserWithRoles(ctx context.Context, u *models.User, roles []models.Role) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error

	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, r *models.Role) error
	UserHasRole(ctx context.Context, userID, roleName string) (bool, error)
}

type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	FindEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id string) (int64, error)
}

type AuditQuery struct {
	Limit   int
	AfterID int64
	Search  string
}

type AuditStore interface {
	RecordAudit(ctx context.Context, entry *models.AuditLog) error
	ListAudit(ctx context.Context, q AuditQuery) ([]models.AuditLog, error)
}
