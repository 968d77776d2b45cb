package db

import (
	"context"
	"fmt"

	"event_org/internal/models"
)

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.WithContext(ctx).Order("organization_name ASC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (s *Store) FindOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).Where("organization_id = ?", id).First(&org).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &org, nil
}

func (s *Store) FindOrganizationByNameOrEmail(ctx context.Context, name, email string) (*models.Organization, error) {
	var org models.Organization
	err := either(s.db.WithContext(ctx), "organization_name", name, "contact_email", email).First(&org).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find organization by name or email: %w", err)
	}
	return &org, nil
}

func (s *Store) CreateOrganization(ctx context.Context, org *models.Organization) error {
	return translate(s.db.WithContext(ctx).Create(org).Error)
}

func (s *Store) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	err := s.db.WithContext(ctx).Model(&models.Organization{}).
		Where("organization_id = ?", org.OrganizationID).
		Updates(map[string]any{
			"organization_name": org.OrganizationName,
			"description":       org.Description,
			"contact_email":     org.ContactEmail,
			"contact_phone":     org.ContactPhone,
			"address":           org.Address,
			"organization_type": org.OrganizationType,
		}).Error
	return translate(err)
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) (int64, error) {
	res := s.db.WithContext(ctx).Where("organization_id = ?", id).Delete(&models.Organization{})
	return res.RowsAffected, res.Error
}

func (s *Store) FindMembership(ctx context.Context, userID, organizationID string) (*models.OrganizationUser, error) {
	var m models.OrganizationUser
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&m).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return &m, nil
}

func (s *Store) CreateMembership(ctx context.Context, m *models.OrganizationUser) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

func (s *Store) ListMembers(ctx context.Context, organizationID string) ([]models.User, error) {
	cols := make([]string, 0, len(models.UserColumns))
	for _, c := range models.UserColumns {
		cols = append(cols, "users."+c)
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Select(cols).
		Joins("JOIN organization_users ou ON ou.user_id = users.user_id").
		Where("ou.organization_id = ?", organizationID).
		Preload("Roles").
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return users, nil
}
