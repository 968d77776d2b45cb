package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event_org/internal/models"
	"event_org/internal/validation"
)

// OrganizationInput is the body accepted when creating an organization.
type OrganizationInput struct {
	OrganizationName string `json:"OrganizationName" validate:"max=200"`
	Description      string `json:"Description" validate:"max=1000"`
	ContactEmail     string `json:"ContactEmail" validate:"omitempty,email,max=255"`
	ContactPhone     string `json:"ContactPhone" validate:"max=50"`
	Address          string `json:"Address" validate:"max=255"`
	OrganizationType string `json:"OrganizationType" validate:"max=100"`
}

// OrganizationPatch is the body accepted when updating; nil fields keep their value.
type OrganizationPatch struct {
	OrganizationName *string `json:"OrganizationName" validate:"omitempty,max=200"`
	Description      *string `json:"Description" validate:"omitempty,max=1000"`
	ContactEmail     *string `json:"ContactEmail" validate:"omitempty,email,max=255"`
	ContactPhone     *string `json:"ContactPhone" validate:"omitempty,max=50"`
	Address          *string `json:"Address" validate:"omitempty,max=255"`
	OrganizationType *string `json:"OrganizationType" validate:"omitempty,max=100"`
}

// Membership is the result of adding a user to an organization.
type Membership struct {
	Organization *models.Organization `json:"organization"`
	User         models.MemberView    `json:"user"`
}

type OrganizationRepository struct {
	orgs  OrganizationStore
	users UserStore
}

func NewOrganizationRepository(orgs OrganizationStore, users UserStore) *OrganizationRepository {
	return &OrganizationRepository{orgs: orgs, users: users}
}

func (r *OrganizationRepository) GetAll(ctx context.Context) ([]models.Organization, error) {
	orgs, err := r.orgs.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch organizations: %w", err)
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	return orgs, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	org, err := r.orgs.FindOrganization(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch organization: %w", err)
	}
	if org == nil {
		return nil, &NotFoundError{Entity: "organization", ID: id}
	}
	return org, nil
}

// Create builds an unsaved organization from input. It touches no storage.
func (r *OrganizationRepository) Create(in OrganizationInput) (*models.Organization, error) {
	in = trimOrganizationInput(in)
	org := &models.Organization{
		OrganizationName: in.OrganizationName,
		Description:      in.Description,
		ContactEmail:     strings.ToLower(in.ContactEmail),
		ContactPhone:     in.ContactPhone,
		Address:          in.Address,
		OrganizationType: in.OrganizationType,
	}
	vs := requiredOrganizationFields(org)
	vs = append(vs, validation.Struct(in)...)
	if err := invalid(vs); err != nil {
		return nil, err
	}
	return org, nil
}

// Save persists a new organization unless one already holds its name or email,
// in which case the existing organization is returned inside a
// *DuplicateOrganizationError.
func (r *OrganizationRepository) Save(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if err := invalid(requiredOrganizationFields(org)); err != nil {
		return nil, err
	}

	existing, err := r.orgs.FindOrganizationByNameOrEmail(ctx, org.OrganizationName, org.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("check existing organization: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateOrganizationError{Existing: existing}
	}

	if err := r.orgs.CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with a concurrent create; report whoever won.
			winner, _ := r.orgs.FindOrganizationByNameOrEmail(ctx, org.OrganizationName, org.ContactEmail)
			return nil, &DuplicateOrganizationError{Existing: winner}
		}
		return nil, fmt.Errorf("save organization: %w", err)
	}
	return org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, id string, patch OrganizationPatch) (*models.Organization, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	if err := invalid(validation.Struct(patch)); err != nil {
		return nil, err
	}

	org, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nameChanged := patch.OrganizationName != nil && strings.TrimSpace(*patch.OrganizationName) != org.OrganizationName
	emailChanged := patch.ContactEmail != nil && strings.ToLower(strings.TrimSpace(*patch.ContactEmail)) != org.ContactEmail

	mergeString(&org.OrganizationName, patch.OrganizationName)
	mergeString(&org.Description, patch.Description)
	mergeString(&org.ContactEmail, patch.ContactEmail)
	mergeString(&org.ContactPhone, patch.ContactPhone)
	mergeString(&org.Address, patch.Address)
	mergeString(&org.OrganizationType, patch.OrganizationType)
	org.ContactEmail = strings.ToLower(org.ContactEmail)

	if err := invalid(requiredOrganizationFields(org)); err != nil {
		return nil, err
	}
	if nameChanged {
		if err := r.ensureUnclaimed(ctx, id, org.OrganizationName, ""); err != nil {
			return nil, err
		}
	}
	if emailChanged {
		if err := r.ensureUnclaimed(ctx, id, "", org.ContactEmail); err != nil {
			return nil, err
		}
	}

	if err := r.orgs.UpdateOrganization(ctx, org); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, &DuplicateOrganizationError{}
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

func (r *OrganizationRepository) ensureUnclaimed(ctx context.Context, selfID, name, email string) error {
	other, err := r.orgs.FindOrganizationByNameOrEmail(ctx, name, email)
	if err != nil {
		return fmt.Errorf("check existing organization: %w", err)
	}
	if other != nil && other.OrganizationID != selfID {
		return &DuplicateOrganizationError{Existing: other}
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}
	n, err := r.orgs.DeleteOrganization(ctx, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: "organization", ID: id}
	}
	return nil
}

// AddUserToOrganization creates the (user, organization) membership once.
// A second call for the same pair returns ErrAlreadyMember and writes nothing.
func (r *OrganizationRepository) AddUserToOrganization(ctx context.Context, userID, organizationID string) (*Membership, error) {
	userID = strings.TrimSpace(userID)
	organizationID = strings.TrimSpace(organizationID)
	if err := invalid(validation.Required(map[string]string{
		"userId":         userID,
		"organizationId": organizationID,
	}, "userId", "organizationId")); err != nil {
		return nil, err
	}

	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Entity: "user", ID: userID}
	}
	org, err := r.orgs.FindOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("fetch organization: %w", err)
	}
	if org == nil {
		return nil, &NotFoundError{Entity: "organization", ID: organizationID}
	}

	existing, err := r.orgs.FindMembership(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := r.orgs.CreateMembership(ctx, &models.OrganizationUser{UserID: userID, OrganizationID: organizationID}); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("add user to organization: %w", err)
	}

	return &Membership{Organization: org, User: user.MemberView()}, nil
}

// Members lists the users of an organization without their organization lists.
func (r *OrganizationRepository) Members(ctx context.Context, organizationID string) ([]models.MemberView, error) {
	if _, err := r.GetByID(ctx, organizationID); err != nil {
		return nil, err
	}
	users, err := r.orgs.ListMembers(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]models.MemberView, 0, len(users))
	for i := range users {
		out = append(out, users[i].MemberView())
	}
	return out, nil
}

func requiredOrganizationFields(org *models.Organization) []validation.Violation {
	return validation.Required(map[string]string{
		"OrganizationName": org.OrganizationName,
		"ContactEmail":     org.ContactEmail,
		"Address":          org.Address,
		"OrganizationType": org.OrganizationType,
	}, "OrganizationName", "ContactEmail", "Address", "OrganizationType")
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func trimOrganizationInput(in OrganizationInput) OrganizationInput {
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)
	in.Description = strings.TrimSpace(in.Description)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Address = strings.TrimSpace(in.Address)
	in.OrganizationType = strings.TrimSpace(in.OrganizationType)
	return in
}
