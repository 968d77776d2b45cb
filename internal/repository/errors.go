package repository

import (
	"errors"
	"fmt"

	"event_org/internal/models"
	"event_org/internal/validation"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrMissingFields is matched by a *ValidationError that contains a "required" violation.
	ErrMissingFields = errors.New("required fields are missing")
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("not found")

	ErrOrganizationExists = errors.New("organization with this name or email already exists")
	ErrAlreadyMember      = errors.New("user is already a member of this organization")
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrRoleExists         = errors.New("role already exists")

	// ErrSeedRoleMissing is an operator problem: the GUEST role was never seeded.
	ErrSeedRoleMissing = errors.New("system configuration error: default role not found")
	// ErrStoreNotInitialized is returned when a repository has no persistence gateway.
	ErrStoreNotInitialized = errors.New("database not initialized")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict is returned by stores when a unique constraint rejects a write.
	ErrConflict = errors.New("unique constraint violated")
)

type ValidationError struct {
	Violations []validation.Violation
}

func (e *ValidationError) Error() string {
	if validation.HasTag(e.Violations, "required") {
		return ErrMissingFields.Error()
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrMissingFields:
		return validation.HasTag(e.Violations, "required")
	}
	return false
}

// NotFoundError names the entity that could not be loaded.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateOrganizationError carries the organization that already holds the
// name or email so the caller can offer to join it instead.
type DuplicateOrganizationError struct {
	Existing *models.Organization
}

func (e *DuplicateOrganizationError) Error() string {
	if e.Existing == nil {
		return ErrOrganizationExists.Error()
	}
	return fmt.Sprintf("organization %q already exists with this name or email", e.Existing.OrganizationName)
}

func (e *DuplicateOrganizationError) Is(target error) bool { return target == ErrOrganizationExists }

func invalid(vs []validation.Violation) error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}
