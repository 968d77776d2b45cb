package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"event_org/internal/models"
	"event_org/internal/validation"
)

// RegisterInput is the body accepted by user registration.
type RegisterInput struct {
	Username    string `json:"Username" validate:"required,min=3,max=100"`
	FirstName   string `json:"FirstName" validate:"max=100"`
	LastName    string `json:"LastName" validate:"max=100"`
	Email       string `json:"Email" validate:"required,email,max=255"`
	PhoneNumber string `json:"PhoneNumber" validate:"max=50"`
	Password    string `json:"Password" validate:"omitempty,min=8,max=72"`
}

// UserPatch is the body accepted by profile and user updates; nil fields keep their value.
type UserPatch struct {
	Username    *string `json:"Username" validate:"omitempty,min=3,max=100"`
	FirstName   *string `json:"FirstName" validate:"omitempty,max=100"`
	LastName    *string `json:"LastName" validate:"omitempty,max=100"`
	Email       *string `json:"Email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"PhoneNumber" validate:"omitempty,max=50"`
}

type RoleInput struct {
	RoleName string `json:"RoleName" validate:"required,max=100"`
}

type UserRepository struct {
	store UserStore
}

func NewUserRepository(store UserStore) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) ready() error {
	if r == nil || r.store == nil {
		return ErrStoreNotInitialized
	}
	return nil
}

// Register runs the whole registration flow: validate, reject duplicates,
// build the user, then save it with the default role.
func (r *UserRepository) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}

	existing, err := r.FindExistingUser(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	user, err := r.CreateUser(in)
	if err != nil {
		return nil, err
	}
	return r.SaveUser(ctx, user)
}

// FindExistingUser returns the user holding email or username, or nil.
func (r *UserRepository) FindExistingUser(ctx context.Context, email, username string) (*models.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	u, err := r.store.FindUserByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("find existing user: %w", err)
	}
	return u, nil
}

// CreateUser builds an unsaved user. An absent phone number stays nil.
func (r *UserRepository) CreateUser(in RegisterInput) (*models.User, error) {
	user := &models.User{
		Username:  strings.TrimSpace(in.Username),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
		user.PhoneNumber = &phone
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	return user, nil
}

// SaveUser persists a new user with exactly one role, GUEST. If the GUEST
// role was never seeded nothing is written and ErrSeedRoleMissing is returned.
func (r *UserRepository) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	guest, err := r.store.FindRoleByName(ctx, models.RoleGuest)
	if err != nil {
		return nil, fmt.Errorf("find default role: %w", err)
	}
	if guest == nil {
		return nil, ErrSeedRoleMissing
	}

	roles := []models.Role{*guest}
	if err := r.store.CreateUserWithRoles(ctx, user, roles); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	user.Roles = roles
	user.Organizations = []models.Organization{}
	return user, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	u, err := r.store.FindUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if u == nil {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	if err := invalid(validation.Struct(patch)); err != nil {
		return nil, err
	}
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeString(&u.Username, patch.Username)
	mergeString(&u.FirstName, patch.FirstName)
	mergeString(&u.LastName, patch.LastName)
	mergeString(&u.Email, patch.Email)
	u.Email = strings.ToLower(u.Email)
	if patch.PhoneNumber != nil {
		if phone := strings.TrimSpace(*patch.PhoneNumber); phone != "" {
			u.PhoneNumber = &phone
		} else {
			u.PhoneNumber = nil
		}
	}
	if err := invalid(validation.Required(map[string]string{
		"Username": u.Username,
		"Email":    u.Email,
	}, "Username", "Email")); err != nil {
		return nil, err
	}

	if err := r.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if _, err := r.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := r.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Authenticate checks a username-or-email and password pair.
func (r *UserRepository) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, invalid(validation.Required(map[string]string{
			"Login":    login,
			"Password": password,
		}, "Login", "Password"))
	}

	u, err := r.store.FindCredentials(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("find credentials: %w", err)
	}
	if u == nil || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return r.GetUserByID(ctx, u.UserID)
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	roles, err := r.store.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

// CreateRole stores a role; names are upper-cased so "guest" and "GUEST" collide.
func (r *UserRepository) CreateRole(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	in.RoleName = strings.ToUpper(strings.TrimSpace(in.RoleName))
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}

	existing, err := r.store.FindRoleByName(ctx, in.RoleName)
	if err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	if existing != nil {
		return nil, ErrRoleExists
	}

	role := &models.Role{RoleName: in.RoleName}
	if err := r.store.CreateRole(ctx, role); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (r *UserRepository) HasRole(ctx context.Context, userID, roleName string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	return r.store.UserHasRole(ctx, userID, roleName)
}
