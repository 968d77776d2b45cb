package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event_org/internal/models"
	"event_org/internal/repository"
)

func TestRegister_AssignsExactlyGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	u, err := f.users.Register(ctx, repository.RegisterInput{
		Username: "alice",
		Email:    " Alice@Example.com ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Nil(t, u.PhoneNumber)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, models.RoleGuest, u.Roles[0].RoleName)
	assert.Empty(t, u.Organizations)

	stored, err := f.users.GetUserByID(ctx, u.UserID)
	require.NoError(t, err)
	require.Len(t, stored.Roles, 1)
	assert.Equal(t, models.RoleGuest, stored.Roles[0].RoleName)
	assert.Empty(t, stored.PasswordHash)
}

func TestRegister_PhoneNumberKept(t *testing.T) {
	f := newFixture(t, true)

	u, err := f.users.Register(context.Background(), repository.RegisterInput{
		Username:    "bob",
		Email:       "bob@example.com",
		PhoneNumber: "+1 555 0100",
	})
	require.NoError(t, err)
	require.NotNil(t, u.PhoneNumber)
	assert.Equal(t, "+1 555 0100", *u.PhoneNumber)
}

func TestRegister_MissingSeedRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	u, err := f.users.Register(ctx, repository.RegisterInput{Username: "alice", Email: "alice@example.com"})
	assert.Nil(t, u)
	require.ErrorIs(t, err, repository.ErrSeedRoleMissing)

	users, err := f.users.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.register(t, "alice", "alice@example.com")

	_, err := f.users.Register(ctx, repository.RegisterInput{Username: "alice", Email: "new@example.com"})
	assert.ErrorIs(t, err, repository.ErrUserExists)

	_, err = f.users.Register(ctx, repository.RegisterInput{Username: "alice2", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.users.Register(context.Background(), repository.RegisterInput{Username: "al", Email: "nope"})
	var verr *repository.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["Username"])
	assert.True(t, fields["Email"])
}

func TestUserRepository_NilStore(t *testing.T) {
	ctx := context.Background()
	var nilRepo *repository.UserRepository

	_, err := nilRepo.FindExistingUser(ctx, "a@x.com", "a")
	assert.ErrorIs(t, err, repository.ErrStoreNotInitialized)

	repo := repository.NewUserRepository(nil)
	_, err = repo.SaveUser(ctx, &models.User{Username: "a", Email: "a@x.com"})
	assert.ErrorIs(t, err, repository.ErrStoreNotInitialized)
}

func TestFindExistingUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	alice := f.register(t, "alice", "alice@example.com")

	u, err := f.users.FindExistingUser(ctx, "alice@example.com", "")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.UserID, u.UserID)

	u, err = f.users.FindExistingUser(ctx, "", "alice")
	require.NoError(t, err)
	require.NotNil(t, u)

	u, err = f.users.FindExistingUser(ctx, "nobody@example.com", "nobody")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetAllUsers_UsernameDescending(t *testing.T) {
	f := newFixture(t, true)
	f.register(t, "bob", "bob@example.com")
	f.register(t, "carol", "carol@example.com")
	f.register(t, "alice", "alice@example.com")

	users, err := f.users.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"carol", "bob", "alice"}, []string{users[0].Username, users[1].Username, users[2].Username})
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
		assert.NotNil(t, u.Organizations)
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	alice := f.register(t, "alice", "alice@example.com")
	f.register(t, "bob", "bob@example.com")

	first := "Alice"
	phone := "555"
	u, err := f.users.UpdateUser(ctx, alice.UserID, repository.UserPatch{FirstName: &first, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "alice", u.Username)
	require.NotNil(t, u.PhoneNumber)

	empty := ""
	u, err = f.users.UpdateUser(ctx, alice.UserID, repository.UserPatch{PhoneNumber: &empty})
	require.NoError(t, err)
	assert.Nil(t, u.PhoneNumber)

	taken := "bob"
	_, err = f.users.UpdateUser(ctx, alice.UserID, repository.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, repository.ErrUserExists)

	_, err = f.users.UpdateUser(ctx, "3f1c1d1e-0000-4000-8000-000000000000", repository.UserPatch{FirstName: &first})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	org := f.createOrg(t, acmeInput())
	alice := f.register(t, "alice", "alice@example.com")
	_, err := f.orgs.AddUserToOrganization(ctx, alice.UserID, org.OrganizationID)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, alice.UserID))
	assert.Equal(t, 0, f.store.MembershipCount(org.OrganizationID))

	_, err = f.users.GetUserByID(ctx, alice.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = f.users.DeleteUser(ctx, alice.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	alice := f.register(t, "alice", "alice@example.com")

	u, err := f.users.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, u.UserID)
	assert.Empty(t, u.PasswordHash)

	u, err = f.users.Authenticate(ctx, "ALICE@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, u.UserID)

	_, err = f.users.Authenticate(ctx, "alice", "wrong-horse")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, repository.ErrMissingFields)
}

func TestAuthenticate_NoPasswordSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	_, err := f.users.Register(ctx, repository.RegisterInput{Username: "nopass", Email: "np@example.com"})
	require.NoError(t, err)

	_, err = f.users.Authenticate(ctx, "nopass", "anything-at-all")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestRoles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	role, err := f.users.CreateRole(ctx, repository.RoleInput{RoleName: " organizer "})
	require.NoError(t, err)
	assert.Equal(t, "ORGANIZER", role.RoleName)

	_, err = f.users.CreateRole(ctx, repository.RoleInput{RoleName: "Organizer"})
	assert.ErrorIs(t, err, repository.ErrRoleExists)

	_, err = f.users.CreateRole(ctx, repository.RoleInput{RoleName: ""})
	assert.ErrorIs(t, err, repository.ErrMissingFields)

	roles, err := f.users.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	alice := f.register(t, "alice", "alice@example.com")
	ok, err := f.users.HasRole(ctx, alice.UserID, models.RoleGuest)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.users.HasRole(ctx, alice.UserID, "ORGANIZER")
	require.NoError(t, err)
	assert.False(t, ok)
}
