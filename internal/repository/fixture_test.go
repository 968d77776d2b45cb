package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"event_org/internal/memstore"
	"event_org/internal/models"
	"event_org/internal/repository"
)

type fixture struct {
	store  *memstore.Store
	orgs   *repository.OrganizationRepository
	users  *repository.UserRepository
	events *repository.EventRepository
}

func newFixture(t *testing.T, seedGuest bool) *fixture {
	t.Helper()
	store := memstore.New()
	if seedGuest {
		require.NoError(t, store.CreateRole(context.Background(), &models.Role{RoleName: models.RoleGuest}))
	}
	return &fixture{
		store:  store,
		orgs:   repository.NewOrganizationRepository(store, store),
		users:  repository.NewUserRepository(store),
		events: repository.NewEventRepository(store, store, store),
	}
}

func acmeInput() repository.OrganizationInput {
	return repository.OrganizationInput{
		OrganizationName: "Acme",
		ContactEmail:     "a@x.com",
		Address:          "1 Main St",
		OrganizationType: "nonprofit",
	}
}

func (f *fixture) createOrg(t *testing.T, in repository.OrganizationInput) *models.Organization {
	t.Helper()
	org, err := f.orgs.Create(in)
	require.NoError(t, err)
	saved, err := f.orgs.Save(context.Background(), org)
	require.NoError(t, err)
	return saved
}

func (f *fixture) register(t *testing.T, username, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), repository.RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}
