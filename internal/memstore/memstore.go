// Package memstore is an in-memory persistence gateway. It enforces the same
// unique constraints and delete cascades as the MySQL schema, and backs the
// `memory` database driver as well as the package tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"event_org/internal/models"
	"event_org/internal/repository"
)

type membershipKey struct{ userID, orgID string }

type userRoleKey struct {
	userID string
	roleID uint64
}

type Store struct {
	mu sync.RWMutex

	orgs        map[string]models.Organization
	users       map[string]models.User
	roles       map[uint64]models.Role
	memberships map[membershipKey]models.OrganizationUser
	userRoles   map[userRoleKey]struct{}
	events      map[string]eventRow
	audit       []models.AuditLog

	nextRoleID  uint64
	nextAuditID int64
	seq         int64
}

type eventRow struct {
	event models.Event
	seq   int64
}

var (
	_ repository.OrganizationStore = (*Store)(nil)
	_ repository.UserStore         = (*Store)(nil)
	_ repository.EventStore        = (*Store)(nil)
	_ repository.AuditStore        = (*Store)(nil)
)

func New() *Store {
	return &Store{
		orgs:        map[string]models.Organization{},
		users:       map[string]models.User{},
		roles:       map[uint64]models.Role{},
		memberships: map[membershipKey]models.OrganizationUser{},
		userRoles:   map[userRoleKey]struct{}{},
		events:      map[string]eventRow{},
	}
}

func conflict(what string) error {
	return fmt.Errorf("%w: %s", repository.ErrConflict, what)
}

// ---------------------------------------------------------------------------
// Organizations
// ---------------------------------------------------------------------------

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationName < out[j].OrganizationName })
	return out, nil
}

func (s *Store) FindOrganization(ctx context.Context, id string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *Store) FindOrganizationByNameOrEmail(ctx context.Context, name, email string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orgByNameOrEmail(name, email, ""), nil
}

func (s *Store) orgByNameOrEmail(name, email, skipID string) *models.Organization {
	for _, o := range s.orgs {
		if o.OrganizationID == skipID {
			continue
		}
		if (name != "" && o.OrganizationName == name) || (email != "" && o.ContactEmail == email) {
			found := o
			return &found
		}
	}
	return nil
}

func (s *Store) CreateOrganization(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.OrganizationID == "" {
		org.OrganizationID = uuid.NewString()
	}
	if _, ok := s.orgs[org.OrganizationID]; ok {
		return conflict("organizations.PRIMARY")
	}
	if s.orgByNameOrEmail(org.OrganizationName, org.ContactEmail, "") != nil {
		return conflict("organizations.organization_name/contact_email")
	}
	now := time.Now()
	org.CreatedAt, org.UpdatedAt = now, now
	s.orgs[org.OrganizationID] = *org
	return nil
}

func (s *Store) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.OrganizationID]; !ok {
		return nil
	}
	if s.orgByNameOrEmail(org.OrganizationName, org.ContactEmail, org.OrganizationID) != nil {
		return conflict("organizations.organization_name/contact_email")
	}
	org.UpdatedAt = time.Now()
	s.orgs[org.OrganizationID] = *org
	return nil
}

func (s *Store) DeleteOrganization(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return 0, nil
	}
	delete(s.orgs, id)
	for k := range s.memberships {
		if k.orgID == id {
			delete(s.memberships, k)
		}
	}
	return 1, nil
}

func (s *Store) FindMembership(ctx context.Context, userID, organizationID string) (*models.OrganizationUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memberships[membershipKey{userID, organizationID}]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) CreateMembership(ctx context.Context, m *models.OrganizationUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{m.UserID, m.OrganizationID}
	if _, ok := s.memberships[key]; ok {
		return conflict("organization_users.PRIMARY")
	}
	if _, ok := s.users[m.UserID]; !ok {
		return fmt.Errorf("foreign key violated: user %s", m.UserID)
	}
	if _, ok := s.orgs[m.OrganizationID]; !ok {
		return fmt.Errorf("foreign key violated: organization %s", m.OrganizationID)
	}
	m.CreatedAt = time.Now()
	s.memberships[key] = *m
	return nil
}

func (s *Store) ListMembers(ctx context.Context, organizationID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for k := range s.memberships {
		if k.orgID != organizationID {
			continue
		}
		if u, ok := s.users[k.userID]; ok {
			u.PasswordHash = ""
			u.Roles = s.rolesOf(u.UserID)
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// MembershipCount reports how many membership rows exist for an organization.
func (s *Store) MembershipCount(organizationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.memberships {
		if k.orgID == organizationID {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Users and roles
// ---------------------------------------------------------------------------

func (s *Store) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.userByEmailOrUsername(email, username, ""); u != nil {
		u.PasswordHash = ""
		return u, nil
	}
	return nil, nil
}

func (s *Store) userByEmailOrUsername(email, username, skipID string) *models.User {
	for _, u := range s.users {
		if u.UserID == skipID {
			continue
		}
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			found := u
			return &found
		}
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	s.hydrate(&u)
	return &u, nil
}

func (s *Store) FindCredentials(ctx context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByEmailOrUsername(strings.ToLower(login), login, ""), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		s.hydrate(&u)
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username > out[j].Username })
	return out, nil
}

func (s *Store) hydrate(u *models.User) {
	u.PasswordHash = ""
	u.Roles = s.rolesOf(u.UserID)
	orgs := []models.Organization{}
	for k := range s.memberships {
		if k.userID == u.UserID {
			if o, ok := s.orgs[k.orgID]; ok {
				orgs = append(orgs, o)
			}
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].OrganizationName < orgs[j].OrganizationName })
	u.Organizations = orgs
}

func (s *Store) rolesOf(userID string) []models.Role {
	roles := []models.Role{}
	for k := range s.userRoles {
		if k.userID == userID {
			if r, ok := s.roles[k.roleID]; ok {
				roles = append(roles, r)
			}
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].RoleID < roles[j].RoleID })
	return roles
}

func (s *Store) CreateUserWithRoles(ctx context.Context, u *models.User, roles []models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if _, ok := s.users[u.UserID]; ok {
		return conflict("users.PRIMARY")
	}
	if s.userByEmailOrUsername(u.Email, u.Username, "") != nil {
		return conflict("users.email/username")
	}
	for _, r := range roles {
		if _, ok := s.roles[r.RoleID]; !ok {
			return fmt.Errorf("foreign key violated: role %d", r.RoleID)
		}
	}

	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *u
	stored.Roles, stored.Organizations = nil, nil
	s.users[u.UserID] = stored
	for _, r := range roles {
		s.userRoles[userRoleKey{u.UserID, r.RoleID}] = struct{}{}
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[u.UserID]
	if !ok {
		return nil
	}
	if s.userByEmailOrUsername(u.Email, u.Username, u.UserID) != nil {
		return conflict("users.email/username")
	}
	current.Username = u.Username
	current.FirstName = u.FirstName
	current.LastName = u.LastName
	current.Email = u.Email
	current.PhoneNumber = u.PhoneNumber
	current.UpdatedAt = time.Now()
	u.UpdatedAt = current.UpdatedAt
	s.users[u.UserID] = current
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for k := range s.memberships {
		if k.userID == id {
			delete(s.memberships, k)
		}
	}
	for k := range s.userRoles {
		if k.userID == id {
			delete(s.userRoles, k)
		}
	}
	return nil
}

func (s *Store) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.RoleName == name {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleID < out[j].RoleID })
	return out, nil
}

func (s *Store) CreateRole(ctx context.Context, r *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if existing.RoleName == r.RoleName {
			return conflict("roles.role_name")
		}
	}
	s.nextRoleID++
	r.RoleID = s.nextRoleID
	now := time.Now()
	r.CreatedAt, r.UpdatedAt = now, now
	s.roles[r.RoleID] = *r
	return nil
}

// AssignRole links an existing user and role; seeding uses it for the admin account.
func (s *Store) AssignRole(ctx context.Context, userID string, roleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("foreign key violated: user %s", userID)
	}
	if _, ok := s.roles[roleID]; !ok {
		return fmt.Errorf("foreign key violated: role %d", roleID)
	}
	s.userRoles[userRoleKey{userID, roleID}] = struct{}{}
	return nil
}

func (s *Store) UserHasRole(ctx context.Context, userID, roleName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rolesOf(userID) {
		if r.RoleName == roleName {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]eventRow, 0, len(s.events))
	for _, r := range s.events {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]models.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.event)
	}
	return out, nil
}

func (s *Store) FindEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	e := r.event
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.EventType == "" {
		e.EventType = models.EventPublic
	}
	if _, ok := s.events[e.EventID]; ok {
		return conflict("events.PRIMARY")
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	s.seq++
	s.events[e.EventID] = eventRow{event: *e, seq: s.seq}
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.events[e.EventID]
	if !ok {
		return nil
	}
	e.UpdatedAt = time.Now()
	r.event = *e
	s.events[e.EventID] = r
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return 0, nil
	}
	delete(s.events, id)
	return 1, nil
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuditID++
	entry.ID = s.nextAuditID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *Store) ListAudit(ctx context.Context, q repository.AuditQuery) ([]models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(q.Search)
	var out []models.AuditLog
	for i := len(s.audit) - 1; i >= 0; i-- {
		l := s.audit[i]
		if q.AfterID > 0 && l.ID >= q.AfterID {
			continue
		}
		if search != "" && !auditMatches(l, search) {
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func auditMatches(l models.AuditLog, search string) bool {
	for _, f := range []string{l.InitiatorName, l.Action, l.EntityType, l.IP} {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
