package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

func seedOwner(t *testing.T, store *fakeUserStore, email string) *models.User {
	t.Helper()
	return store.add(&models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Owner",
		LastName:     "One",
		Role:         models.RoleOwner,
	})
}

func seedManager(t *testing.T, store *fakeUserStore, email string, ownerID *uuid.UUID) *models.User {
	t.Helper()
	return store.add(&models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Manager",
		LastName:     "One",
		Role:         models.RoleManager,
		OwnerID:      ownerID,
	})
}

func ownerScope(owner *models.User) models.Scope {
	return models.Scope{ProfileID: owner.ID, Role: models.RoleOwner}
}

func TestCreateTenantAsOwner(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")

	svc := NewUserService(store, newFakeRolesCache())

	tenant, err := svc.Create(context.Background(), ownerScope(owner), &models.CreateUserRequest{
		FirstName: "Tina",
		LastName:  "Mbappe",
		Email:     "tenant@example.com",
		Password:  "secret-pass",
		Role:      models.RoleTenant,
	})
	require.NoError(t, err)
	require.NotNil(t, tenant.OwnerID)
	assert.Equal(t, owner.ID, *tenant.OwnerID)
}

func TestCreateTenantAsManagerInheritsOwner(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	manager := seedManager(t, store, "manager@example.com", &owner.ID)

	svc := NewUserService(store, newFakeRolesCache())

	tenant, err := svc.Create(context.Background(), models.Scope{ProfileID: manager.ID, Role: models.RoleManager}, &models.CreateUserRequest{
		FirstName: "Tina",
		LastName:  "Mbappe",
		Email:     "tenant@example.com",
		Password:  "secret-pass",
		Role:      models.RoleTenant,
	})
	require.NoError(t, err)
	// the tenant answers to the manager's owner, not the manager
	require.NotNil(t, tenant.OwnerID)
	assert.Equal(t, owner.ID, *tenant.OwnerID)
}

func TestUnassignedManagerCannotCreateTenants(t *testing.T) {
	store := newFakeUserStore()
	manager := seedManager(t, store, "manager@example.com", nil)

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.Create(context.Background(), models.Scope{ProfileID: manager.ID, Role: models.RoleManager}, &models.CreateUserRequest{
		FirstName: "Tina",
		LastName:  "Mbappe",
		Email:     "tenant@example.com",
		Password:  "secret-pass",
		Role:      models.RoleTenant,
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestManagerCannotCreateManagers(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	manager := seedManager(t, store, "manager@example.com", &owner.ID)

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.Create(context.Background(), models.Scope{ProfileID: manager.ID, Role: models.RoleManager}, &models.CreateUserRequest{
		FirstName: "Mike",
		LastName:  "Second",
		Email:     "second@example.com",
		Password:  "secret-pass",
		Role:      models.RoleManager,
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestTenantCannotCreateUsers(t *testing.T) {
	store := newFakeUserStore()
	tenant := store.add(&models.User{
		Email: "tenant@example.com", PasswordHash: "x",
		FirstName: "Tina", LastName: "Mbappe", Role: models.RoleTenant,
	})

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.Create(context.Background(), models.Scope{ProfileID: tenant.ID, Role: models.RoleTenant}, &models.CreateUserRequest{
		FirstName: "Nope",
		LastName:  "Nope",
		Email:     "nope@example.com",
		Password:  "secret-pass",
		Role:      models.RoleTenant,
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestCreateDualRoleManagerForOwnEmail(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")

	svc := NewUserService(store, newFakeRolesCache())

	manager, err := svc.Create(context.Background(), ownerScope(owner), &models.CreateUserRequest{
		FirstName: "Owner",
		LastName:  "One",
		Email:     "owner@example.com",
		Password:  "secret-pass",
		Role:      models.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, manager.Role)
	require.NotNil(t, manager.OwnerID)
	assert.Equal(t, owner.ID, *manager.OwnerID)
}

func TestCreateManagerConflictsOnExistingProfile(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	seedManager(t, store, "manager@example.com", &owner.ID)

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.Create(context.Background(), ownerScope(owner), &models.CreateUserRequest{
		FirstName: "Mike",
		LastName:  "Again",
		Email:     "manager@example.com",
		Password:  "secret-pass",
		Role:      models.RoleManager,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCreateTenantConflictsOnExistingEmail(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	store.add(&models.User{
		Email: "taken@example.com", PasswordHash: "x",
		FirstName: "Taken", LastName: "Already", Role: models.RoleTenant,
	})

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.Create(context.Background(), ownerScope(owner), &models.CreateUserRequest{
		FirstName: "Tina",
		LastName:  "Mbappe",
		Email:     "taken@example.com",
		Password:  "secret-pass",
		Role:      models.RoleTenant,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestDeleteOwnerRemovesSiblingManagerOnly(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "dual@example.com")
	sibling := seedManager(t, store, "dual@example.com", &owner.ID)
	unrelated := seedManager(t, store, "other@example.com", &owner.ID)

	svc := NewUserService(store, newFakeRolesCache())

	require.NoError(t, svc.Delete(context.Background(), owner.ID))

	_, err := store.GetByID(context.Background(), owner.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.GetByID(context.Background(), sibling.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	kept, err := store.GetByID(context.Background(), unrelated.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, kept.Role)
}

func TestDeleteOwnerWithoutSiblingManager(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "solo@example.com")

	svc := NewUserService(store, newFakeRolesCache())

	require.NoError(t, svc.Delete(context.Background(), owner.ID))
	_, err := store.GetByID(context.Background(), owner.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssignManagerBindsOwner(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	manager := seedManager(t, store, "manager@example.com", nil)

	svc := NewUserService(store, newFakeRolesCache())

	updated, err := svc.AssignManager(context.Background(), owner.ID, manager.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.OwnerID)
	assert.Equal(t, owner.ID, *updated.OwnerID)
}

func TestAssignManagerRejectsNonManager(t *testing.T) {
	store := newFakeUserStore()
	owner := seedOwner(t, store, "owner@example.com")
	other := seedOwner(t, store, "other@example.com")

	svc := NewUserService(store, newFakeRolesCache())

	_, err := svc.AssignManager(context.Background(), owner.ID, other.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestGetContextWithRequestedRole(t *testing.T) {
	store := newFakeUserStore()
	hashless := func(role models.Role) *models.User {
		return store.add(&models.User{
			Email: "dual@example.com", PasswordHash: "x",
			FirstName: "Dual", LastName: "Role", Role: role,
		})
	}
	hashless(models.RoleOwner)
	manager := hashless(models.RoleManager)

	svc := NewUserService(store, newFakeRolesCache())

	role := models.RoleManager
	ctxResp, err := svc.GetContext(context.Background(), manager.ID, &role)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, ctxResp.User.Role)
	assert.ElementsMatch(t, []models.Role{models.RoleOwner, models.RoleManager}, ctxResp.AvailableRoles)
}
