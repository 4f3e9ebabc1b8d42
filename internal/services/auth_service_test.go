package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpirationHours: 1},
	}
}

func strPtr(s string) *string { return &s }

func seedIdentity(t *testing.T, store *fakeUserStore, whatsapp string, password string, roles ...models.Role) []*models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	var profiles []*models.User
	for _, role := range roles {
		profiles = append(profiles, store.add(&models.User{
			Email:          "landlord@example.com",
			WhatsappNumber: strPtr(whatsapp),
			PasswordHash:   hash,
			FirstName:      "Ama",
			LastName:       "Ndongo",
			Role:           role,
		}))
	}
	return profiles
}

func TestLoginPrefersOwnerProfile(t *testing.T) {
	store := newFakeUserStore()
	seedIdentity(t, store, "+237600000001", "secret-pass", models.RoleTenant, models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237600000001",
		Password:   "secret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleOwner, resp.User.Role)
	assert.ElementsMatch(t, []models.Role{models.RoleOwner, models.RoleTenant}, resp.User.AvailableRoles)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginHonorsPreferredRole(t *testing.T) {
	store := newFakeUserStore()
	seedIdentity(t, store, "+237600000002", "secret-pass", models.RoleOwner, models.RoleTenant)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	tenant := models.RoleTenant
	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237600000002",
		Password:   "secret-pass",
		Role:       &tenant,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTenant, resp.User.Role)
}

func TestLoginFallsBackToEmail(t *testing.T) {
	store := newFakeUserStore()
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)
	store.add(&models.User{
		Email:        "mail-only@example.com",
		PasswordHash: hash,
		FirstName:    "Paul",
		LastName:     "Biyem",
		Role:         models.RoleOwner,
	})

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "Mail-Only@Example.com",
		Password:   "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "mail-only@example.com", resp.User.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	seedIdentity(t, store, "+237600000003", "secret-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237600000003",
		Password:   "wrong",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownIdentifier(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), newFakeRolesCache(), testConfig())

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237699999999",
		Password:   "whatever",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestLoginFirstLoginFlag(t *testing.T) {
	store := newFakeUserStore()
	seedIdentity(t, store, "+237600000004", "secret-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237600000004",
		Password:   "secret-pass",
	})
	require.NoError(t, err)
	// never logged in before
	assert.True(t, resp.User.IsFirstLogin)
}

func TestSwitchRoleRequiresMembership(t *testing.T) {
	store := newFakeUserStore()
	profiles := seedIdentity(t, store, "+237600000005", "secret-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	_, err := svc.SwitchRole(context.Background(), profiles[0].ID, models.RoleManager)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestSwitchRoleToSibling(t *testing.T) {
	store := newFakeUserStore()
	profiles := seedIdentity(t, store, "+237600000006", "secret-pass", models.RoleOwner, models.RoleManager)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	resp, err := svc.SwitchRole(context.Background(), profiles[0].ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.User.Role)
	assert.False(t, resp.User.IsFirstLogin)
}

func TestSwitchRoleSameRoleIsIdempotent(t *testing.T) {
	store := newFakeUserStore()
	profiles := seedIdentity(t, store, "+237600000007", "secret-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	resp, err := svc.SwitchRole(context.Background(), profiles[0].ID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, profiles[0].ID, resp.User.ID)
}

func TestSwitchRoleAfterCreatingSiblingProfile(t *testing.T) {
	store := newFakeUserStore()
	cache := newFakeRolesCache()
	hash, err := utils.HashPassword("secret-pass")
	require.NoError(t, err)
	owner := store.add(&models.User{
		Email:          "dual@example.com",
		WhatsappNumber: strPtr("+237600000011"),
		PasswordHash:   hash,
		FirstName:      "Ama",
		LastName:       "Ndongo",
		Role:           models.RoleOwner,
	})

	auth := NewAuthService(store, cache, testConfig())
	users := NewUserService(store, cache)

	// logging in by WhatsApp caches the roles under the WhatsApp key
	_, err = auth.Login(context.Background(), &models.LoginRequest{
		Identifier: "+237600000011",
		Password:   "secret-pass",
	})
	require.NoError(t, err)

	// the owner adds a manager profile for their own email
	manager, err := users.Create(context.Background(), models.Scope{ProfileID: owner.ID, Role: models.RoleOwner}, &models.CreateUserRequest{
		FirstName: "Ama",
		LastName:  "Ndongo",
		Email:     "dual@example.com",
		Password:  "secret-pass",
		Role:      models.RoleManager,
	})
	require.NoError(t, err)
	// the sibling shares the owner's WhatsApp number
	require.NotNil(t, manager.WhatsappNumber)
	assert.Equal(t, "+237600000011", *manager.WhatsappNumber)

	// the new role is usable right away, not after the cache expires
	resp, err := auth.SwitchRole(context.Background(), owner.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.User.Role)
	assert.ElementsMatch(t, []models.Role{models.RoleOwner, models.RoleManager}, resp.User.AvailableRoles)
}

func TestChangePasswordPropagatesToSiblings(t *testing.T) {
	store := newFakeUserStore()
	profiles := seedIdentity(t, store, "+237600000008", "old-pass", models.RoleOwner, models.RoleManager)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	err := svc.ChangePassword(context.Background(), profiles[0].ID, &models.ChangePasswordRequest{
		CurrentPassword: "old-pass",
		NewPassword:     "new-pass-123",
	})
	require.NoError(t, err)

	for _, profile := range profiles {
		stored := store.users[profile.ID]
		assert.True(t, utils.CheckPasswordHash("new-pass-123", stored.PasswordHash),
			"profile %s should verify the new password", stored.Role)
	}
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	store := newFakeUserStore()
	profiles := seedIdentity(t, store, "+237600000009", "old-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	err := svc.ChangePassword(context.Background(), profiles[0].ID, &models.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "new-pass-123",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), newFakeRolesCache(), testConfig())

	err := svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Email:       "nobody@example.com",
		NewPassword: "new-pass-123",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegisterConflictsOnExistingIdentifier(t *testing.T) {
	store := newFakeUserStore()
	seedIdentity(t, store, "+237600000010", "secret-pass", models.RoleOwner)

	svc := NewAuthService(store, newFakeRolesCache(), testConfig())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName:      "New",
		LastName:       "Owner",
		Email:          "other@example.com",
		WhatsappNumber: strPtr("+237600000010"),
		Password:       "secret-pass",
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRegisterIssuesFirstLoginSession(t *testing.T) {
	svc := NewAuthService(newFakeUserStore(), newFakeRolesCache(), testConfig())

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Fresh",
		LastName:  "Owner",
		Email:     "fresh@example.com",
		Password:  "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, resp.User.Role)
	assert.True(t, resp.User.IsFirstLogin)
	assert.NotEmpty(t, resp.AccessToken)
}
