package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/utils"
)

type UserService struct {
	users UserStore
	cache RolesCache
}

func NewUserService(users UserStore, cache RolesCache) *UserService {
	return &UserService{users: users, cache: cache}
}

// Create applies the hierarchy rules for authenticated profile creation:
// owners create managers and tenants, managers create tenants only, tenants
// create nobody. Ownership propagates transitively, so a manager-created
// tenant answers to the manager's owner, never the manager.
func (s *UserService) Create(ctx context.Context, scope models.Scope, req *models.CreateUserRequest) (*models.User, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if req.WhatsappNumber != nil {
		normalized := utils.NormalizeIdentifier(*req.WhatsappNumber)
		req.WhatsappNumber = &normalized
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, repository.ErrInvalidInput)
	}

	switch scope.Role {
	case models.RoleOwner:
		if req.Role == models.RoleManager {
			return s.createManagerProfile(ctx, scope.ProfileID, req)
		}
		return s.createForOwner(ctx, scope.ProfileID, req)
	case models.RoleManager:
		return s.createForManager(ctx, scope.ProfileID, req)
	case models.RoleTenant:
		return nil, fmt.Errorf("tenants cannot create other users: %w", repository.ErrForbidden)
	default:
		return nil, fmt.Errorf("invalid role for creating users: %w", repository.ErrForbidden)
	}
}

func (s *UserService) createForOwner(ctx context.Context, ownerID uuid.UUID, req *models.CreateUserRequest) (*models.User, error) {
	if req.Role == models.RoleOwner {
		return nil, fmt.Errorf("owners cannot create other owner accounts: %w", repository.ErrForbidden)
	}
	// Manager creation routes through createManagerProfile; only tenants
	// remain here.
	if req.Role != models.RoleTenant {
		return nil, fmt.Errorf("owners can only create managers and tenants: %w", repository.ErrForbidden)
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != models.RoleOwner {
		return nil, fmt.Errorf("current owner not found: %w", repository.ErrNotFound)
	}

	if err := s.validateEmailForRole(ctx, req.Email); err != nil {
		return nil, err
	}

	return s.insert(ctx, req, &owner.ID)
}

func (s *UserService) createForManager(ctx context.Context, managerID uuid.UUID, req *models.CreateUserRequest) (*models.User, error) {
	if req.Role != models.RoleTenant {
		return nil, fmt.Errorf("managers can only create tenants: %w", repository.ErrForbidden)
	}

	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.OwnerID == nil {
		return nil, fmt.Errorf("manager must be assigned to an owner before creating tenants: %w", repository.ErrForbidden)
	}

	if err := s.validateEmailForRole(ctx, req.Email); err != nil {
		return nil, err
	}

	// The tenant answers to the manager's owner, keeping the hierarchy two
	// levels deep.
	return s.insert(ctx, req, manager.OwnerID)
}

// createManagerProfile covers both genuine manager hires and the dual-role
// case where an owner creates a manager profile for their own email.
func (s *UserService) createManagerProfile(ctx context.Context, ownerID uuid.UUID, req *models.CreateUserRequest) (*models.User, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != models.RoleOwner {
		return nil, fmt.Errorf("owner not found: %w", repository.ErrNotFound)
	}

	switch _, err := s.users.GetByEmailAndRole(ctx, req.Email, models.RoleManager); {
	case err == nil:
		return nil, fmt.Errorf("manager profile already exists for this email: %w", repository.ErrConflict)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	// A dual-role profile inherits the owner's WhatsApp number so both rows
	// resolve as one identity no matter which identifier the login used.
	if req.WhatsappNumber == nil && req.Email == owner.Email {
		req.WhatsappNumber = owner.WhatsappNumber
	}

	return s.insert(ctx, req, &owner.ID)
}

// validateEmailForRole enforces cross-role email uniqueness for everything
// except the dual-role manager path, which never reaches here.
func (s *UserService) validateEmailForRole(ctx context.Context, email string) error {
	existing, err := s.users.FindProfilesByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("email already exists: %w", repository.ErrConflict)
	}
	return nil
}

func (s *UserService) insert(ctx context.Context, req *models.CreateUserRequest, ownerID *uuid.UUID) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:          req.Email,
		WhatsappNumber: req.WhatsappNumber,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		OwnerID:        ownerID,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRoles(ctx, user)
	slog.Info("profile created", "profile_id", user.ID, "role", user.Role)
	return user, nil
}

// List returns all profiles
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns one profile by id
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// FindProfiles returns every profile sharing an email
func (s *UserService) FindProfiles(ctx context.Context, email string) ([]models.User, error) {
	return s.users.FindProfilesByEmail(ctx, utils.NormalizeEmail(email))
}

// GetContext returns a profile plus its sibling roles, optionally swapping
// to a requested sibling role.
func (s *UserService) GetContext(ctx context.Context, userID uuid.UUID, requestedRole *models.Role) (*models.UserContext, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.users.FindProfilesByIdentifier(ctx, user.Identifier())
	if err != nil {
		return nil, err
	}
	availableRoles := rolesOf(profiles)

	if requestedRole != nil {
		var requested *models.User
		for i := range profiles {
			if profiles[i].Role == *requestedRole {
				requested = &profiles[i]
				break
			}
		}
		if requested == nil {
			return nil, fmt.Errorf("requested role not available for this user: %w", repository.ErrForbidden)
		}
		return &models.UserContext{User: requested, AvailableRoles: availableRoles}, nil
	}

	return &models.UserContext{User: user, AvailableRoles: availableRoles}, nil
}

// FindManagers returns the managers answering to an owner
func (s *UserService) FindManagers(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	return s.users.FindManagers(ctx, ownerID)
}

// FindByOwner returns every profile under an owner
func (s *UserService) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	return s.users.FindByOwner(ctx, ownerID)
}

// Update patches a profile
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	return s.users.Update(ctx, id, req)
}

// Delete removes a profile. Deleting an owner also removes a manager profile
// sharing its email (dual-role cleanup); deleting a dual-role manager leaves
// the owner profile alone. Tenant profiles created under the owner survive.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleOwner {
		if err := s.users.DeleteByEmailAndRole(ctx, user.Email, models.RoleManager); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateRoles(ctx, user)
	slog.Info("profile deleted", "profile_id", id, "role", user.Role)
	return nil
}

// AssignManager binds an existing manager profile to an owner
func (s *UserService) AssignManager(ctx context.Context, ownerID, managerID uuid.UUID) (*models.User, error) {
	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.Role != models.RoleManager {
		return nil, fmt.Errorf("user is not a manager: %w", repository.ErrForbidden)
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != models.RoleOwner {
		return nil, fmt.Errorf("owner not found: %w", repository.ErrNotFound)
	}

	if err := s.users.SetOwner(ctx, managerID, ownerID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, managerID)
}

// invalidateRoles drops every roles-cache key the identity can log in with.
// Sibling profiles may be cached under a different identifier than the row
// that changed (an owner's WhatsApp number vs a dual-role manager's email),
// so all of them have to go.
func (s *UserService) invalidateRoles(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}

	keys := map[string]struct{}{user.Email: {}}
	if user.WhatsappNumber != nil && *user.WhatsappNumber != "" {
		keys[*user.WhatsappNumber] = struct{}{}
	}
	if siblings, err := s.users.FindProfilesByEmail(ctx, user.Email); err == nil {
		for i := range siblings {
			keys[siblings[i].Email] = struct{}{}
			if siblings[i].WhatsappNumber != nil && *siblings[i].WhatsappNumber != "" {
				keys[*siblings[i].WhatsappNumber] = struct{}{}
			}
		}
	}

	for key := range keys {
		if err := s.cache.InvalidateAvailableRoles(ctx, key); err != nil {
			slog.Warn("failed to invalidate roles cache", "identifier", key, "error", err)
		}
	}
}
