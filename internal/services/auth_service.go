package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/config"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
	"github.com/vasitha1/lebailleur-app/internal/utils"
)

// firstLoginWindow: a last login this close to account creation still counts
// as the first one.
const firstLoginWindow = 5 * time.Minute

type AuthService struct {
	users UserStore
	cache RolesCache
	cfg   *config.Config
}

func NewAuthService(users UserStore, cache RolesCache, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cache: cache, cfg: cfg}
}

// Register creates an owner profile for public self-registration and signs
// the caller in.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if req.WhatsappNumber != nil {
		normalized := utils.NormalizeIdentifier(*req.WhatsappNumber)
		req.WhatsappNumber = &normalized
	}

	identifier := req.Email
	if req.WhatsappNumber != nil && *req.WhatsappNumber != "" {
		identifier = *req.WhatsappNumber
	}

	existing, err := s.users.FindProfilesByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("user with this identifier already exists: %w", repository.ErrConflict)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:            req.Email,
		WhatsappNumber:   req.WhatsappNumber,
		PasswordHash:     hash,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Role:             models.RoleOwner,
		PropertyName:     req.PropertyName,
		PropertyLocation: req.PropertyLocation,
		PropertyType:     req.PropertyType,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRoles(ctx, user.Email)
	if user.WhatsappNumber != nil && *user.WhatsappNumber != "" {
		s.invalidateRoles(ctx, *user.WhatsappNumber)
	}

	return s.issueSession(user, []models.Role{models.RoleOwner}, true)
}

// Login resolves every profile behind the identifier, validates the shared
// password, and signs the caller into the selected profile.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	identifier := utils.NormalizeIdentifier(req.Identifier)

	profiles, err := s.users.FindProfilesByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, repository.ErrInvalidCredentials
	}

	// All sibling profiles share one password, so comparing against the
	// first is enough.
	if !utils.CheckPasswordHash(req.Password, profiles[0].PasswordHash) {
		return nil, repository.ErrInvalidCredentials
	}

	selected := selectProfile(profiles, req.Role)
	availableRoles := rolesOf(profiles)

	isFirstLogin := isFirstLogin(selected)

	if err := s.users.UpdateLastLogin(ctx, selected.ID); err != nil {
		return nil, err
	}
	s.cacheRoles(ctx, selected.Identifier(), availableRoles)

	slog.Info("login", "profile_id", selected.ID, "role", selected.Role)

	return s.issueSession(selected, availableRoles, isFirstLogin)
}

// SwitchRole exchanges a valid session for one scoped to a sibling profile.
// Trust is inherited from the current session; no password is required.
func (s *AuthService) SwitchRole(ctx context.Context, profileID uuid.UUID, target models.Role) (*models.LoginResponse, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", target, repository.ErrInvalidInput)
	}

	current, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	identifier := current.Identifier()

	if cached, ok := s.cachedRoles(ctx, identifier); ok && !containsRole(cached, target) {
		return nil, fmt.Errorf("role not available for this account: %w", repository.ErrForbidden)
	}

	profiles, err := s.users.FindProfilesByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var selected *models.User
	for i := range profiles {
		if profiles[i].Role == target {
			selected = &profiles[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("role not available for this account: %w", repository.ErrForbidden)
	}

	availableRoles := rolesOf(profiles)
	s.cacheRoles(ctx, identifier, availableRoles)

	slog.Info("role switch", "from_profile", profileID, "to_profile", selected.ID, "role", target)

	return s.issueSession(selected, availableRoles, false)
}

// GetContext returns a profile together with every sibling role.
func (s *AuthService) GetContext(ctx context.Context, profileID uuid.UUID) (*models.UserContext, error) {
	user, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.users.FindProfilesByIdentifier(ctx, user.Identifier())
	if err != nil {
		return nil, err
	}

	return &models.UserContext{User: user, AvailableRoles: rolesOf(profiles)}, nil
}

// ChangePassword verifies the current password and rewrites the hash on the
// whole identity, keeping sibling profiles in sync.
func (s *AuthService) ChangePassword(ctx context.Context, profileID uuid.UUID, req *models.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", repository.ErrInvalidCredentials)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePasswordForIdentity(ctx, user.Email, user.WhatsappNumber, hash)
}

// ResetPassword rewrites the password hash for the identity behind an email.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	email := utils.NormalizeEmail(req.Email)

	profiles, err := s.users.FindProfilesByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("user not found: %w", repository.ErrNotFound)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePasswordForIdentity(ctx, email, profiles[0].WhatsappNumber, hash)
}

func (s *AuthService) issueSession(user *models.User, availableRoles []models.Role, isFirstLogin bool) (*models.LoginResponse, error) {
	token, err := utils.GenerateJWT(user, availableRoles, isFirstLogin, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: token,
		User: models.AuthUser{
			ID:             user.ID,
			Email:          user.Email,
			WhatsappNumber: user.WhatsappNumber,
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			Role:           user.Role,
			AvailableRoles: availableRoles,
			IsFirstLogin:   isFirstLogin,
		},
	}, nil
}

func (s *AuthService) cacheRoles(ctx context.Context, identifier string, roles []models.Role) {
	if s.cache == nil {
		return
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	if err := s.cache.SetAvailableRoles(ctx, identifier, strings.Join(parts, ",")); err != nil {
		slog.Warn("failed to cache available roles", "error", err)
	}
}

func (s *AuthService) cachedRoles(ctx context.Context, identifier string) ([]models.Role, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.GetAvailableRoles(ctx, identifier)
	if err != nil || raw == "" {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	roles := make([]models.Role, 0, len(parts))
	for _, p := range parts {
		roles = append(roles, models.Role(p))
	}
	return roles, true
}

func (s *AuthService) invalidateRoles(ctx context.Context, identifier string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailableRoles(ctx, identifier); err != nil {
		slog.Warn("failed to invalidate roles cache", "error", err)
	}
}

// selectProfile picks the profile to sign into: the preferred role when
// requested and present, else the owner profile, else the first match.
func selectProfile(profiles []models.User, preferred *models.Role) *models.User {
	if preferred != nil {
		for i := range profiles {
			if profiles[i].Role == *preferred {
				return &profiles[i]
			}
		}
	}
	for i := range profiles {
		if profiles[i].Role == models.RoleOwner {
			return &profiles[i]
		}
	}
	return &profiles[0]
}

func rolesOf(profiles []models.User) []models.Role {
	roles := make([]models.Role, len(profiles))
	for i, p := range profiles {
		roles[i] = p.Role
	}
	return roles
}

func containsRole(roles []models.Role, target models.Role) bool {
	for _, r := range roles {
		if r == target {
			return true
		}
	}
	return false
}

func isFirstLogin(user *models.User) bool {
	if user.LastLoginAt == nil {
		return true
	}
	return user.LastLoginAt.Sub(user.CreatedAt) <= firstLoginWindow
}
