package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const userColumns = `
	id, email, whatsapp_number, password_hash, first_name, last_name, role,
	is_active, last_login_at, owner_id, property_name, property_location,
	property_type, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.WhatsappNumber,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.OwnerID,
		&user.PropertyName,
		&user.PropertyLocation,
		&user.PropertyType,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// Create inserts a new role-profile row
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (
			email, whatsapp_number, password_hash, first_name, last_name, role,
			owner_id, property_name, property_location, property_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Email,
		user.WhatsappNumber,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.OwnerID,
		user.PropertyName,
		user.PropertyLocation,
		user.PropertyType,
	))
	if err != nil {
		return nil, classify(err, "failed to create user")
	}
	return created, nil
}

// GetByID retrieves a profile by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify(err, "failed to get user")
	}
	return user, nil
}

// GetByEmailAndRole retrieves the profile holding a specific role for an email
func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, role))
	if err != nil {
		return nil, classify(err, "failed to get user")
	}
	return user, nil
}

// FindProfilesByIdentifier returns every profile sharing a login identifier.
// The identifier is matched as a WhatsApp number first; when nothing matches
// it is retried as an email, covering users who type their email into the
// WhatsApp field.
func (r *UserRepository) FindProfilesByIdentifier(ctx context.Context, identifier string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE whatsapp_number = $1 ORDER BY role`

	rows, err := r.pool.Query(ctx, query, identifier)
	if err != nil {
		return nil, classify(err, "failed to find profiles")
	}
	profiles, err := collectUsers(rows)
	if err != nil {
		return nil, classify(err, "failed to find profiles")
	}
	if len(profiles) > 0 {
		return profiles, nil
	}

	return r.FindProfilesByEmail(ctx, identifier)
}

// FindProfilesByEmail returns every profile for an email, owner first
func (r *UserRepository) FindProfilesByEmail(ctx context.Context, email string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY role`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, classify(err, "failed to find profiles")
	}
	profiles, err := collectUsers(rows)
	if err != nil {
		return nil, classify(err, "failed to find profiles")
	}
	return profiles, nil
}

// List returns all profiles
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err, "failed to list users")
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, classify(err, "failed to list users")
	}
	return users, nil
}

// FindManagers returns the manager profiles answering to an owner
func (r *UserRepository) FindManagers(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND owner_id = $2 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, models.RoleManager, ownerID)
	if err != nil {
		return nil, classify(err, "failed to find managers")
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, classify(err, "failed to find managers")
	}
	return users, nil
}

// FindByOwner returns every profile (managers and tenants) under an owner
func (r *UserRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, classify(err, "failed to find users")
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, classify(err, "failed to find users")
	}
	return users, nil
}

// Update patches mutable profile fields
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	query := `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			whatsapp_number = COALESCE($4, whatsapp_number),
			is_active = COALESCE($5, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, req.FirstName, req.LastName, req.WhatsappNumber, req.IsActive))
	if err != nil {
		return nil, classify(err, "failed to update user")
	}
	return user, nil
}

// UpdatePasswordForIdentity rewrites the password hash on every profile row
// of the identity in one statement, so sibling profiles can never hold
// diverging credentials.
func (r *UserRepository) UpdatePasswordForIdentity(ctx context.Context, email string, whatsappNumber *string, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $3, updated_at = NOW()
		WHERE email = $1 OR ($2::text IS NOT NULL AND whatsapp_number = $2)
	`

	tag, err := r.pool.Exec(ctx, query, email, whatsappNumber, passwordHash)
	if err != nil {
		return classify(err, "failed to update password")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to update password")
	}
	return nil
}

// UpdateLastLogin stamps the profile's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return classify(err, "failed to update last login")
	}
	return nil
}

// SetOwner assigns a manager profile to an owner
func (r *UserRepository) SetOwner(ctx context.Context, managerID, ownerID uuid.UUID) error {
	query := `UPDATE users SET owner_id = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, managerID, ownerID)
	if err != nil {
		return classify(err, "failed to assign owner")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to assign owner")
	}
	return nil
}

// Delete removes a single profile row
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to delete user")
	}
	return nil
}

// DeleteByEmailAndRole removes the profile holding a role for an email, if
// one exists. Used for the dual-role cleanup when an owner row is removed.
func (r *UserRepository) DeleteByEmailAndRole(ctx context.Context, email string, role models.Role) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE email = $1 AND role = $2`, email, role); err != nil {
		return classify(err, "failed to delete profile")
	}
	return nil
}
