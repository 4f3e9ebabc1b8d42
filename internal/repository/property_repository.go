package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const propertyColumns = `
	p.id, p.name, p.address, p.description, p.total_units, p.status,
	p.owner_id, p.manager_id, p.photo_url, p.created_at, p.updated_at
`

const unitColumns = `
	u.id, u.property_id, u.unit_number, u.rent_amount, u.is_occupied,
	u.description, u.created_at, u.updated_at
`

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Address,
		&p.Description,
		&p.TotalUnits,
		&p.Status,
		&p.OwnerID,
		&p.ManagerID,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	u := &models.Unit{}
	err := row.Scan(
		&u.ID,
		&u.PropertyID,
		&u.UnitNumber,
		&u.RentAmount,
		&u.IsOccupied,
		&u.Description,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a property owned by ownerID
func (r *PropertyRepository) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreatePropertyRequest) (*models.Property, error) {
	query := `
		INSERT INTO properties (name, address, description, total_units, owner_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, address, description, total_units, status,
			owner_id, manager_id, photo_url, created_at, updated_at
	`

	property, err := scanProperty(r.pool.QueryRow(ctx, query,
		req.Name,
		req.Address,
		req.Description,
		req.TotalUnits,
		ownerID,
		req.ManagerID,
	))
	if err != nil {
		return nil, classify(err, "failed to create property")
	}
	return property, nil
}

// List returns the properties in scope, units included
func (r *PropertyRepository) List(ctx context.Context, scope models.Scope) ([]models.Property, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "", 1)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE ` + clause + ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, scope.ProfileID)
	if err != nil {
		return nil, classify(err, "failed to list properties")
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, classify(err, "failed to list properties")
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to list properties")
	}

	for i := range properties {
		units, err := r.ListUnits(ctx, properties[i].ID)
		if err != nil {
			return nil, err
		}
		properties[i].Units = units
	}
	return properties, nil
}

// Get returns one property in scope, units included. Out-of-scope rows read
// as not found.
func (r *PropertyRepository) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Property, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "", 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1 AND ` + clause

	property, err := scanProperty(r.pool.QueryRow(ctx, query, id, scope.ProfileID))
	if err != nil {
		return nil, classify(err, "failed to get property")
	}

	units, err := r.ListUnits(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	property.Units = units
	return property, nil
}

// Update patches a property within scope
func (r *PropertyRepository) Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdatePropertyRequest) (*models.Property, error) {
	clause, err := scopeClause(scope, "owner_id", "manager_id", "", 7)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE properties SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			description = COALESCE($4, description),
			status = COALESCE($5, status),
			manager_id = COALESCE($6, manager_id),
			updated_at = NOW()
		WHERE id = $1 AND ` + clause + `
		RETURNING id, name, address, description, total_units, status,
			owner_id, manager_id, photo_url, created_at, updated_at
	`

	property, err := scanProperty(r.pool.QueryRow(ctx, query,
		id, req.Name, req.Address, req.Description, req.Status, req.ManagerID, scope.ProfileID))
	if err != nil {
		return nil, classify(err, "failed to update property")
	}
	return property, nil
}

// SetPhotoURL stores the public URL of an uploaded property photo
func (r *PropertyRepository) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE properties SET photo_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return classify(err, "failed to set photo url")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to set photo url")
	}
	return nil
}

// Delete removes a property owned by the caller
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return classify(err, "failed to delete property")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to delete property")
	}
	return nil
}

// CreateUnit adds a unit to a property
func (r *PropertyRepository) CreateUnit(ctx context.Context, propertyID uuid.UUID, req *models.CreateUnitRequest) (*models.Unit, error) {
	query := `
		INSERT INTO units (property_id, unit_number, rent_amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, property_id, unit_number, rent_amount, is_occupied,
			description, created_at, updated_at
	`

	unit, err := scanUnit(r.pool.QueryRow(ctx, query, propertyID, req.UnitNumber, req.RentAmount, req.Description))
	if err != nil {
		return nil, classify(err, "failed to create unit")
	}
	return unit, nil
}

// ListUnits returns all units of a property
func (r *PropertyRepository) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	return r.listUnits(ctx, propertyID, false)
}

// ListVacantUnits returns the unoccupied units of a property
func (r *PropertyRepository) ListVacantUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	return r.listUnits(ctx, propertyID, true)
}

func (r *PropertyRepository) listUnits(ctx context.Context, propertyID uuid.UUID, vacantOnly bool) ([]models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units u WHERE u.property_id = $1`
	if vacantOnly {
		query += ` AND u.is_occupied = FALSE`
	}
	query += ` ORDER BY u.unit_number`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, classify(err, "failed to list units")
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, classify(err, "failed to list units")
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to list units")
	}
	return units, nil
}

// GetUnit returns a unit when its property falls inside the caller's scope
func (r *PropertyRepository) GetUnit(ctx context.Context, unitID uuid.UUID, scope models.Scope) (*models.Unit, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "", 2)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + unitColumns + `
		FROM units u
		JOIN properties p ON p.id = u.property_id
		WHERE u.id = $1 AND ` + clause

	unit, err := scanUnit(r.pool.QueryRow(ctx, query, unitID, scope.ProfileID))
	if err != nil {
		return nil, classify(err, "failed to get unit")
	}
	return unit, nil
}
