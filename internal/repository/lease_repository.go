package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasitha1/lebailleur-app/internal/database"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const leaseColumns = `
	l.id, l.user_id, l.unit_id, l.lease_start_date, l.lease_end_date,
	l.rent_amount, l.payment_due_day, l.status, l.created_at, l.updated_at
`

// leaseScopeJoin walks lease -> unit -> property so owner and manager scopes
// can filter on the property columns.
const leaseScopeJoin = `
	FROM leases l
	JOIN units u ON u.id = l.unit_id
	JOIN properties p ON p.id = u.property_id
`

type LeaseRepository struct {
	pool *pgxpool.Pool
}

func NewLeaseRepository(pool *pgxpool.Pool) *LeaseRepository {
	return &LeaseRepository{pool: pool}
}

func scanLease(row pgx.Row) (*models.Lease, error) {
	l := &models.Lease{}
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.UnitID,
		&l.LeaseStartDate,
		&l.LeaseEndDate,
		&l.RentAmount,
		&l.PaymentDueDay,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create claims the unit and inserts the lease in one transaction. The
// conditional update on is_occupied makes concurrent claims of the same unit
// mutually exclusive: the loser sees zero affected rows and gets a conflict.
func (r *LeaseRepository) Create(ctx context.Context, req *models.CreateLeaseRequest) (*models.Lease, error) {
	var lease *models.Lease

	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE units SET is_occupied = TRUE, updated_at = NOW() WHERE id = $1 AND is_occupied = FALSE`,
			req.UnitID)
		if err != nil {
			return classify(err, "failed to claim unit")
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("unit is already occupied: %w", ErrConflict)
		}

		dueDay := req.PaymentDueDay
		if dueDay == 0 {
			dueDay = 15
		}

		query := `
			INSERT INTO leases (user_id, unit_id, lease_start_date, lease_end_date, rent_amount, payment_due_day)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, user_id, unit_id, lease_start_date, lease_end_date,
				rent_amount, payment_due_day, status, created_at, updated_at
		`

		lease, err = scanLease(tx.QueryRow(ctx, query,
			req.UserID, req.UnitID, req.LeaseStartDate, req.LeaseEndDate, req.RentAmount, dueDay))
		if err != nil {
			return classify(err, "failed to create lease")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// List returns the leases in scope, payments attached
func (r *LeaseRepository) List(ctx context.Context, scope models.Scope) ([]models.Lease, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "l.user_id", 1)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + leaseColumns + leaseScopeJoin + ` WHERE ` + clause + ` ORDER BY l.created_at DESC`
	return r.queryLeases(ctx, query, scope.ProfileID)
}

// ListByStatus returns the leases in scope holding a status
func (r *LeaseRepository) ListByStatus(ctx context.Context, status models.LeaseStatus, scope models.Scope) ([]models.Lease, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "l.user_id", 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + leaseColumns + leaseScopeJoin + ` WHERE l.status = $1 AND ` + clause + ` ORDER BY l.created_at DESC`
	return r.queryLeases(ctx, query, status, scope.ProfileID)
}

func (r *LeaseRepository) queryLeases(ctx context.Context, query string, args ...any) ([]models.Lease, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "failed to list leases")
	}
	defer rows.Close()

	var leases []models.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, classify(err, "failed to list leases")
		}
		leases = append(leases, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to list leases")
	}

	for i := range leases {
		payments, err := r.leasePayments(ctx, leases[i].ID)
		if err != nil {
			return nil, err
		}
		leases[i].Payments = payments
	}
	return leases, nil
}

func (r *LeaseRepository) leasePayments(ctx context.Context, leaseID uuid.UUID) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments py WHERE py.lease_id = $1 ORDER BY py.due_date DESC`

	rows, err := r.pool.Query(ctx, query, leaseID)
	if err != nil {
		return nil, classify(err, "failed to list lease payments")
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, classify(err, "failed to list lease payments")
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// Get returns one lease in scope, payments attached
func (r *LeaseRepository) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Lease, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "l.user_id", 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + leaseColumns + leaseScopeJoin + ` WHERE l.id = $1 AND ` + clause

	lease, err := scanLease(r.pool.QueryRow(ctx, query, id, scope.ProfileID))
	if err != nil {
		return nil, classify(err, "failed to get lease")
	}

	payments, err := r.leasePayments(ctx, lease.ID)
	if err != nil {
		return nil, err
	}
	lease.Payments = payments
	return lease, nil
}

// Update patches a lease. Field-level restrictions per role are enforced by
// the service before this is called.
func (r *LeaseRepository) Update(ctx context.Context, id uuid.UUID, req *models.UpdateLeaseRequest) (*models.Lease, error) {
	query := `
		UPDATE leases SET
			lease_start_date = COALESCE($2, lease_start_date),
			lease_end_date = COALESCE($3, lease_end_date),
			rent_amount = COALESCE($4, rent_amount),
			payment_due_day = COALESCE($5, payment_due_day),
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, unit_id, lease_start_date, lease_end_date,
			rent_amount, payment_due_day, status, created_at, updated_at
	`

	lease, err := scanLease(r.pool.QueryRow(ctx, query,
		id, req.LeaseStartDate, req.LeaseEndDate, req.RentAmount, req.PaymentDueDay, req.Status))
	if err != nil {
		return nil, classify(err, "failed to update lease")
	}
	return lease, nil
}

// Delete removes a lease and frees its unit in one transaction
func (r *LeaseRepository) Delete(ctx context.Context, id uuid.UUID, unitID uuid.UUID) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE units SET is_occupied = FALSE, updated_at = NOW() WHERE id = $1`, unitID); err != nil {
			return classify(err, "failed to release unit")
		}

		tag, err := tx.Exec(ctx, `DELETE FROM leases WHERE id = $1`, id)
		if err != nil {
			return classify(err, "failed to delete lease")
		}
		if tag.RowsAffected() == 0 {
			return classify(pgx.ErrNoRows, "failed to delete lease")
		}
		return nil
	})
}
