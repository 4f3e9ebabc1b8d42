package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const paymentColumns = `
	py.id, py.tenant_id, py.lease_id, py.amount, py.due_date, py.paid_date,
	py.status, py.payment_method, py.transaction_id, py.notes,
	py.created_at, py.updated_at
`

const paymentScopeJoin = `
	FROM payments py
	JOIN leases l ON l.id = py.lease_id
	JOIN units u ON u.id = l.unit_id
	JOIN properties p ON p.id = u.property_id
`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.LeaseID,
		&p.Amount,
		&p.DueDate,
		&p.PaidDate,
		&p.Status,
		&p.PaymentMethod,
		&p.TransactionID,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a pending payment for a lease
func (r *PaymentRepository) Create(ctx context.Context, tenantID uuid.UUID, req *models.CreatePaymentRequest) (*models.Payment, error) {
	query := `
		INSERT INTO payments (tenant_id, lease_id, amount, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, lease_id, amount, due_date, paid_date,
			status, payment_method, transaction_id, notes, created_at, updated_at
	`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, tenantID, req.LeaseID, req.Amount, req.DueDate))
	if err != nil {
		return nil, classify(err, "failed to create payment")
	}
	return payment, nil
}

// List returns the payments in scope, most recent due date first
func (r *PaymentRepository) List(ctx context.Context, scope models.Scope) ([]models.Payment, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "py.tenant_id", 1)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + paymentScopeJoin + ` WHERE ` + clause + ` ORDER BY py.due_date DESC`
	return r.queryPayments(ctx, query, scope.ProfileID)
}

// ListByStatus returns the payments in scope holding a status
func (r *PaymentRepository) ListByStatus(ctx context.Context, status models.PaymentStatus, scope models.Scope) ([]models.Payment, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "py.tenant_id", 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + paymentScopeJoin + ` WHERE py.status = $1 AND ` + clause + ` ORDER BY py.due_date ASC`
	return r.queryPayments(ctx, query, status, scope.ProfileID)
}

// ListByDateRange returns the payments in scope due inside [start, end]
func (r *PaymentRepository) ListByDateRange(ctx context.Context, start, end time.Time, scope models.Scope) ([]models.Payment, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "py.tenant_id", 3)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + paymentScopeJoin +
		` WHERE py.due_date BETWEEN $1 AND $2 AND ` + clause + ` ORDER BY py.due_date ASC`
	return r.queryPayments(ctx, query, start, end, scope.ProfileID)
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]models.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "failed to list payments")
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, classify(err, "failed to list payments")
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to list payments")
	}
	return payments, nil
}

// Get returns one payment in scope
func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Payment, error) {
	clause, err := scopeClause(scope, "p.owner_id", "p.manager_id", "py.tenant_id", 2)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + paymentScopeJoin + ` WHERE py.id = $1 AND ` + clause

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id, scope.ProfileID))
	if err != nil {
		return nil, classify(err, "failed to get payment")
	}
	return payment, nil
}

// Update patches a payment
func (r *PaymentRepository) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	query := `
		UPDATE payments SET
			amount = COALESCE($2, amount),
			due_date = COALESCE($3, due_date),
			status = COALESCE($4, status),
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, tenant_id, lease_id, amount, due_date, paid_date,
			status, payment_method, transaction_id, notes, created_at, updated_at
	`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id, req.Amount, req.DueDate, req.Status, req.Notes))
	if err != nil {
		return nil, classify(err, "failed to update payment")
	}
	return payment, nil
}

// MarkProcessed settles a payment
func (r *PaymentRepository) MarkProcessed(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string, transactionID, notes *string) (*models.Payment, error) {
	query := `
		UPDATE payments SET
			status = $2,
			paid_date = NOW(),
			payment_method = $3,
			transaction_id = $4,
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, tenant_id, lease_id, amount, due_date, paid_date,
			status, payment_method, transaction_id, notes, created_at, updated_at
	`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id, status, method, transactionID, notes))
	if err != nil {
		return nil, classify(err, "failed to process payment")
	}
	return payment, nil
}

// Delete removes a payment
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return classify(err, "failed to delete payment")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to delete payment")
	}
	return nil
}

// ExistsForLeaseInRange reports whether the lease already has a payment due
// inside [start, end]. Used by monthly generation to stay idempotent.
func (r *PaymentRepository) ExistsForLeaseInRange(ctx context.Context, leaseID uuid.UUID, start, end time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE lease_id = $1 AND due_date BETWEEN $2 AND $3)`,
		leaseID, start, end).Scan(&exists)
	if err != nil {
		return false, classify(err, "failed to check existing payments")
	}
	return exists, nil
}
