package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

type PaymentService struct {
	payments PaymentStore
	leases   LeaseStore
}

func NewPaymentService(payments PaymentStore, leases LeaseStore) *PaymentService {
	return &PaymentService{payments: payments, leases: leases}
}

// Create records a payment against a lease in the caller's scope. The payer
// is the lease occupant, never the caller.
func (s *PaymentService) Create(ctx context.Context, scope models.Scope, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot record payments: %w", repository.ErrForbidden)
	}
	lease, err := s.leases.Get(ctx, req.LeaseID, scope)
	if err != nil {
		return nil, err
	}
	return s.payments.Create(ctx, lease.UserID, req)
}

// List returns the caller's payments, most recent due date first
func (s *PaymentService) List(ctx context.Context, scope models.Scope) ([]models.Payment, error) {
	return s.payments.List(ctx, scope)
}

// ListByStatus filters payments by status within scope
func (s *PaymentService) ListByStatus(ctx context.Context, scope models.Scope, status models.PaymentStatus) ([]models.Payment, error) {
	return s.payments.ListByStatus(ctx, status, scope)
}

// ListByDateRange returns payments due between start and end inclusive
func (s *PaymentService) ListByDateRange(ctx context.Context, scope models.Scope, start, end time.Time) ([]models.Payment, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date precedes start date: %w", repository.ErrInvalidInput)
	}
	return s.payments.ListByDateRange(ctx, start, end, scope)
}

// Get returns one payment in the caller's scope
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Payment, error) {
	return s.payments.Get(ctx, id, scope)
}

// Update patches a payment's amount, due date, status or notes. Tenants can
// touch their own rows; the scoped fetch hides everyone else's.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	if _, err := s.payments.Get(ctx, id, scope); err != nil {
		return nil, err
	}
	return s.payments.Update(ctx, id, req)
}

// Process settles a payment: partial when the received amount is short of
// what is owed, paid otherwise. Tenants settle their own rent this way; the
// scoped fetch keeps them off other tenants' rows.
func (s *PaymentService) Process(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.ProcessPaymentRequest) (*models.Payment, error) {
	payment, err := s.payments.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, fmt.Errorf("payment already settled: %w", repository.ErrConflict)
	}

	status := models.PaymentStatusPaid
	if req.Amount != nil && *req.Amount < payment.Amount {
		status = models.PaymentStatusPartial
	}
	return s.payments.MarkProcessed(ctx, id, status, req.PaymentMethod, req.TransactionID, req.Notes)
}

// Delete removes a payment record. Owners and managers only.
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) error {
	if scope.Role == models.RoleTenant {
		return fmt.Errorf("tenants cannot delete payments: %w", repository.ErrForbidden)
	}
	if _, err := s.payments.Get(ctx, id, scope); err != nil {
		return err
	}
	return s.payments.Delete(ctx, id)
}

// GetStats aggregates payment counts and revenue for the caller's scope
func (s *PaymentService) GetStats(ctx context.Context, scope models.Scope) (*models.PaymentStats, error) {
	payments, err := s.payments.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &models.PaymentStats{TotalPayments: len(payments)}
	for _, payment := range payments {
		switch payment.Status {
		case models.PaymentStatusPaid:
			stats.PaidPayments++
			stats.TotalRevenue += payment.Amount
		case models.PaymentStatusPending:
			stats.PendingPayments++
			stats.OutstandingAmount += payment.Amount
		case models.PaymentStatusOverdue:
			stats.OverduePayments++
			stats.OutstandingAmount += payment.Amount
		case models.PaymentStatusPartial:
			stats.PartialPayments++
			stats.OutstandingAmount += payment.Amount
		}
	}
	return stats, nil
}

// GenerateMonthly creates pending payments for every active lease that does
// not already have one due this month. Safe to call repeatedly.
func (s *PaymentService) GenerateMonthly(ctx context.Context, scope models.Scope) (int, error) {
	if scope.Role == models.RoleTenant {
		return 0, fmt.Errorf("tenants cannot generate payments: %w", repository.ErrForbidden)
	}
	leases, err := s.leases.ListByStatus(ctx, models.LeaseStatusActive, scope)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	created := 0
	for _, lease := range leases {
		exists, err := s.payments.ExistsForLeaseInRange(ctx, lease.ID, monthStart, monthEnd)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		dueDate := dueDateIn(now, lease.PaymentDueDay)
		if _, err := s.payments.Create(ctx, lease.UserID, &models.CreatePaymentRequest{
			LeaseID: lease.ID,
			Amount:  lease.RentAmount,
			DueDate: dueDate,
		}); err != nil {
			return created, err
		}
		created++
	}
	slog.Info("monthly payments generated", "count", created, "month", monthStart.Format("2006-01"))
	return created, nil
}

// MarkOverdue flips pending payments whose due date has passed to overdue
// and reports how many changed.
func (s *PaymentService) MarkOverdue(ctx context.Context, scope models.Scope) (int, error) {
	pending, err := s.payments.ListByStatus(ctx, models.PaymentStatusPending, scope)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	overdue := models.PaymentStatusOverdue
	changed := 0
	for _, payment := range pending {
		if !payment.DueDate.Before(now) {
			continue
		}
		if _, err := s.payments.Update(ctx, payment.ID, &models.UpdatePaymentRequest{Status: &overdue}); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// dueDateIn clamps the configured due day to the month's length
func dueDateIn(ref time.Time, day int) time.Time {
	lastDay := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
}
