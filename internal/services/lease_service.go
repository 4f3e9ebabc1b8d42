package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

type LeaseService struct {
	leases     LeaseStore
	users      UserStore
	properties PropertyStore
}

func NewLeaseService(leases LeaseStore, users UserStore, properties PropertyStore) *LeaseService {
	return &LeaseService{leases: leases, users: users, properties: properties}
}

// Create places a tenant in a unit. The unit claim and lease insert run in a
// single transaction so two callers cannot occupy the same unit.
func (s *LeaseService) Create(ctx context.Context, scope models.Scope, req *models.CreateLeaseRequest) (*models.Lease, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot create leases: %w", repository.ErrForbidden)
	}

	// the unit must be reachable in the caller's scope
	if _, err := s.properties.GetUnit(ctx, req.UnitID, scope); err != nil {
		return nil, err
	}

	occupant, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if occupant.Role != models.RoleTenant {
		return nil, fmt.Errorf("lease occupant must be a tenant profile: %w", repository.ErrInvalidInput)
	}

	return s.leases.Create(ctx, req)
}

// List returns the caller's leases, newest first
func (s *LeaseService) List(ctx context.Context, scope models.Scope) ([]models.Lease, error) {
	return s.leases.List(ctx, scope)
}

// ListByStatus filters leases by status within scope
func (s *LeaseService) ListByStatus(ctx context.Context, scope models.Scope, status models.LeaseStatus) ([]models.Lease, error) {
	return s.leases.ListByStatus(ctx, status, scope)
}

// Get returns one lease in the caller's scope
func (s *LeaseService) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Lease, error) {
	return s.leases.Get(ctx, id, scope)
}

// Update patches a lease. Tenants are read-only on their own leases.
func (s *LeaseService) Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdateLeaseRequest) (*models.Lease, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot modify leases: %w", repository.ErrForbidden)
	}
	// scoped fetch first so cross-scope updates surface as not found
	if _, err := s.leases.Get(ctx, id, scope); err != nil {
		return nil, err
	}
	return s.leases.Update(ctx, id, req)
}

// Delete ends a lease and frees its unit
func (s *LeaseService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) error {
	if scope.Role == models.RoleTenant {
		return fmt.Errorf("tenants cannot delete leases: %w", repository.ErrForbidden)
	}
	lease, err := s.leases.Get(ctx, id, scope)
	if err != nil {
		return err
	}
	return s.leases.Delete(ctx, lease.ID, lease.UnitID)
}

// GetStats summarizes lease and payment activity for the caller's scope
func (s *LeaseService) GetStats(ctx context.Context, scope models.Scope) (*models.LeaseStats, error) {
	leases, err := s.leases.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcomingCutoff := now.AddDate(0, 0, 7)

	stats := &models.LeaseStats{TotalLeases: len(leases)}
	for _, lease := range leases {
		if lease.Status == models.LeaseStatusActive {
			stats.ActiveLeases++
			stats.TotalRentDue += lease.RentAmount
		} else {
			stats.InactiveLeases++
		}
		for _, payment := range lease.Payments {
			switch {
			case payment.Status == models.PaymentStatusOverdue:
				stats.OverduePayments++
			case payment.Status == models.PaymentStatusPending && payment.DueDate.After(now) && payment.DueDate.Before(upcomingCutoff):
				stats.UpcomingPayments++
			}
		}
	}
	return stats, nil
}
