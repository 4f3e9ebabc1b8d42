package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

type PropertyService struct {
	properties PropertyStore
}

func NewPropertyService(properties PropertyStore) *PropertyService {
	return &PropertyService{properties: properties}
}

// Create registers a property under the calling owner
func (s *PropertyService) Create(ctx context.Context, scope models.Scope, req *models.CreatePropertyRequest) (*models.Property, error) {
	if scope.Role != models.RoleOwner {
		return nil, fmt.Errorf("only owners can create properties: %w", repository.ErrForbidden)
	}
	return s.properties.Create(ctx, scope.ProfileID, req)
}

// List returns the caller's properties
func (s *PropertyService) List(ctx context.Context, scope models.Scope) ([]models.Property, error) {
	return s.properties.List(ctx, scope)
}

// Get returns one property in the caller's scope
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Property, error) {
	return s.properties.Get(ctx, id, scope)
}

// Update patches a property. Managers cannot reassign the property's manager.
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdatePropertyRequest) (*models.Property, error) {
	if scope.Role == models.RoleManager && req.ManagerID != nil {
		return nil, fmt.Errorf("managers cannot change property manager: %w", repository.ErrForbidden)
	}
	return s.properties.Update(ctx, id, scope, req)
}

// Delete removes a property. Owner only.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) error {
	if scope.Role != models.RoleOwner {
		return fmt.Errorf("only owners can delete properties: %w", repository.ErrForbidden)
	}
	return s.properties.Delete(ctx, id, scope.ProfileID)
}

// CreateUnit adds a unit to a property in scope
func (s *PropertyService) CreateUnit(ctx context.Context, propertyID uuid.UUID, scope models.Scope, req *models.CreateUnitRequest) (*models.Unit, error) {
	if _, err := s.properties.Get(ctx, propertyID, scope); err != nil {
		return nil, err
	}
	return s.properties.CreateUnit(ctx, propertyID, req)
}

// GetUnits lists a property's units after a scope check
func (s *PropertyService) GetUnits(ctx context.Context, propertyID uuid.UUID, scope models.Scope) ([]models.Unit, error) {
	if _, err := s.properties.Get(ctx, propertyID, scope); err != nil {
		return nil, err
	}
	return s.properties.ListUnits(ctx, propertyID)
}

// GetVacantUnits lists a property's unoccupied units after a scope check
func (s *PropertyService) GetVacantUnits(ctx context.Context, propertyID uuid.UUID, scope models.Scope) ([]models.Unit, error) {
	if _, err := s.properties.Get(ctx, propertyID, scope); err != nil {
		return nil, err
	}
	return s.properties.ListVacantUnits(ctx, propertyID)
}

// GetStats aggregates unit occupancy and rent over the caller's portfolio
func (s *PropertyService) GetStats(ctx context.Context, scope models.Scope) (*models.PropertyStats, error) {
	properties, err := s.properties.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &models.PropertyStats{TotalProperties: len(properties)}
	for _, property := range properties {
		stats.TotalUnits += len(property.Units)
		for _, unit := range property.Units {
			if unit.IsOccupied {
				stats.OccupiedUnits++
				stats.TotalRevenue += unit.RentAmount
			} else {
				stats.VacantUnits++
			}
		}
	}
	if stats.TotalUnits > 0 {
		stats.OccupancyRate = roundRate(float64(stats.OccupiedUnits) / float64(stats.TotalUnits) * 100)
	}
	return stats, nil
}

// roundRate keeps percentages to two decimals
func roundRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
