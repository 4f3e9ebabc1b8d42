package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

func TestCreatePropertyOwnerOnly(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	ownerID := uuid.New()
	req := &models.CreatePropertyRequest{Name: "Akwa Towers", Address: "Douala", TotalUnits: 10}

	property, err := svc.Create(context.Background(), models.Scope{ProfileID: ownerID, Role: models.RoleOwner}, req)
	require.NoError(t, err)
	assert.Equal(t, ownerID, property.OwnerID)
	assert.Equal(t, models.PropertyStatusActive, property.Status)

	_, err = svc.Create(context.Background(), models.Scope{ProfileID: uuid.New(), Role: models.RoleManager}, req)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestGetPropertyScoping(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	ownerID := uuid.New()
	managerID := uuid.New()
	property, err := svc.Create(context.Background(), models.Scope{ProfileID: ownerID, Role: models.RoleOwner}, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 10, ManagerID: &managerID,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), property.ID, models.Scope{ProfileID: ownerID, Role: models.RoleOwner})
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), property.ID, models.Scope{ProfileID: managerID, Role: models.RoleManager})
	assert.NoError(t, err)

	// a different owner's scope conflates to not found
	_, err = svc.Get(context.Background(), property.ID, models.Scope{ProfileID: uuid.New(), Role: models.RoleOwner})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestManagerCannotReassignManager(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	ownerID := uuid.New()
	managerID := uuid.New()
	property, err := svc.Create(context.Background(), models.Scope{ProfileID: ownerID, Role: models.RoleOwner}, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 10, ManagerID: &managerID,
	})
	require.NoError(t, err)

	other := uuid.New()
	_, err = svc.Update(context.Background(), property.ID, models.Scope{ProfileID: managerID, Role: models.RoleManager}, &models.UpdatePropertyRequest{
		ManagerID: &other,
	})
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// same patch from the owner goes through
	updated, err := svc.Update(context.Background(), property.ID, models.Scope{ProfileID: ownerID, Role: models.RoleOwner}, &models.UpdatePropertyRequest{
		ManagerID: &other,
	})
	require.NoError(t, err)
	assert.Equal(t, other, *updated.ManagerID)
}

func TestDeletePropertyOwnerOnly(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	ownerID := uuid.New()
	managerID := uuid.New()
	property, err := svc.Create(context.Background(), models.Scope{ProfileID: ownerID, Role: models.RoleOwner}, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 10, ManagerID: &managerID,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), property.ID, models.Scope{ProfileID: managerID, Role: models.RoleManager})
	assert.ErrorIs(t, err, repository.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), property.ID, models.Scope{ProfileID: ownerID, Role: models.RoleOwner}))
	_, err = svc.Get(context.Background(), property.ID, models.Scope{ProfileID: ownerID, Role: models.RoleOwner})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVacantUnitsExcludeOccupied(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	scope := models.Scope{ProfileID: uuid.New(), Role: models.RoleOwner}
	property, err := svc.Create(context.Background(), scope, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 2,
	})
	require.NoError(t, err)

	occupied, err := svc.CreateUnit(context.Background(), property.ID, scope, &models.CreateUnitRequest{UnitNumber: "A1", RentAmount: 50000})
	require.NoError(t, err)
	store.units[occupied.ID].IsOccupied = true

	vacant, err := svc.CreateUnit(context.Background(), property.ID, scope, &models.CreateUnitRequest{UnitNumber: "A2", RentAmount: 50000})
	require.NoError(t, err)

	units, err := svc.GetVacantUnits(context.Background(), property.ID, scope)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, vacant.ID, units[0].ID)
}

func TestCreateUnitOutOfScopeNotFound(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	scope := models.Scope{ProfileID: uuid.New(), Role: models.RoleOwner}
	property, err := svc.Create(context.Background(), scope, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 2,
	})
	require.NoError(t, err)

	stranger := models.Scope{ProfileID: uuid.New(), Role: models.RoleOwner}
	_, err = svc.CreateUnit(context.Background(), property.ID, stranger, &models.CreateUnitRequest{UnitNumber: "A1", RentAmount: 50000})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPropertyStatsOccupancyRate(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store)

	scope := models.Scope{ProfileID: uuid.New(), Role: models.RoleOwner}
	property, err := svc.Create(context.Background(), scope, &models.CreatePropertyRequest{
		Name: "Akwa Towers", Address: "Douala", TotalUnits: 3,
	})
	require.NoError(t, err)

	for i, occupied := range []bool{true, true, false} {
		unit, err := svc.CreateUnit(context.Background(), property.ID, scope, &models.CreateUnitRequest{
			UnitNumber: string(rune('A'+i)) + "1",
			RentAmount: 50000,
		})
		require.NoError(t, err)
		store.units[unit.ID].IsOccupied = occupied
	}

	stats, err := svc.GetStats(context.Background(), scope)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalProperties)
	assert.Equal(t, 3, stats.TotalUnits)
	assert.Equal(t, 2, stats.OccupiedUnits)
	assert.Equal(t, 1, stats.VacantUnits)
	assert.InDelta(t, 66.67, stats.OccupancyRate, 0.01)
	assert.InDelta(t, 100000, stats.TotalRevenue, 0.01)
}
