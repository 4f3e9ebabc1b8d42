package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

// Store interfaces implemented by internal/repository. Services depend on
// these so tests can substitute fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error)
	FindProfilesByIdentifier(ctx context.Context, identifier string) ([]models.User, error)
	FindProfilesByEmail(ctx context.Context, email string) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	FindManagers(ctx context.Context, ownerID uuid.UUID) ([]models.User, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error)
	UpdatePasswordForIdentity(ctx context.Context, email string, whatsappNumber *string, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetOwner(ctx context.Context, managerID, ownerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEmailAndRole(ctx context.Context, email string, role models.Role) error
}

type PropertyStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *models.CreatePropertyRequest) (*models.Property, error)
	List(ctx context.Context, scope models.Scope) ([]models.Property, error)
	Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Property, error)
	Update(ctx context.Context, id uuid.UUID, scope models.Scope, req *models.UpdatePropertyRequest) (*models.Property, error)
	SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	CreateUnit(ctx context.Context, propertyID uuid.UUID, req *models.CreateUnitRequest) (*models.Unit, error)
	ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error)
	ListVacantUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error)
	GetUnit(ctx context.Context, unitID uuid.UUID, scope models.Scope) (*models.Unit, error)
}

type LeaseStore interface {
	Create(ctx context.Context, req *models.CreateLeaseRequest) (*models.Lease, error)
	List(ctx context.Context, scope models.Scope) ([]models.Lease, error)
	ListByStatus(ctx context.Context, status models.LeaseStatus, scope models.Scope) ([]models.Lease, error)
	Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Lease, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateLeaseRequest) (*models.Lease, error)
	Delete(ctx context.Context, id uuid.UUID, unitID uuid.UUID) error
}

type PaymentStore interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *models.CreatePaymentRequest) (*models.Payment, error)
	List(ctx context.Context, scope models.Scope) ([]models.Payment, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus, scope models.Scope) ([]models.Payment, error)
	ListByDateRange(ctx context.Context, start, end time.Time, scope models.Scope) ([]models.Payment, error)
	Get(ctx context.Context, id uuid.UUID, scope models.Scope) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdatePaymentRequest) (*models.Payment, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string, transactionID, notes *string) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsForLeaseInRange(ctx context.Context, leaseID uuid.UUID, start, end time.Time) (bool, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus) error
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Notification, error)
}

// RolesCache is the Redis-backed cache of an identity's available roles plus
// the job queues. A nil RolesCache degrades to straight database reads.
type RolesCache interface {
	GetAvailableRoles(ctx context.Context, identifier string) (string, error)
	SetAvailableRoles(ctx context.Context, identifier, roles string) error
	InvalidateAvailableRoles(ctx context.Context, identifier string) error
	Enqueue(ctx context.Context, queue string, payload []byte) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}
