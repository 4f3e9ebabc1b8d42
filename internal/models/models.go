package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleTenant  Role = "tenant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleTenant:
		return true
	}
	return false
}

// Scope is the row-level authorization key derived from the authenticated
// profile. Repositories apply it to every domain query.
type Scope struct {
	ProfileID uuid.UUID
	Role      Role
}

// User is one role-profile of a person. A person with several roles has one
// row per role sharing the same email/WhatsApp identifier.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	WhatsappNumber *string    `json:"whatsapp_number,omitempty"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Role           Role       `json:"role"`
	IsActive       bool       `json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	// OwnerID points at the owner profile this manager or tenant answers to.
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	// Property metadata captured at registration, before any Property row exists.
	PropertyName     *string   `json:"property_name,omitempty"`
	PropertyLocation *string   `json:"property_location,omitempty"`
	PropertyType     *string   `json:"property_type,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Identifier returns the login identifier for this profile: WhatsApp number
// when present, email otherwise.
func (u *User) Identifier() string {
	if u.WhatsappNumber != nil && *u.WhatsappNumber != "" {
		return *u.WhatsappNumber
	}
	return u.Email
}

type PropertyStatus string

const (
	PropertyStatusActive      PropertyStatus = "active"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	PropertyStatusInactive    PropertyStatus = "inactive"
)

type Property struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Description *string        `json:"description,omitempty"`
	TotalUnits  int            `json:"total_units"`
	Status      PropertyStatus `json:"status"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	ManagerID   *uuid.UUID     `json:"manager_id,omitempty"`
	PhotoURL    *string        `json:"photo_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Units       []Unit         `json:"units,omitempty"`
}

type Unit struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	UnitNumber  string    `json:"unit_number"`
	RentAmount  float64   `json:"rent_amount"`
	IsOccupied  bool      `json:"is_occupied"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LeaseStatus string

const (
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusExpired    LeaseStatus = "expired"
)

// Lease binds a tenant profile to a unit for a period.
type Lease struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	UnitID         uuid.UUID   `json:"unit_id"`
	LeaseStartDate time.Time   `json:"lease_start_date"`
	LeaseEndDate   time.Time   `json:"lease_end_date"`
	RentAmount     float64     `json:"rent_amount"`
	PaymentDueDay  int         `json:"payment_due_day"`
	Status         LeaseStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Payments       []Payment   `json:"payments,omitempty"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
	PaymentStatusPartial PaymentStatus = "partial"
)

type Payment struct {
	ID            uuid.UUID     `json:"id"`
	TenantID      uuid.UUID     `json:"tenant_id"`
	LeaseID       uuid.UUID     `json:"lease_id"`
	Amount        float64       `json:"amount"`
	DueDate       time.Time     `json:"due_date"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type NotificationKind string

const (
	NotificationKindPaymentReminder NotificationKind = "payment_reminder"
	NotificationKindOverdueNotice   NotificationKind = "overdue_notice"
	NotificationKindCustom          NotificationKind = "custom"
)

type NotificationStatus string

const (
	NotificationStatusQueued    NotificationStatus = "queued"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
)

type Notification struct {
	ID         uuid.UUID          `json:"id"`
	Kind       NotificationKind   `json:"kind"`
	Recipients []uuid.UUID        `json:"recipients"`
	Subject    *string            `json:"subject,omitempty"`
	Message    string             `json:"message"`
	SentBy     uuid.UUID          `json:"sent_by"`
	Status     NotificationStatus `json:"status"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ReminderSchedule is one step of the automatic payment-reminder plan.
// Days counts down to the due date; negative means past due.
type ReminderSchedule struct {
	Days    int    `json:"days"`
	Message string `json:"message"`
	Active  bool   `json:"active"`
}
