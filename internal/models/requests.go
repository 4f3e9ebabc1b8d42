package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth

type RegisterRequest struct {
	FirstName        string  `json:"first_name" binding:"required"`
	LastName         string  `json:"last_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	WhatsappNumber   *string `json:"whatsapp_number,omitempty"`
	Password         string  `json:"password" binding:"required,min=8"`
	PropertyName     *string `json:"property_name,omitempty"`
	PropertyLocation *string `json:"property_location,omitempty"`
	PropertyType     *string `json:"property_type,omitempty"`
}

// LoginRequest carries the WhatsApp number (or email typed into the same
// field) plus an optional preferred role for multi-profile identities.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       *Role  `json:"role,omitempty"`
}

type SwitchRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type AuthUser struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	WhatsappNumber *string   `json:"whatsapp_number,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           Role      `json:"role"`
	AvailableRoles []Role    `json:"available_roles"`
	IsFirstLogin   bool      `json:"is_first_login"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}

// UserContext is a profile plus every sibling profile sharing its identifier.
type UserContext struct {
	User           *User  `json:"user"`
	AvailableRoles []Role `json:"available_roles"`
}

// Users

type CreateUserRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	WhatsappNumber *string `json:"whatsapp_number,omitempty"`
	Password       string  `json:"password" binding:"required,min=8"`
	Role           Role    `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	WhatsappNumber *string `json:"whatsapp_number,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// Properties

type CreatePropertyRequest struct {
	Name        string     `json:"name" binding:"required"`
	Address     string     `json:"address" binding:"required"`
	Description *string    `json:"description,omitempty"`
	TotalUnits  int        `json:"total_units" binding:"required,min=1"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
}

type UpdatePropertyRequest struct {
	Name        *string         `json:"name,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *PropertyStatus `json:"status,omitempty"`
	ManagerID   *uuid.UUID      `json:"manager_id,omitempty"`
}

type CreateUnitRequest struct {
	UnitNumber  string  `json:"unit_number" binding:"required"`
	RentAmount  float64 `json:"rent_amount" binding:"required,gt=0"`
	Description *string `json:"description,omitempty"`
}

// Leases

type CreateLeaseRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	UnitID         uuid.UUID `json:"unit_id" binding:"required"`
	LeaseStartDate time.Time `json:"lease_start_date" binding:"required"`
	LeaseEndDate   time.Time `json:"lease_end_date" binding:"required"`
	RentAmount     float64   `json:"rent_amount" binding:"required,gt=0"`
	PaymentDueDay  int       `json:"payment_due_day,omitempty"`
}

type UpdateLeaseRequest struct {
	LeaseStartDate *time.Time   `json:"lease_start_date,omitempty"`
	LeaseEndDate   *time.Time   `json:"lease_end_date,omitempty"`
	RentAmount     *float64     `json:"rent_amount,omitempty"`
	PaymentDueDay  *int         `json:"payment_due_day,omitempty"`
	Status         *LeaseStatus `json:"status,omitempty"`
}

// Payments

type CreatePaymentRequest struct {
	LeaseID uuid.UUID `json:"lease_id" binding:"required"`
	Amount  float64   `json:"amount" binding:"required,gt=0"`
	DueDate time.Time `json:"due_date" binding:"required"`
}

type UpdatePaymentRequest struct {
	Amount  *float64       `json:"amount,omitempty"`
	DueDate *time.Time     `json:"due_date,omitempty"`
	Status  *PaymentStatus `json:"status,omitempty"`
	Notes   *string        `json:"notes,omitempty"`
}

type ProcessPaymentRequest struct {
	Amount        *float64 `json:"amount,omitempty"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	TransactionID *string  `json:"transaction_id,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Notifications

type SendReminderRequest struct {
	TenantIDs []uuid.UUID `json:"tenant_ids" binding:"required,min=1"`
	Message   string      `json:"message" binding:"required"`
}

type SendNotificationRequest struct {
	Recipients []uuid.UUID `json:"recipients" binding:"required,min=1"`
	Subject    *string     `json:"subject,omitempty"`
	Message    string      `json:"message" binding:"required"`
}

type UpdateRemindersRequest struct {
	Schedules []ReminderSchedule `json:"schedules" binding:"required"`
}
