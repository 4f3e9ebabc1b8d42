package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/cache"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/repository"
)

const (
	reminderScheduleKey = "notifications:schedule:"
	scheduleCacheTTL    = 0 // no expiry, schedules live until replaced
)

// ReminderJob is the payload pushed onto the notification queue for the
// delivery worker.
type ReminderJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

var defaultSchedules = []models.ReminderSchedule{
	{Days: 7, Message: "Your rent is due in 7 days.", Active: true},
	{Days: 3, Message: "Your rent is due in 3 days.", Active: true},
	{Days: 0, Message: "Your rent is due today.", Active: true},
	{Days: -3, Message: "Your rent is 3 days overdue.", Active: true},
}

// NotificationService records outbound messages and hands them to the
// delivery worker through the queue. Actual channel delivery (WhatsApp,
// email) is the worker's problem.
type NotificationService struct {
	notifications NotificationStore
	users         UserStore
	cache         RolesCache
}

func NewNotificationService(notifications NotificationStore, users UserStore, cache RolesCache) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, cache: cache}
}

// SendReminder queues a payment reminder to the given tenants
func (s *NotificationService) SendReminder(ctx context.Context, scope models.Scope, req *models.SendReminderRequest) (*models.Notification, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot send reminders: %w", repository.ErrForbidden)
	}
	return s.dispatch(ctx, scope, &models.Notification{
		Kind:       models.NotificationKindPaymentReminder,
		Recipients: req.TenantIDs,
		Message:    req.Message,
	})
}

// SendNotification queues a free-form message to the given recipients
func (s *NotificationService) SendNotification(ctx context.Context, scope models.Scope, req *models.SendNotificationRequest) (*models.Notification, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot send notifications: %w", repository.ErrForbidden)
	}
	return s.dispatch(ctx, scope, &models.Notification{
		Kind:       models.NotificationKindCustom,
		Recipients: req.Recipients,
		Subject:    req.Subject,
		Message:    req.Message,
	})
}

// History lists the caller's sent notifications
func (s *NotificationService) History(ctx context.Context, scope models.Scope) ([]models.Notification, error) {
	return s.notifications.ListBySender(ctx, scope.ProfileID)
}

// GetReminderSchedules returns the caller's reminder plan, falling back to
// the default ladder when none was saved
func (s *NotificationService) GetReminderSchedules(ctx context.Context, scope models.Scope) ([]models.ReminderSchedule, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, reminderScheduleKey+scope.ProfileID.String())
		if err == nil && raw != "" {
			var schedules []models.ReminderSchedule
			if err := json.Unmarshal([]byte(raw), &schedules); err == nil {
				return schedules, nil
			}
		}
	}
	return defaultSchedules, nil
}

// UpdateReminderSchedules replaces the caller's reminder plan
func (s *NotificationService) UpdateReminderSchedules(ctx context.Context, scope models.Scope, req *models.UpdateRemindersRequest) ([]models.ReminderSchedule, error) {
	if scope.Role == models.RoleTenant {
		return nil, fmt.Errorf("tenants cannot configure reminders: %w", repository.ErrForbidden)
	}
	if s.cache == nil {
		return nil, fmt.Errorf("reminder schedules unavailable: %w", repository.ErrInvalidInput)
	}
	raw, err := json.Marshal(req.Schedules)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, reminderScheduleKey+scope.ProfileID.String(), raw, scheduleCacheTTL); err != nil {
		return nil, err
	}
	return req.Schedules, nil
}

// MarkStatus records a delivery outcome reported by the worker
func (s *NotificationService) MarkStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus) error {
	return s.notifications.MarkStatus(ctx, id, status)
}

// Get loads a notification by id for the delivery worker
func (s *NotificationService) Get(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return s.notifications.GetByID(ctx, id)
}

func (s *NotificationService) dispatch(ctx context.Context, scope models.Scope, n *models.Notification) (*models.Notification, error) {
	// every recipient must be a real profile
	for _, recipient := range n.Recipients {
		if _, err := s.users.GetByID(ctx, recipient); err != nil {
			return nil, fmt.Errorf("unknown recipient %s: %w", recipient, repository.ErrInvalidInput)
		}
	}

	n.SentBy = scope.ProfileID
	n.Status = models.NotificationStatusQueued
	created, err := s.notifications.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(ReminderJob{NotificationID: created.ID})
		if err != nil {
			return nil, err
		}
		if err := s.cache.Enqueue(ctx, cache.ReminderQueue, payload); err != nil {
			// keep the record; the sweeper can retry queued rows later
			slog.Warn("failed to enqueue notification", "notification_id", created.ID, "error", err)
			return created, nil
		}
	}
	slog.Info("notification queued",
		"notification_id", created.ID,
		"kind", created.Kind,
		"recipients", len(created.Recipients),
	)
	return created, nil
}
