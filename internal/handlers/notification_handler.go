package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// SendReminder queues a payment reminder for a set of tenants
// POST /api/v1/notifications/payment-reminder
func (h *NotificationHandler) SendReminder(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.SendReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notifications.SendReminder(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// SendCustom queues a free-form message
// POST /api/v1/notifications/custom
func (h *NotificationHandler) SendCustom(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notifications.SendNotification(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// History lists the caller's sent notifications
// GET /api/v1/notifications/history
func (h *NotificationHandler) History(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	notifications, err := h.notifications.History(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetReminders returns the caller's automatic reminder plan
// GET /api/v1/notifications/automatic-reminders
func (h *NotificationHandler) GetReminders(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	schedules, err := h.notifications.GetReminderSchedules(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// UpdateReminders replaces the caller's automatic reminder plan
// PATCH /api/v1/notifications/automatic-reminders
func (h *NotificationHandler) UpdateReminders(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.UpdateRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedules, err := h.notifications.UpdateReminderSchedules(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}
