package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create records a payment against a lease
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// List returns the caller's payments
// GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	payments, err := h.payments.List(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetStats summarizes payment counts and revenue
// GET /api/v1/payments/stats
func (h *PaymentHandler) GetStats(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	stats, err := h.payments.GetStats(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListByStatus filters payments by status
// GET /api/v1/payments/by-status?status=pending
func (h *PaymentHandler) ListByStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	status := models.PaymentStatus(c.Query("status"))
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid,
		models.PaymentStatusOverdue, models.PaymentStatusPartial:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
		return
	}

	payments, err := h.payments.ListByStatus(c.Request.Context(), principal.Scope(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListByDateRange returns payments due inside a window
// GET /api/v1/payments/by-date-range?start=2026-01-01&end=2026-01-31
func (h *PaymentHandler) ListByDateRange(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected YYYY-MM-DD"})
		return
	}

	payments, err := h.payments.ListByDateRange(c.Request.Context(), principal.Scope(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GenerateMonthly creates this month's pending payments for active leases
// POST /api/v1/payments/generate-monthly
func (h *PaymentHandler) GenerateMonthly(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	created, err := h.payments.GenerateMonthly(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"generated": created})
}

// MarkOverdue flips past-due pending payments to overdue
// POST /api/v1/payments/mark-overdue
func (h *PaymentHandler) MarkOverdue(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	changed, err := h.payments.MarkOverdue(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": changed})
}

// Get returns one payment
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.Get(c.Request.Context(), id, principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Update patches a payment
// PATCH /api/v1/payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.Update(c.Request.Context(), id, principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Process settles a payment
// POST /api/v1/payments/:id/process
func (h *PaymentHandler) Process(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.Process(c.Request.Context(), id, principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Delete removes a payment record. Owner only.
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id, principal.Scope()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}
