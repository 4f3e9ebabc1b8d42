package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

type LeaseHandler struct {
	leases *services.LeaseService
}

func NewLeaseHandler(leases *services.LeaseService) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

// Create places a tenant in a unit
// POST /api/v1/leases
func (h *LeaseHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leases.Create(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lease)
}

// List returns the caller's leases
// GET /api/v1/leases
func (h *LeaseHandler) List(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	leases, err := h.leases.List(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leases)
}

// GetStats summarizes lease and payment activity
// GET /api/v1/leases/stats
func (h *LeaseHandler) GetStats(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	stats, err := h.leases.GetStats(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListByStatus filters leases by status
// GET /api/v1/leases/by-status?status=active
func (h *LeaseHandler) ListByStatus(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	status := models.LeaseStatus(c.Query("status"))
	switch status {
	case models.LeaseStatusActive, models.LeaseStatusTerminated, models.LeaseStatusExpired:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease status"})
		return
	}

	leases, err := h.leases.ListByStatus(c.Request.Context(), principal.Scope(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leases)
}

// Get returns one lease with its payments
// GET /api/v1/leases/:id
func (h *LeaseHandler) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lease, err := h.leases.Get(c.Request.Context(), id, principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

// Update patches a lease
// PATCH /api/v1/leases/:id
func (h *LeaseHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leases.Update(c.Request.Context(), id, principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lease)
}

// Delete ends a lease and frees its unit
// DELETE /api/v1/leases/:id
func (h *LeaseHandler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.leases.Delete(c.Request.Context(), id, principal.Scope()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lease deleted"})
}
