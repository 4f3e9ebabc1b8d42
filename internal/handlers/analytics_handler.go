package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard combines occupancy and collection figures
// GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	stats, err := h.analytics.GetDashboard(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Revenue returns collected revenue by month
// GET /api/v1/analytics/revenue
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	points, err := h.analytics.GetRevenueTrend(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Payments returns collection analytics
// GET /api/v1/analytics/payments
func (h *AnalyticsHandler) Payments(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	analytics, err := h.analytics.GetPaymentAnalytics(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// OccupancyTrends returns per-month occupancy reconstructed from leases
// GET /api/v1/analytics/occupancy-trends
func (h *AnalyticsHandler) OccupancyTrends(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	trend, err := h.analytics.GetOccupancyTrend(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// PropertyPerformance ranks properties by occupancy and collections
// GET /api/v1/analytics/property-performance
func (h *AnalyticsHandler) PropertyPerformance(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	performance, err := h.analytics.GetPropertyPerformance(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, performance)
}
