package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const trendMonths = 12

// AnalyticsService derives dashboard figures from the portfolio. Everything
// is computed from scoped reads so callers only ever see their own numbers.
type AnalyticsService struct {
	properties PropertyStore
	leases     LeaseStore
	payments   PaymentStore
}

func NewAnalyticsService(properties PropertyStore, leases LeaseStore, payments PaymentStore) *AnalyticsService {
	return &AnalyticsService{properties: properties, leases: leases, payments: payments}
}

// GetDashboard combines portfolio occupancy with payment collection figures
func (s *AnalyticsService) GetDashboard(ctx context.Context, scope models.Scope) (*models.DashboardStats, error) {
	properties, err := s.properties.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{TotalProperties: len(properties)}
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
	stats.PaymentAnalytics = paymentAnalytics(payments)
	return stats, nil
}

// GetPaymentAnalytics reports collection figures for the caller's scope
func (s *AnalyticsService) GetPaymentAnalytics(ctx context.Context, scope models.Scope) (*models.PaymentAnalytics, error) {
	payments, err := s.payments.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	analytics := paymentAnalytics(payments)
	return &analytics, nil
}

// GetRevenueTrend buckets collected payments by settlement month over the
// last twelve months, oldest first
func (s *AnalyticsService) GetRevenueTrend(ctx context.Context, scope models.Scope) ([]models.RevenuePoint, error) {
	now := time.Now()
	start := monthStart(now).AddDate(0, -(trendMonths - 1), 0)

	payments, err := s.payments.ListByDateRange(ctx, start, now, scope)
	if err != nil {
		return nil, err
	}

	// partial settlements count: anything with a settlement date brought
	// money in that month
	byMonth := make(map[string]float64, trendMonths)
	for _, payment := range payments {
		if payment.PaidDate == nil {
			continue
		}
		byMonth[payment.PaidDate.Format("2006-01")] += payment.Amount
	}

	points := make([]models.RevenuePoint, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		points = append(points, models.RevenuePoint{Month: month, Revenue: byMonth[month]})
	}
	return points, nil
}

// GetOccupancyTrend reconstructs per-month occupancy from lease periods:
// a unit counts as occupied in a month when a lease covered any part of it
func (s *AnalyticsService) GetOccupancyTrend(ctx context.Context, scope models.Scope) ([]models.OccupancyTrend, error) {
	properties, err := s.properties.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	leases, err := s.leases.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	totalUnits := 0
	for _, property := range properties {
		totalUnits += len(property.Units)
	}

	now := time.Now()
	trend := make([]models.OccupancyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		from := monthStart(now).AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)

		occupied := make(map[uuid.UUID]struct{})
		for _, lease := range leases {
			if lease.LeaseStartDate.Before(to) && lease.LeaseEndDate.After(from) {
				occupied[lease.UnitID] = struct{}{}
			}
		}

		point := models.OccupancyTrend{
			Month:         from.Format("2006-01"),
			TotalUnits:    totalUnits,
			OccupiedUnits: len(occupied),
		}
		if totalUnits > 0 {
			point.OccupancyRate = roundRate(float64(len(occupied)) / float64(totalUnits) * 100)
		}
		trend = append(trend, point)
	}
	return trend, nil
}

// GetPropertyPerformance ranks each property by occupancy and collections
func (s *AnalyticsService) GetPropertyPerformance(ctx context.Context, scope models.Scope) ([]models.PropertyPerformance, error) {
	properties, err := s.properties.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	leases, err := s.leases.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	unitProperty := make(map[uuid.UUID]uuid.UUID)
	for _, property := range properties {
		for _, unit := range property.Units {
			unitProperty[unit.ID] = property.ID
		}
	}

	collected := make(map[uuid.UUID]float64)
	for _, lease := range leases {
		propertyID, ok := unitProperty[lease.UnitID]
		if !ok {
			continue
		}
		for _, payment := range lease.Payments {
			if payment.Status == models.PaymentStatusPaid {
				collected[propertyID] += payment.Amount
			}
		}
	}

	performance := make([]models.PropertyPerformance, 0, len(properties))
	for _, property := range properties {
		entry := models.PropertyPerformance{
			ID:               property.ID,
			Name:             property.Name,
			Address:          property.Address,
			TotalUnits:       len(property.Units),
			CollectedRevenue: collected[property.ID],
		}
		for _, unit := range property.Units {
			if unit.IsOccupied {
				entry.OccupiedUnits++
				entry.MonthlyRevenue += unit.RentAmount
			}
		}
		if entry.TotalUnits > 0 {
			entry.OccupancyRate = roundRate(float64(entry.OccupiedUnits) / float64(entry.TotalUnits) * 100)
		}
		entry.Performance = performanceBand(entry.OccupancyRate)
		performance = append(performance, entry)
	}
	return performance, nil
}

func paymentAnalytics(payments []models.Payment) models.PaymentAnalytics {
	analytics := models.PaymentAnalytics{TotalPayments: len(payments)}
	for _, payment := range payments {
		switch payment.Status {
		case models.PaymentStatusPaid:
			analytics.PaidPayments++
			analytics.CollectedRevenue += payment.Amount
		case models.PaymentStatusPending:
			analytics.PendingPayments++
			analytics.OutstandingAmount += payment.Amount
		case models.PaymentStatusOverdue:
			analytics.OverduePayments++
			analytics.OutstandingAmount += payment.Amount
		case models.PaymentStatusPartial:
			analytics.PartialPayments++
			analytics.OutstandingAmount += payment.Amount
		}
	}
	if total := analytics.CollectedRevenue + analytics.OutstandingAmount; total > 0 {
		analytics.CollectionRate = roundRate(analytics.CollectedRevenue / total * 100)
	}
	return analytics
}

func performanceBand(occupancyRate float64) string {
	switch {
	case occupancyRate >= 90:
		return "excellent"
	case occupancyRate >= 70:
		return "good"
	case occupancyRate >= 50:
		return "fair"
	default:
		return "poor"
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
