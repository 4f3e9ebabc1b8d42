package models

import "github.com/google/uuid"

type PropertyStats struct {
	TotalProperties int     `json:"total_properties"`
	TotalUnits      int     `json:"total_units"`
	OccupiedUnits   int     `json:"occupied_units"`
	VacantUnits     int     `json:"vacant_units"`
	TotalRevenue    float64 `json:"total_revenue"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

type LeaseStats struct {
	TotalLeases      int     `json:"total_leases"`
	ActiveLeases     int     `json:"active_leases"`
	InactiveLeases   int     `json:"inactive_leases"`
	OverduePayments  int     `json:"overdue_payments"`
	UpcomingPayments int     `json:"upcoming_payments"`
	TotalRentDue     float64 `json:"total_rent_due"`
}

type PaymentStats struct {
	TotalPayments     int     `json:"total_payments"`
	PaidPayments      int     `json:"paid_payments"`
	PendingPayments   int     `json:"pending_payments"`
	OverduePayments   int     `json:"overdue_payments"`
	PartialPayments   int     `json:"partial_payments"`
	TotalRevenue      float64 `json:"total_revenue"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

type PaymentAnalytics struct {
	TotalPayments     int     `json:"total_payments"`
	PaidPayments      int     `json:"paid_payments"`
	PendingPayments   int     `json:"pending_payments"`
	OverduePayments   int     `json:"overdue_payments"`
	PartialPayments   int     `json:"partial_payments"`
	CollectedRevenue  float64 `json:"collected_revenue"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	CollectionRate    float64 `json:"collection_rate"`
}

type DashboardStats struct {
	TotalProperties int     `json:"total_properties"`
	TotalUnits      int     `json:"total_units"`
	OccupiedUnits   int     `json:"occupied_units"`
	VacantUnits     int     `json:"vacant_units"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	TotalRevenue    float64 `json:"total_revenue"`
	PaymentAnalytics
}

type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type OccupancyTrend struct {
	Month         string  `json:"month"`
	OccupancyRate float64 `json:"occupancy_rate"`
	TotalUnits    int     `json:"total_units"`
	OccupiedUnits int     `json:"occupied_units"`
}

type PropertyPerformance struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	TotalUnits       int       `json:"total_units"`
	OccupiedUnits    int       `json:"occupied_units"`
	OccupancyRate    float64   `json:"occupancy_rate"`
	MonthlyRevenue   float64   `json:"monthly_revenue"`
	CollectedRevenue float64   `json:"collected_revenue"`
	Performance      string    `json:"performance"`
}
