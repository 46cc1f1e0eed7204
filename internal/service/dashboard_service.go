package service

import (
	"context"

	"netadmin/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardStats are the headline numbers on the landing dashboard.
type DashboardStats struct {
	TotalUsers       int64           `json:"total_users"`
	TotalRoles       int64           `json:"total_roles"`
	TotalSites       int64           `json:"total_sites"`
	TotalCustomers   int64           `json:"total_customers"`
	ActiveCustomers  int64           `json:"active_customers"`
	TotalConnections int64           `json:"total_connections"`
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (DashboardStats, error)
}

type dashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{db: db}
}

// GetStats aggregates entity counts, remote connection totals, and the
// monthly recurring revenue of active FTTH subscriptions.
func (s *dashboardService) GetStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.Role{}).Count(&stats.TotalRoles).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.RemoteSite{}).Count(&stats.TotalSites).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.Customer{}).
		Where("status = ?", model.CustomerStatusActive).
		Count(&stats.ActiveCustomers).Error; err != nil {
		return stats, err
	}

	var connections struct {
		Value int64
	}
	if err := db.Model(&model.RemoteSite{}).
		Select("COALESCE(SUM(total_connections), 0) AS value").
		Scan(&connections).Error; err != nil {
		return stats, err
	}
	stats.TotalConnections = connections.Value

	var revenue struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Customer{}).
		Select("COALESCE(SUM(monthly_fee), 0) AS value").
		Where("status = ?", model.CustomerStatusActive).
		Scan(&revenue).Error; err != nil {
		return stats, err
	}
	stats.MonthlyRevenue = revenue.Value

	return stats, nil
}
