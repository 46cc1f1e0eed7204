package service

import (
	"context"
	"testing"

	"netadmin/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	manager := seedRole(t, db, "Manager")
	seedRole(t, db, "Engineer")
	seedUser(t, db, "Jane", "jane@x.com", "Secret123!", &manager)
	seedUser(t, db, "Bob", "bob@x.com", "Secret123!", nil)

	sites := []model.RemoteSite{
		{Name: "Alfamart Bekasi Timur", SiteType: model.SiteTypeAlfamart, Region: "Jawa Barat", City: "Bekasi", TotalConnections: 24, Active: true},
		{Name: "Lawson Shibuya", SiteType: model.SiteTypeLawson, Region: "Kanto", City: "Tokyo", TotalConnections: 8, Active: true},
	}
	for i := range sites {
		require.NoError(t, db.Create(&sites[i]).Error)
	}

	customers := []model.Customer{
		{Name: "Jane Smith", PackageName: "FTTH 50Mbps", MonthlyFee: decimal.RequireFromString("350000.00"), Status: model.CustomerStatusActive},
		{Name: "Janet Lee", PackageName: "FTTH 100Mbps", MonthlyFee: decimal.RequireFromString("500000.00"), Status: model.CustomerStatusActive},
		{Name: "Bob Brown", PackageName: "FTTH 50Mbps", MonthlyFee: decimal.RequireFromString("350000.00"), Status: model.CustomerStatusSuspended},
	}
	for i := range customers {
		require.NoError(t, db.Create(&customers[i]).Error)
	}

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalRoles)
	assert.Equal(t, int64(2), stats.TotalSites)
	assert.Equal(t, int64(3), stats.TotalCustomers)
	assert.Equal(t, int64(2), stats.ActiveCustomers)
	assert.Equal(t, int64(32), stats.TotalConnections)
	// Suspended subscriptions contribute nothing to recurring revenue.
	assert.True(t, stats.MonthlyRevenue.Equal(decimal.RequireFromString("850000.00")),
		"got %s", stats.MonthlyRevenue)
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	stats, err := NewDashboardService(db).GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.ActiveCustomers)
	// The sums fall back to zero rather than NULL on empty tables.
	assert.Zero(t, stats.TotalConnections)
	assert.True(t, stats.MonthlyRevenue.IsZero())
}
