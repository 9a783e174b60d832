package models

import (
	"context"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/bsm/redislock"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardCacheKey = "dashboard:snapshot"
	dashboardLockKey  = "dashboard:recompute"
	recentRecordLimit = 5
)

type DashboardOverview struct {
	TotalUsers     int64 `json:"total_users"`
	TotalSuppliers int64 `json:"total_suppliers"`
	TotalCustomers int64 `json:"total_customers"`
}

type DashboardData struct {
	Procurement             *ProcurementStats   `json:"procurement"`
	Sales                   *SalesStats         `json:"sales"`
	Assets                  *AssetStats         `json:"assets"`
	Overview                DashboardOverview   `json:"overview"`
	RecentAssets            []*Asset            `json:"recent_assets"`
	RecentProcurementOrders []*ProcurementOrder `json:"recent_procurement_orders"`
	RecentSalesOrders       []*SalesOrder       `json:"recent_sales_orders"`
	GeneratedAt             time.Time           `json:"generated_at"`
}

// GetDashboardData returns the aggregated snapshot, serving from redis when a
// fresh copy exists. A recompute is guarded by a redis lock so concurrent
// requests after expiry do not all hit the database; losers of the lock race
// fall through to computing their own copy rather than waiting.
func GetDashboardData(ctx context.Context) (*DashboardData, error) {
	ttl := config.DashboardCacheTTL()

	if ttl > 0 {
		var cached DashboardData
		found, err := config.GetRedisObject(dashboardCacheKey, &cached)
		if err != nil {
			config.LogError(config.GetLogger(), "models", "GetDashboardData", "cache read", dashboardCacheKey, err)
		} else if found {
			return &cached, nil
		}
	}

	var lock *redislock.Lock
	if locker := config.GetRedisLock(); locker != nil && ttl > 0 {
		l, err := locker.Obtain(ctx, dashboardLockKey, 10*time.Second, nil)
		if err == nil {
			lock = l
			defer lock.Release(config.GetRedisContext())
		}
	}

	data, err := computeDashboardData(ctx)
	if err != nil {
		return nil, err
	}

	if ttl > 0 && lock != nil {
		if err := config.SetRedisObject(dashboardCacheKey, data, ttl); err != nil {
			config.LogError(config.GetLogger(), "models", "GetDashboardData", "cache write", dashboardCacheKey, err)
		}
	}
	return data, nil
}

func computeDashboardData(ctx context.Context) (*DashboardData, error) {
	data := DashboardData{GeneratedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := GetProcurementStats(gctx)
		if err != nil {
			return err
		}
		data.Procurement = stats
		return nil
	})
	g.Go(func() error {
		stats, err := GetSalesStats(gctx)
		if err != nil {
			return err
		}
		data.Sales = stats
		return nil
	})
	g.Go(func() error {
		stats, err := GetAssetStats(gctx)
		if err != nil {
			return err
		}
		data.Assets = stats
		return nil
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&User{}).Count(&data.Overview.TotalUsers).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&Supplier{}).Count(&data.Overview.TotalSuppliers).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&Customer{}).Count(&data.Overview.TotalCustomers).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Order("created_at DESC").
			Limit(recentRecordLimit).Find(&data.RecentAssets).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Preload("Supplier").Order("created_at DESC").
			Limit(recentRecordLimit).Find(&data.RecentProcurementOrders).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Preload("Customer").Order("created_at DESC").
			Limit(recentRecordLimit).Find(&data.RecentSalesOrders).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
