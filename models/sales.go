package models

import (
	"context"
	"errors"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type SalesOrder struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	OrderNumber          string          `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	CustomerId           int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	Customer             *Customer       `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Items                []SalesItem     `gorm:"foreignKey:OrderId" json:"items"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Status               SalesStatus     `gorm:"type:enum('pending','confirmed','shipped','delivered','cancelled');not null;default:'pending'" json:"status"`
	OrderDate            time.Time       `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date"`
	SalespersonId        *int            `gorm:"index" json:"salesperson_id"`
	Salesperson          *User           `gorm:"foreignKey:SalespersonId" json:"salesperson,omitempty"`
	Notes                string          `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o SalesOrder) CustomerName() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Name
}

func (o SalesOrder) SalespersonName() string {
	if o.Salesperson == nil {
		return ""
	}
	return o.Salesperson.Name
}

type SalesItem struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrderId        int             `gorm:"index;not null" json:"order_id"`
	ProductName    string          `gorm:"size:100;not null" json:"product_name"`
	ProductCode    string          `gorm:"size:50;not null" json:"product_code"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	Specifications string          `gorm:"size:255" json:"specifications"`
}

type NewSalesOrder struct {
	CustomerId           int            `json:"customer_id" binding:"required"`
	Items                []NewOrderItem `json:"items" binding:"required"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	SalespersonId        *int           `json:"salesperson_id"`
	Notes                string         `json:"notes"`
}

type UpdateSalesOrderInput struct {
	CustomerId           *int           `json:"customer_id"`
	Items                []NewOrderItem `json:"items"`
	Status               *SalesStatus   `json:"status"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time     `json:"actual_delivery_date"`
	SalespersonId        *int           `json:"salesperson_id"`
	Notes                *string        `json:"notes"`
}

type SalesFilter struct {
	Status     *SalesStatus
	CustomerId *int
}

type SalesStats struct {
	TotalOrders     int64           `json:"total_orders"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PendingOrders   int64           `json:"pending_orders"`
	ConfirmedOrders int64           `json:"confirmed_orders"`
	ShippedOrders   int64           `json:"shipped_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
}

func mapSalesItems(items []NewOrderItem, lineTotals []decimal.Decimal) []SalesItem {
	mapped := make([]SalesItem, 0, len(items))
	for i, item := range items {
		mapped = append(mapped, SalesItem{
			ProductName:    item.ProductName,
			ProductCode:    item.ProductCode,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     lineTotals[i],
			Specifications: item.Specifications,
		})
	}
	return mapped
}

func (input *NewSalesOrder) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return utils.NewValidationError("customer not found")
	}
	if input.SalespersonId != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.SalespersonId); err != nil {
			return utils.NewValidationError("salesperson not found")
		}
	}
	return nil
}

// CreateSalesOrder assigns a generated order number, derives line and order
// totals and persists the order with its items in one transaction.
func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	lineTotals, orderTotal, err := CalculateOrderTotal(input.Items)
	if err != nil {
		return nil, err
	}

	order := SalesOrder{
		OrderNumber:          utils.GenerateBusinessCode("SO"),
		CustomerId:           input.CustomerId,
		Items:                mapSalesItems(input.Items, lineTotals),
		TotalAmount:          orderTotal,
		Status:               SalesStatusPending,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		SalespersonId:        input.SalespersonId,
		Notes:                input.Notes,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateSalesOrder", "create", order.OrderNumber, err)
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetSalesOrder(ctx, order.ID)
}

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	return utils.FetchModel[SalesOrder](ctx, id, "Items", "Customer", "Salesperson")
}

func GetSalesOrderByNumber(ctx context.Context, orderNumber string) (*SalesOrder, error) {
	db := config.GetDB()
	var order SalesOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Customer").Preload("Salesperson").
		Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &order, nil
}

func ListSalesOrders(ctx context.Context, filter SalesFilter) ([]*SalesOrder, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("Items").Preload("Customer").Preload("Salesperson").
		Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerId != nil {
		query = query.Where("customer_id = ?", *filter.CustomerId)
	}
	var orders []*SalesOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func SearchSalesOrders(ctx context.Context, q string) ([]*SalesOrder, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var orders []*SalesOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Customer").Preload("Salesperson").
		Where("order_number LIKE ? OR notes LIKE ?", like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateSalesOrder applies a partial update. A non-nil Items slice replaces
// the whole item set and recomputes the order total inside the same
// transaction as the scalar updates.
func UpdateSalesOrder(ctx context.Context, id int, input *UpdateSalesOrderInput) (*SalesOrder, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[SalesOrder](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown sales status")
	}
	if input.CustomerId != nil {
		if err := utils.ValidateResourceId[Customer](ctx, *input.CustomerId); err != nil {
			return nil, utils.NewValidationError("customer not found")
		}
	}
	if input.SalespersonId != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.SalespersonId); err != nil {
			return nil, utils.NewValidationError("salesperson not found")
		}
	}

	updates := map[string]interface{}{}
	if input.CustomerId != nil {
		updates["customer_id"] = *input.CustomerId
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *input.ExpectedDeliveryDate
	}
	if input.ActualDeliveryDate != nil {
		updates["actual_delivery_date"] = *input.ActualDeliveryDate
	}
	if input.SalespersonId != nil {
		updates["salesperson_id"] = *input.SalespersonId
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	var newItems []SalesItem
	if input.Items != nil {
		lineTotals, orderTotal, err := CalculateOrderTotal(input.Items)
		if err != nil {
			return nil, err
		}
		newItems = mapSalesItems(input.Items, lineTotals)
		for i := range newItems {
			newItems[i].OrderId = existing.ID
		}
		updates["total_amount"] = orderTotal
	}

	tx := db.Begin()
	if input.Items != nil {
		if err := tx.WithContext(ctx).Where("order_id = ?", existing.ID).Delete(&SalesItem{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.WithContext(ctx).Create(&newItems).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if len(updates) > 0 {
		if err := tx.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			tx.Rollback()
			err = utils.TranslateStorageError(err)
			config.LogError(config.GetLogger(), "models", "UpdateSalesOrder", "update", id, err)
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetSalesOrder(ctx, id)
}

// DeleteSalesOrder removes the order and its items in one transaction.
func DeleteSalesOrder(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[SalesOrder](ctx, id)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("order_id = ?", existing.ID).Delete(&SalesItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(existing).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "models", "DeleteSalesOrder", "delete", id, err)
		return err
	}
	return tx.Commit().Error
}

// UpdateSalesStatus delegates to UpdateSalesOrder; delivery stamps the
// actual delivery date.
func UpdateSalesStatus(ctx context.Context, id int, status SalesStatus) (*SalesOrder, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("unknown sales status")
	}
	input := UpdateSalesOrderInput{Status: &status}
	if status == SalesStatusDelivered {
		now := time.Now()
		input.ActualDeliveryDate = &now
	}
	return UpdateSalesOrder(ctx, id, &input)
}

// GetSalesStats issues the per-status counts, the lifetime amount sum and
// the current-month delivered revenue concurrently.
func GetSalesStats(ctx context.Context) (*SalesStats, error) {
	stats := SalesStats{TotalAmount: decimal.Zero, MonthlyRevenue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return salesCount(gctx, nil, &stats.TotalOrders) })
	g.Go(func() error {
		s := SalesStatusPending
		return salesCount(gctx, &s, &stats.PendingOrders)
	})
	g.Go(func() error {
		s := SalesStatusConfirmed
		return salesCount(gctx, &s, &stats.ConfirmedOrders)
	})
	g.Go(func() error {
		s := SalesStatusShipped
		return salesCount(gctx, &s, &stats.ShippedOrders)
	})
	g.Go(func() error {
		s := SalesStatusDelivered
		return salesCount(gctx, &s, &stats.DeliveredOrders)
	})
	g.Go(func() error {
		s := SalesStatusCancelled
		return salesCount(gctx, &s, &stats.CancelledOrders)
	})
	g.Go(func() error {
		db := config.GetDB()
		var total decimal.NullDecimal
		err := db.WithContext(gctx).Model(&SalesOrder{}).
			Select("SUM(total_amount)").Scan(&total).Error
		if err != nil {
			return err
		}
		if total.Valid {
			stats.TotalAmount = total.Decimal
		}
		return nil
	})
	g.Go(func() error {
		db := config.GetDB()
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		var revenue decimal.NullDecimal
		err := db.WithContext(gctx).Model(&SalesOrder{}).
			Where("status = ? AND order_date >= ?", SalesStatusDelivered, startOfMonth).
			Select("SUM(total_amount)").Scan(&revenue).Error
		if err != nil {
			return err
		}
		if revenue.Valid {
			stats.MonthlyRevenue = revenue.Decimal
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func salesCount(ctx context.Context, status *SalesStatus, dest *int64) error {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&SalesOrder{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query.Count(dest).Error
}
