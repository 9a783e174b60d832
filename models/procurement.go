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

type ProcurementOrder struct {
	ID                   int               `gorm:"primary_key" json:"id"`
	OrderNumber          string            `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	SupplierId           int               `gorm:"index;not null" json:"supplier_id" binding:"required"`
	Supplier             *Supplier         `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`
	Items                []ProcurementItem `gorm:"foreignKey:OrderId" json:"items"`
	TotalAmount          decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Status               ProcurementStatus `gorm:"type:enum('pending','approved','rejected','completed','cancelled');not null;default:'pending'" json:"status"`
	OrderDate            time.Time         `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time        `json:"actual_delivery_date"`
	CreatedBy            string            `gorm:"size:100" json:"created_by"`
	ApprovedBy           string            `gorm:"size:100" json:"approved_by"`
	Notes                string            `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o ProcurementOrder) SupplierName() string {
	if o.Supplier == nil {
		return ""
	}
	return o.Supplier.Name
}

type ProcurementItem struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrderId        int             `gorm:"index;not null" json:"order_id"`
	ProductName    string          `gorm:"size:100;not null" json:"product_name"`
	ProductCode    string          `gorm:"size:50;not null" json:"product_code"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	Specifications string          `gorm:"size:255" json:"specifications"`
}

type NewProcurementOrder struct {
	SupplierId           int            `json:"supplier_id" binding:"required"`
	Items                []NewOrderItem `json:"items" binding:"required"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	Notes                string         `json:"notes"`
}

type UpdateProcurementOrderInput struct {
	SupplierId           *int               `json:"supplier_id"`
	Items                []NewOrderItem     `json:"items"`
	Status               *ProcurementStatus `json:"status"`
	ExpectedDeliveryDate *time.Time         `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time         `json:"actual_delivery_date"`
	Notes                *string            `json:"notes"`
}

type ProcurementFilter struct {
	Status     *ProcurementStatus
	SupplierId *int
}

type ProcurementStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ApprovedOrders  int64           `json:"approved_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	RejectedOrders  int64           `json:"rejected_orders"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

func mapProcurementItems(items []NewOrderItem, lineTotals []decimal.Decimal) []ProcurementItem {
	mapped := make([]ProcurementItem, 0, len(items))
	for i, item := range items {
		mapped = append(mapped, ProcurementItem{
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

// CreateProcurementOrder assigns a generated order number, derives the line
// and order totals and persists the order with its items in one transaction.
func CreateProcurementOrder(ctx context.Context, input *NewProcurementOrder) (*ProcurementOrder, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, utils.NewValidationError("supplier not found")
	}

	lineTotals, orderTotal, err := CalculateOrderTotal(input.Items)
	if err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUserNameFromContext(ctx)

	order := ProcurementOrder{
		OrderNumber:          utils.GenerateBusinessCode("PO"),
		SupplierId:           input.SupplierId,
		Items:                mapProcurementItems(input.Items, lineTotals),
		TotalAmount:          orderTotal,
		Status:               ProcurementStatusPending,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		CreatedBy:            createdBy,
		Notes:                input.Notes,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateProcurementOrder", "create", order.OrderNumber, err)
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetProcurementOrder(ctx, order.ID)
}

func GetProcurementOrder(ctx context.Context, id int) (*ProcurementOrder, error) {
	return utils.FetchModel[ProcurementOrder](ctx, id, "Items", "Supplier")
}

func GetProcurementOrderByNumber(ctx context.Context, orderNumber string) (*ProcurementOrder, error) {
	db := config.GetDB()
	var order ProcurementOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Supplier").
		Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &order, nil
}

func ListProcurementOrders(ctx context.Context, filter ProcurementFilter) ([]*ProcurementOrder, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("Items").Preload("Supplier").Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierId != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierId)
	}
	var orders []*ProcurementOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func SearchProcurementOrders(ctx context.Context, q string) ([]*ProcurementOrder, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var orders []*ProcurementOrder
	err := db.WithContext(ctx).Preload("Items").Preload("Supplier").
		Where("order_number LIKE ? OR notes LIKE ?", like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateProcurementOrder applies a partial update. When Items is non-nil the
// prior item set is deleted, the new set inserted and the order total
// recomputed, all inside one transaction with the scalar updates.
func UpdateProcurementOrder(ctx context.Context, id int, input *UpdateProcurementOrderInput) (*ProcurementOrder, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[ProcurementOrder](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown procurement status")
	}
	if input.SupplierId != nil {
		if err := utils.ValidateResourceId[Supplier](ctx, *input.SupplierId); err != nil {
			return nil, utils.NewValidationError("supplier not found")
		}
	}

	updates := map[string]interface{}{}
	if input.SupplierId != nil {
		updates["supplier_id"] = *input.SupplierId
	}
	if input.Status != nil {
		updates["status"] = *input.Status
		// approval stamps the approver in the same write as the status
		if *input.Status == ProcurementStatusApproved {
			if approver, ok := utils.GetUserNameFromContext(ctx); ok && approver != "" {
				updates["approved_by"] = approver
			}
		}
	}
	if input.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *input.ExpectedDeliveryDate
	}
	if input.ActualDeliveryDate != nil {
		updates["actual_delivery_date"] = *input.ActualDeliveryDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	var newItems []ProcurementItem
	if input.Items != nil {
		lineTotals, orderTotal, err := CalculateOrderTotal(input.Items)
		if err != nil {
			return nil, err
		}
		newItems = mapProcurementItems(input.Items, lineTotals)
		for i := range newItems {
			newItems[i].OrderId = existing.ID
		}
		updates["total_amount"] = orderTotal
	}

	tx := db.Begin()
	if input.Items != nil {
		if err := tx.WithContext(ctx).Where("order_id = ?", existing.ID).Delete(&ProcurementItem{}).Error; err != nil {
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
			config.LogError(config.GetLogger(), "models", "UpdateProcurementOrder", "update", id, err)
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetProcurementOrder(ctx, id)
}

// DeleteProcurementOrder removes the order and its items in one transaction.
func DeleteProcurementOrder(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[ProcurementOrder](ctx, id)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("order_id = ?", existing.ID).Delete(&ProcurementItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(existing).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "models", "DeleteProcurementOrder", "delete", id, err)
		return err
	}
	return tx.Commit().Error
}

// UpdateProcurementStatus delegates to UpdateProcurementOrder. Approval
// stamps the approver from the request context; completion stamps the
// actual delivery date.
func UpdateProcurementStatus(ctx context.Context, id int, status ProcurementStatus) (*ProcurementOrder, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("unknown procurement status")
	}

	input := UpdateProcurementOrderInput{Status: &status}
	if status == ProcurementStatusCompleted {
		now := time.Now()
		input.ActualDeliveryDate = &now
	}

	return UpdateProcurementOrder(ctx, id, &input)
}

// GetProcurementStats issues the count and sum queries concurrently and
// merges once all complete.
func GetProcurementStats(ctx context.Context) (*ProcurementStats, error) {
	stats := ProcurementStats{TotalAmount: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return procurementCount(gctx, nil, &stats.TotalOrders) })
	g.Go(func() error {
		s := ProcurementStatusPending
		return procurementCount(gctx, &s, &stats.PendingOrders)
	})
	g.Go(func() error {
		s := ProcurementStatusApproved
		return procurementCount(gctx, &s, &stats.ApprovedOrders)
	})
	g.Go(func() error {
		s := ProcurementStatusCompleted
		return procurementCount(gctx, &s, &stats.CompletedOrders)
	})
	g.Go(func() error {
		s := ProcurementStatusRejected
		return procurementCount(gctx, &s, &stats.RejectedOrders)
	})
	g.Go(func() error {
		db := config.GetDB()
		var total decimal.NullDecimal
		err := db.WithContext(gctx).Model(&ProcurementOrder{}).
			Select("SUM(total_amount)").Scan(&total).Error
		if err != nil {
			return err
		}
		if total.Valid {
			stats.TotalAmount = total.Decimal
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func procurementCount(ctx context.Context, status *ProcurementStatus, dest *int64) error {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&ProcurementOrder{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query.Count(dest).Error
}
