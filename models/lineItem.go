package models

import (
	"fmt"

	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
)

// NewOrderItem is the caller-facing line item for both procurement and
// sales orders. TotalPrice is always derived, never accepted from input.
type NewOrderItem struct {
	ProductName    string          `json:"product_name" binding:"required"`
	ProductCode    string          `json:"product_code" binding:"required"`
	Quantity       int             `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Specifications string          `json:"specifications"`
}

func validateOrderItems(items []NewOrderItem) error {
	if len(items) == 0 {
		return utils.NewValidationError("order requires at least one line item")
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return utils.NewValidationError(fmt.Sprintf("item %d: quantity must be positive", i+1))
		}
		if item.UnitPrice.IsNegative() {
			return utils.NewValidationError(fmt.Sprintf("item %d: unit price must not be negative", i+1))
		}
	}
	return nil
}

// lineTotal is quantity x unit price at full decimal precision.
func lineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CalculateOrderTotal computes each line's total and the aggregate sum.
// Pure; used identically at order creation and at item replacement.
func CalculateOrderTotal(items []NewOrderItem) (lineTotals []decimal.Decimal, orderTotal decimal.Decimal, err error) {
	if err := validateOrderItems(items); err != nil {
		return nil, decimal.Zero, err
	}
	lineTotals = make([]decimal.Decimal, len(items))
	for i, item := range items {
		lineTotals[i] = lineTotal(item.Quantity, item.UnitPrice)
		orderTotal = orderTotal.Add(lineTotals[i])
	}
	return lineTotals, orderTotal, nil
}
