package models

import (
	"testing"

	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
)

func TestCalculateOrderTotal(t *testing.T) {
	items := []NewOrderItem{
		{ProductName: "Laptop", ProductCode: "LPT-01", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductName: "Mouse", ProductCode: "MSE-01", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	}

	lineTotals, total, err := CalculateOrderTotal(items)
	if err != nil {
		t.Fatalf("CalculateOrderTotal: %v", err)
	}
	if len(lineTotals) != 2 {
		t.Fatalf("expected 2 line totals, got %d", len(lineTotals))
	}
	if lineTotals[0].Cmp(decimal.NewFromInt(200)) != 0 {
		t.Errorf("line 1: expected 200, got %s", lineTotals[0])
	}
	if lineTotals[1].Cmp(decimal.NewFromInt(50)) != 0 {
		t.Errorf("line 2: expected 50, got %s", lineTotals[1])
	}
	if total.Cmp(decimal.NewFromInt(250)) != 0 {
		t.Errorf("expected total 250, got %s", total)
	}
}

func TestCalculateOrderTotalDecimalPrecision(t *testing.T) {
	unitPrice, _ := decimal.NewFromString("19.99")
	items := []NewOrderItem{
		{ProductName: "Cable", ProductCode: "CBL-01", Quantity: 3, UnitPrice: unitPrice},
	}

	_, total, err := CalculateOrderTotal(items)
	if err != nil {
		t.Fatalf("CalculateOrderTotal: %v", err)
	}
	want, _ := decimal.NewFromString("59.97")
	if total.Cmp(want) != 0 {
		t.Errorf("expected exactly 59.97, got %s", total)
	}
}

func TestCalculateOrderTotalEmptyItems(t *testing.T) {
	_, _, err := CalculateOrderTotal(nil)
	if err == nil {
		t.Fatal("expected error for empty item list")
	}
	if !utils.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCalculateOrderTotalRejectsBadItems(t *testing.T) {
	cases := []struct {
		name string
		item NewOrderItem
	}{
		{"zero quantity", NewOrderItem{ProductName: "X", ProductCode: "X-1", Quantity: 0, UnitPrice: decimal.NewFromInt(10)}},
		{"negative quantity", NewOrderItem{ProductName: "X", ProductCode: "X-1", Quantity: -2, UnitPrice: decimal.NewFromInt(10)}},
		{"negative price", NewOrderItem{ProductName: "X", ProductCode: "X-1", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CalculateOrderTotal([]NewOrderItem{tc.item})
			if err == nil {
				t.Fatal("expected error")
			}
			if !utils.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCalculateOrderTotalZeroPriceAllowed(t *testing.T) {
	items := []NewOrderItem{
		{ProductName: "Sample", ProductCode: "SMP-01", Quantity: 5, UnitPrice: decimal.Zero},
	}
	_, total, err := CalculateOrderTotal(items)
	if err != nil {
		t.Fatalf("CalculateOrderTotal: %v", err)
	}
	if !total.IsZero() {
		t.Errorf("expected zero total, got %s", total)
	}
}
