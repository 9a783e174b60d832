package models

type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
	AssetStatusDisposed    AssetStatus = "disposed"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusRetired, AssetStatusDisposed:
		return true
	}
	return false
}

type ProcurementStatus string

const (
	ProcurementStatusPending   ProcurementStatus = "pending"
	ProcurementStatusApproved  ProcurementStatus = "approved"
	ProcurementStatusRejected  ProcurementStatus = "rejected"
	ProcurementStatusCompleted ProcurementStatus = "completed"
	ProcurementStatusCancelled ProcurementStatus = "cancelled"
)

func (s ProcurementStatus) Valid() bool {
	switch s {
	case ProcurementStatusPending, ProcurementStatusApproved, ProcurementStatusRejected,
		ProcurementStatusCompleted, ProcurementStatusCancelled:
		return true
	}
	return false
}

type SalesStatus string

const (
	SalesStatusPending   SalesStatus = "pending"
	SalesStatusConfirmed SalesStatus = "confirmed"
	SalesStatusShipped   SalesStatus = "shipped"
	SalesStatusDelivered SalesStatus = "delivered"
	SalesStatusCancelled SalesStatus = "cancelled"
)

func (s SalesStatus) Valid() bool {
	switch s {
	case SalesStatusPending, SalesStatusConfirmed, SalesStatusShipped,
		SalesStatusDelivered, SalesStatusCancelled:
		return true
	}
	return false
}

// PartyStatus is shared by suppliers and customers.
type PartyStatus string

const (
	PartyStatusActive    PartyStatus = "active"
	PartyStatusInactive  PartyStatus = "inactive"
	PartyStatusSuspended PartyStatus = "suspended"
)

func (s PartyStatus) Valid() bool {
	switch s {
	case PartyStatusActive, PartyStatusInactive, PartyStatusSuspended:
		return true
	}
	return false
}

type BudgetCategory string

const (
	BudgetCategoryOfficeSupplies BudgetCategory = "OFFICE_SUPPLIES"
	BudgetCategoryTravel         BudgetCategory = "TRAVEL"
	BudgetCategoryEquipment      BudgetCategory = "EQUIPMENT"
	BudgetCategoryMarketing      BudgetCategory = "MARKETING"
	BudgetCategoryTraining       BudgetCategory = "TRAINING"
	BudgetCategoryMaintenance    BudgetCategory = "MAINTENANCE"
	BudgetCategoryOther          BudgetCategory = "OTHER"
)

func (c BudgetCategory) Valid() bool {
	switch c {
	case BudgetCategoryOfficeSupplies, BudgetCategoryTravel, BudgetCategoryEquipment,
		BudgetCategoryMarketing, BudgetCategoryTraining, BudgetCategoryMaintenance, BudgetCategoryOther:
		return true
	}
	return false
}

type BudgetStatus string

const (
	BudgetStatusPending   BudgetStatus = "PENDING"
	BudgetStatusApproved  BudgetStatus = "APPROVED"
	BudgetStatusRejected  BudgetStatus = "REJECTED"
	BudgetStatusCompleted BudgetStatus = "COMPLETED"
)

func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusPending, BudgetStatusApproved, BudgetStatusRejected, BudgetStatusCompleted:
		return true
	}
	return false
}

type BudgetType string

const (
	BudgetTypeIncome  BudgetType = "INCOME"
	BudgetTypeExpense BudgetType = "EXPENSE"
)

func (t BudgetType) Valid() bool {
	return t == BudgetTypeIncome || t == BudgetTypeExpense
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleEmployee:
		return true
	}
	return false
}
