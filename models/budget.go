package models

import (
	"context"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Budget struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Title       string          `gorm:"size:100;not null" json:"title" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Category    BudgetCategory  `gorm:"type:enum('OFFICE_SUPPLIES','TRAVEL','EQUIPMENT','MARKETING','TRAINING','MAINTENANCE','OTHER');not null" json:"category"`
	Status      BudgetStatus    `gorm:"type:enum('PENDING','APPROVED','REJECTED','COMPLETED');not null;default:'PENDING'" json:"status"`
	Type        BudgetType      `gorm:"type:enum('INCOME','EXPENSE');not null" json:"type"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserId" json:"user,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBudget struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    BudgetCategory  `json:"category" binding:"required"`
	Type        BudgetType      `json:"type" binding:"required"`
	UserId      int             `json:"user_id"`
}

type UpdateBudgetInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *BudgetCategory  `json:"category"`
	Status      *BudgetStatus    `json:"status"`
	Type        *BudgetType      `json:"type"`
}

type BudgetFilter struct {
	Status   *BudgetStatus
	Type     *BudgetType
	Category *BudgetCategory
	UserId   *int
}

type BudgetStats struct {
	TotalBudgets  int64           `json:"total_budgets"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	PendingCount  int64           `json:"pending_count"`
	ApprovedCount int64           `json:"approved_count"`
	NetAmount     decimal.Decimal `json:"net_amount"`
}

func (input *NewBudget) validate(ctx context.Context) error {
	if !input.Category.Valid() {
		return utils.NewValidationError("unknown budget category")
	}
	if !input.Type.Valid() {
		return utils.NewValidationError("unknown budget type")
	}
	if input.Amount.IsNegative() {
		return utils.NewValidationError("amount must not be negative")
	}
	if input.UserId <= 0 {
		return utils.NewValidationError("budget owner is required")
	}
	if err := utils.ValidateResourceId[User](ctx, input.UserId); err != nil {
		return utils.NewValidationError("user not found")
	}
	return nil
}

// CreateBudget records an income or expense entry owned by the caller; the
// owner falls back to the signed-in user when the input leaves it unset.
func CreateBudget(ctx context.Context, input *NewBudget) (*Budget, error) {
	db := config.GetDB()

	userId := input.UserId
	if userId == 0 {
		if ctxUserId, ok := utils.GetUserIdFromContext(ctx); ok {
			userId = ctxUserId
		}
	}
	input.UserId = userId

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	budget := Budget{
		Title:       input.Title,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Status:      BudgetStatusPending,
		Type:        input.Type,
		UserId:      userId,
	}

	if err := db.WithContext(ctx).Create(&budget).Error; err != nil {
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateBudget", "create", budget.Title, err)
		return nil, err
	}
	return GetBudget(ctx, budget.ID)
}

func GetBudget(ctx context.Context, id int) (*Budget, error) {
	return utils.FetchModel[Budget](ctx, id, "User")
}

func ListBudgets(ctx context.Context, filter BudgetFilter) ([]*Budget, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("User").Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.UserId != nil {
		query = query.Where("user_id = ?", *filter.UserId)
	}
	var budgets []*Budget
	if err := query.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func SearchBudgets(ctx context.Context, q string) ([]*Budget, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var budgets []*Budget
	err := db.WithContext(ctx).Preload("User").
		Where("title LIKE ? OR description LIKE ?", like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func UpdateBudget(ctx context.Context, id int, input *UpdateBudgetInput) (*Budget, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[Budget](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil && !input.Category.Valid() {
		return nil, utils.NewValidationError("unknown budget category")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown budget status")
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, utils.NewValidationError("unknown budget type")
	}
	if input.Amount != nil && input.Amount.IsNegative() {
		return nil, utils.NewValidationError("amount must not be negative")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			err = utils.TranslateStorageError(err)
			config.LogError(config.GetLogger(), "models", "UpdateBudget", "update", id, err)
			return nil, err
		}
	}
	return GetBudget(ctx, id)
}

func DeleteBudget(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[Budget](ctx, id)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "DeleteBudget", "delete", id, err)
		return err
	}
	return nil
}

func UpdateBudgetStatus(ctx context.Context, id int, status BudgetStatus) (*Budget, error) {
	return UpdateBudget(ctx, id, &UpdateBudgetInput{Status: &status})
}

// GetBudgetStats fans out the counts and the income/expense sums
// concurrently; net = income - expense.
func GetBudgetStats(ctx context.Context) (*BudgetStats, error) {
	stats := BudgetStats{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&Budget{}).Count(&stats.TotalBudgets).Error
	})
	g.Go(func() error {
		return budgetTypeSum(gctx, BudgetTypeIncome, &stats.TotalIncome)
	})
	g.Go(func() error {
		return budgetTypeSum(gctx, BudgetTypeExpense, &stats.TotalExpense)
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&Budget{}).
			Where("status = ?", BudgetStatusPending).Count(&stats.PendingCount).Error
	})
	g.Go(func() error {
		db := config.GetDB()
		return db.WithContext(gctx).Model(&Budget{}).
			Where("status = ?", BudgetStatusApproved).Count(&stats.ApprovedCount).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.NetAmount = stats.TotalIncome.Sub(stats.TotalExpense)
	return &stats, nil
}

func budgetTypeSum(ctx context.Context, budgetType BudgetType, dest *decimal.Decimal) error {
	db := config.GetDB()
	var sum decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Budget{}).
		Where("type = ?", budgetType).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil {
		return err
	}
	if sum.Valid {
		*dest = sum.Decimal
	}
	return nil
}
