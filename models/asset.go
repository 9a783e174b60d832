package models

import (
	"context"
	"errors"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Asset struct {
	ID                  int                    `gorm:"primary_key" json:"id"`
	AssetCode           string                 `gorm:"size:50;not null;uniqueIndex" json:"asset_code"`
	AssetName           string                 `gorm:"size:100;not null" json:"asset_name" binding:"required"`
	Category            string                 `gorm:"size:100;not null" json:"category" binding:"required"`
	SubCategory         string                 `gorm:"size:100" json:"sub_category"`
	Brand               string                 `gorm:"size:100" json:"brand"`
	Model               string                 `gorm:"size:100" json:"model"`
	SerialNumber        string                 `gorm:"size:100" json:"serial_number"`
	PurchaseDate        time.Time              `gorm:"not null" json:"purchase_date" binding:"required"`
	PurchasePrice       decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	CurrentValue        decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"current_value"`
	Status              AssetStatus            `gorm:"type:enum('active','maintenance','retired','disposed');not null;default:'active'" json:"status"`
	Location            string                 `gorm:"size:100;not null" json:"location" binding:"required"`
	Department          string                 `gorm:"size:100;not null;index" json:"department" binding:"required"`
	AssignedTo          *int                   `gorm:"index" json:"assigned_to"`
	AssignedToUser      *User                  `gorm:"foreignKey:AssignedTo" json:"assigned_to_user,omitempty"`
	WarrantyExpiry      *time.Time             `json:"warranty_expiry"`
	LastMaintenanceDate *time.Time             `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time             `json:"next_maintenance_date"`
	Description         string                 `gorm:"type:text" json:"description"`
	Specifications      map[string]interface{} `gorm:"serializer:json" json:"specifications"`
	CreatedAt           time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

// AssignedToName is the joined display field for list/detail responses.
func (a Asset) AssignedToName() string {
	if a.AssignedToUser == nil {
		return ""
	}
	return a.AssignedToUser.Name
}

type NewAsset struct {
	AssetName      string                 `json:"asset_name" binding:"required"`
	Category       string                 `json:"category" binding:"required"`
	SubCategory    string                 `json:"sub_category"`
	Brand          string                 `json:"brand"`
	Model          string                 `json:"model"`
	SerialNumber   string                 `json:"serial_number"`
	PurchaseDate   time.Time              `json:"purchase_date" binding:"required"`
	PurchasePrice  decimal.Decimal        `json:"purchase_price"`
	Location       string                 `json:"location" binding:"required"`
	Department     string                 `json:"department" binding:"required"`
	AssignedTo     *int                   `json:"assigned_to"`
	WarrantyExpiry *time.Time             `json:"warranty_expiry"`
	Description    string                 `json:"description"`
	Specifications map[string]interface{} `json:"specifications"`
}

// UpdateAssetInput carries a partial field set: nil pointers leave the
// stored value untouched, pointed-to zero values clear it.
type UpdateAssetInput struct {
	AssetName           *string                `json:"asset_name"`
	Category            *string                `json:"category"`
	SubCategory         *string                `json:"sub_category"`
	Brand               *string                `json:"brand"`
	Model               *string                `json:"model"`
	SerialNumber        *string                `json:"serial_number"`
	PurchaseDate        *time.Time             `json:"purchase_date"`
	PurchasePrice       *decimal.Decimal       `json:"purchase_price"`
	CurrentValue        *decimal.Decimal       `json:"current_value"`
	Status              *AssetStatus           `json:"status"`
	Location            *string                `json:"location"`
	Department          *string                `json:"department"`
	AssignedTo          *int                   `json:"assigned_to"`
	ClearAssignedTo     bool                   `json:"clear_assigned_to"`
	WarrantyExpiry      *time.Time             `json:"warranty_expiry"`
	LastMaintenanceDate *time.Time             `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time             `json:"next_maintenance_date"`
	Description         *string                `json:"description"`
	Specifications      map[string]interface{} `json:"specifications"`
}

type AssetFilter struct {
	Status     *AssetStatus
	Department string
	AssignedTo *int
}

type AssetStats struct {
	Total       int64           `json:"total"`
	Active      int64           `json:"active"`
	Maintenance int64           `json:"maintenance"`
	Retired     int64           `json:"retired"`
	Disposed    int64           `json:"disposed"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

func (input *NewAsset) validate(ctx context.Context) error {
	if input.PurchasePrice.IsNegative() {
		return utils.NewValidationError("purchase price must not be negative")
	}
	if input.AssignedTo != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.AssignedTo); err != nil {
			return utils.NewValidationError("assigned user not found")
		}
	}
	return nil
}

// CreateAsset assigns a generated asset code, defaults status to active and
// initializes current value to the purchase price.
func CreateAsset(ctx context.Context, input *NewAsset) (*Asset, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	asset := Asset{
		AssetCode:      utils.GenerateBusinessCode("AST"),
		AssetName:      input.AssetName,
		Category:       input.Category,
		SubCategory:    input.SubCategory,
		Brand:          input.Brand,
		Model:          input.Model,
		SerialNumber:   input.SerialNumber,
		PurchaseDate:   input.PurchaseDate,
		PurchasePrice:  input.PurchasePrice,
		CurrentValue:   input.PurchasePrice,
		Status:         AssetStatusActive,
		Location:       input.Location,
		Department:     input.Department,
		AssignedTo:     input.AssignedTo,
		WarrantyExpiry: input.WarrantyExpiry,
		Description:    input.Description,
		Specifications: input.Specifications,
	}

	if err := db.WithContext(ctx).Create(&asset).Error; err != nil {
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateAsset", "create", asset.AssetCode, err)
		return nil, err
	}

	return GetAsset(ctx, asset.ID)
}

func GetAsset(ctx context.Context, id int) (*Asset, error) {
	return utils.FetchModel[Asset](ctx, id, "AssignedToUser")
}

func GetAssetByCode(ctx context.Context, code string) (*Asset, error) {
	db := config.GetDB()
	var asset Asset
	err := db.WithContext(ctx).Preload("AssignedToUser").Where("asset_code = ?", code).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func ListAssets(ctx context.Context, filter AssetFilter) ([]*Asset, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("AssignedToUser").Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	var assets []*Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// SearchAssets matches the query as a substring of name, code or serial number.
func SearchAssets(ctx context.Context, q string) ([]*Asset, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var assets []*Asset
	err := db.WithContext(ctx).Preload("AssignedToUser").
		Where("asset_name LIKE ? OR asset_code LIKE ? OR serial_number LIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func UpdateAsset(ctx context.Context, id int, input *UpdateAssetInput) (*Asset, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[Asset](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown asset status")
	}
	if input.PurchasePrice != nil && input.PurchasePrice.IsNegative() {
		return nil, utils.NewValidationError("purchase price must not be negative")
	}
	if input.AssignedTo != nil {
		if err := utils.ValidateResourceId[User](ctx, *input.AssignedTo); err != nil {
			return nil, utils.NewValidationError("assigned user not found")
		}
	}

	updates := map[string]interface{}{}
	if input.AssetName != nil {
		updates["asset_name"] = *input.AssetName
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.SubCategory != nil {
		updates["sub_category"] = *input.SubCategory
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.SerialNumber != nil {
		updates["serial_number"] = *input.SerialNumber
	}
	if input.PurchaseDate != nil {
		updates["purchase_date"] = *input.PurchaseDate
	}
	if input.PurchasePrice != nil {
		updates["purchase_price"] = *input.PurchasePrice
	}
	if input.CurrentValue != nil {
		updates["current_value"] = *input.CurrentValue
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Department != nil {
		updates["department"] = *input.Department
	}
	if input.ClearAssignedTo {
		updates["assigned_to"] = nil
	} else if input.AssignedTo != nil {
		updates["assigned_to"] = *input.AssignedTo
	}
	if input.WarrantyExpiry != nil {
		updates["warranty_expiry"] = *input.WarrantyExpiry
	}
	if input.LastMaintenanceDate != nil {
		updates["last_maintenance_date"] = *input.LastMaintenanceDate
	}
	if input.NextMaintenanceDate != nil {
		updates["next_maintenance_date"] = *input.NextMaintenanceDate
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Specifications != nil {
		updates["specifications"] = input.Specifications
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			err = utils.TranslateStorageError(err)
			config.LogError(config.GetLogger(), "models", "UpdateAsset", "update", id, err)
			return nil, err
		}
	}

	return GetAsset(ctx, id)
}

func DeleteAsset(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[Asset](ctx, id)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "DeleteAsset", "delete", id, err)
		return err
	}
	return nil
}

/* narrow wrappers, all delegating to UpdateAsset */

func UpdateAssetStatus(ctx context.Context, id int, status AssetStatus) (*Asset, error) {
	return UpdateAsset(ctx, id, &UpdateAssetInput{Status: &status})
}

func AssignAsset(ctx context.Context, id int, userId int) (*Asset, error) {
	return UpdateAsset(ctx, id, &UpdateAssetInput{AssignedTo: &userId})
}

func UnassignAsset(ctx context.Context, id int) (*Asset, error) {
	return UpdateAsset(ctx, id, &UpdateAssetInput{ClearAssignedTo: true})
}

func UpdateAssetValue(ctx context.Context, id int, currentValue decimal.Decimal) (*Asset, error) {
	return UpdateAsset(ctx, id, &UpdateAssetInput{CurrentValue: &currentValue})
}

func ScheduleMaintenance(ctx context.Context, id int, next time.Time) (*Asset, error) {
	return UpdateAsset(ctx, id, &UpdateAssetInput{NextMaintenanceDate: &next})
}

// CompleteMaintenance stamps the maintenance date and returns the asset to
// active service.
func CompleteMaintenance(ctx context.Context, id int) (*Asset, error) {
	now := time.Now()
	status := AssetStatusActive
	return UpdateAsset(ctx, id, &UpdateAssetInput{
		LastMaintenanceDate: &now,
		Status:              &status,
	})
}

// ListAssetsDueMaintenance returns assets whose next maintenance falls
// within the horizon, soonest first.
func ListAssetsDueMaintenance(ctx context.Context, horizon time.Duration) ([]*Asset, error) {
	db := config.GetDB()
	deadline := time.Now().Add(horizon)
	var assets []*Asset
	err := db.WithContext(ctx).Preload("AssignedToUser").
		Where("next_maintenance_date IS NOT NULL AND next_maintenance_date <= ?", deadline).
		Where("status <> ?", AssetStatusDisposed).
		Order("next_maintenance_date ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// GetAssetStats fans out the per-status counts and the value sum
// concurrently; any failing sub-query fails the whole snapshot.
func GetAssetStats(ctx context.Context) (*AssetStats, error) {
	stats := AssetStats{TotalValue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return assetCount(gctx, nil, &stats.Total)
	})
	g.Go(func() error {
		s := AssetStatusActive
		return assetCount(gctx, &s, &stats.Active)
	})
	g.Go(func() error {
		s := AssetStatusMaintenance
		return assetCount(gctx, &s, &stats.Maintenance)
	})
	g.Go(func() error {
		s := AssetStatusRetired
		return assetCount(gctx, &s, &stats.Retired)
	})
	g.Go(func() error {
		s := AssetStatusDisposed
		return assetCount(gctx, &s, &stats.Disposed)
	})
	g.Go(func() error {
		db := config.GetDB()
		var total decimal.NullDecimal
		err := db.WithContext(gctx).Model(&Asset{}).
			Select("SUM(current_value)").Scan(&total).Error
		if err != nil {
			return err
		}
		if total.Valid {
			stats.TotalValue = total.Decimal
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"module":   "models",
			"funcName": "GetAssetStats",
		}).Error(err.Error())
		return nil, err
	}
	return &stats, nil
}

func assetCount(ctx context.Context, status *AssetStatus, dest *int64) error {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Asset{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query.Count(dest).Error
}
