package models

import (
	"context"
	"errors"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Supplier struct {
	ID            int         `gorm:"primary_key" json:"id"`
	Name          string      `gorm:"size:100;not null" json:"name" binding:"required"`
	Code          string      `gorm:"size:50;not null;uniqueIndex" json:"code" binding:"required"`
	ContactPerson string      `gorm:"size:100" json:"contact_person"`
	Email         string      `gorm:"size:100" json:"email"`
	Phone         string      `gorm:"size:20" json:"phone"`
	Address       string      `gorm:"size:255" json:"address"`
	City          string      `gorm:"size:100" json:"city"`
	State         string      `gorm:"size:100" json:"state"`
	ZipCode       string      `gorm:"size:20" json:"zip_code"`
	Country       string      `gorm:"size:100" json:"country"`
	TaxId         string      `gorm:"size:50" json:"tax_id"`
	PaymentTerms  string      `gorm:"size:100" json:"payment_terms"`
	Rating        int         `gorm:"default:0" json:"rating"`
	Status        PartyStatus `gorm:"type:enum('active','inactive','suspended');not null;default:'active'" json:"status"`
	Notes         string      `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" binding:"required"`
	Code          string `json:"code" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
	TaxId         string `json:"tax_id"`
	PaymentTerms  string `json:"payment_terms"`
	Rating        int    `json:"rating"`
	Notes         string `json:"notes"`
}

type UpdateSupplierInput struct {
	Name          *string      `json:"name"`
	Code          *string      `json:"code"`
	ContactPerson *string      `json:"contact_person"`
	Email         *string      `json:"email"`
	Phone         *string      `json:"phone"`
	Address       *string      `json:"address"`
	City          *string      `json:"city"`
	State         *string      `json:"state"`
	ZipCode       *string      `json:"zip_code"`
	Country       *string      `json:"country"`
	TaxId         *string      `json:"tax_id"`
	PaymentTerms  *string      `json:"payment_terms"`
	Rating        *int         `json:"rating"`
	Status        *PartyStatus `json:"status"`
	Notes         *string      `json:"notes"`
}

type SupplierStats struct {
	TotalSuppliers     int64 `json:"total_suppliers"`
	ActiveSuppliers    int64 `json:"active_suppliers"`
	InactiveSuppliers  int64 `json:"inactive_suppliers"`
	SuspendedSuppliers int64 `json:"suspended_suppliers"`
}

func (input *NewSupplier) validate(ctx context.Context) error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number")
		}
	}
	// fast path for a cleaner error; the unique index on code is the
	// actual guarantee under concurrency
	if config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[Supplier](ctx, "code", input.Code, 0); err != nil {
			return err
		}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:          input.Name,
		Code:          input.Code,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		Country:       input.Country,
		TaxId:         input.TaxId,
		PaymentTerms:  input.PaymentTerms,
		Rating:        input.Rating,
		Status:        PartyStatusActive,
		Notes:         input.Notes,
	}

	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateSupplier", "create", supplier.Code, err)
		return nil, err
	}
	return &supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func GetSupplierByCode(ctx context.Context, code string) (*Supplier, error) {
	db := config.GetDB()
	var supplier Supplier
	err := db.WithContext(ctx).Where("code = ?", code).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func ListSuppliers(ctx context.Context, status *PartyStatus) ([]*Supplier, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var suppliers []*Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func SearchSuppliers(ctx context.Context, q string) ([]*Supplier, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var suppliers []*Supplier
	err := db.WithContext(ctx).
		Where("name LIKE ? OR code LIKE ? OR contact_person LIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func UpdateSupplier(ctx context.Context, id int, input *UpdateSupplierInput) (*Supplier, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown supplier status")
	}
	if input.Email != nil && *input.Email != "" && !utils.IsValidEmail(*input.Email) {
		return nil, utils.NewValidationError("invalid email")
	}
	if input.Code != nil && *input.Code != existing.Code && config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[Supplier](ctx, "code", *input.Code, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Code != nil {
		updates["code"] = *input.Code
	}
	if input.ContactPerson != nil {
		updates["contact_person"] = *input.ContactPerson
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.ZipCode != nil {
		updates["zip_code"] = *input.ZipCode
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.TaxId != nil {
		updates["tax_id"] = *input.TaxId
	}
	if input.PaymentTerms != nil {
		updates["payment_terms"] = *input.PaymentTerms
	}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			err = utils.TranslateStorageError(err)
			config.LogError(config.GetLogger(), "models", "UpdateSupplier", "update", id, err)
			return nil, err
		}
	}
	return utils.FetchModel[Supplier](ctx, id)
}

// DeleteSupplier refuses to remove a supplier that procurement orders still
// reference.
func DeleteSupplier(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[ProcurementOrder](ctx, "supplier_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewValidationError("supplier is referenced by procurement orders")
	}

	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "DeleteSupplier", "delete", id, err)
		return err
	}
	return nil
}

func UpdateSupplierStatus(ctx context.Context, id int, status PartyStatus) (*Supplier, error) {
	return UpdateSupplier(ctx, id, &UpdateSupplierInput{Status: &status})
}

// GetSupplierStats issues the per-status counts concurrently and merges
// once all complete.
func GetSupplierStats(ctx context.Context) (*SupplierStats, error) {
	var stats SupplierStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return supplierCount(gctx, nil, &stats.TotalSuppliers) })
	g.Go(func() error {
		s := PartyStatusActive
		return supplierCount(gctx, &s, &stats.ActiveSuppliers)
	})
	g.Go(func() error {
		s := PartyStatusInactive
		return supplierCount(gctx, &s, &stats.InactiveSuppliers)
	})
	g.Go(func() error {
		s := PartyStatusSuspended
		return supplierCount(gctx, &s, &stats.SuspendedSuppliers)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func supplierCount(ctx context.Context, status *PartyStatus, dest *int64) error {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Supplier{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query.Count(dest).Error
}
