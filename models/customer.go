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

type Customer struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Code          string          `gorm:"size:50;not null;uniqueIndex" json:"code" binding:"required"`
	ContactPerson string          `gorm:"size:100" json:"contact_person"`
	Email         string          `gorm:"size:100" json:"email"`
	Phone         string          `gorm:"size:20" json:"phone"`
	Address       string          `gorm:"size:255" json:"address"`
	City          string          `gorm:"size:100" json:"city"`
	State         string          `gorm:"size:100" json:"state"`
	ZipCode       string          `gorm:"size:20" json:"zip_code"`
	Country       string          `gorm:"size:100" json:"country"`
	TaxId         string          `gorm:"size:50" json:"tax_id"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	PaymentTerms  string          `gorm:"size:100" json:"payment_terms"`
	Rating        int             `gorm:"default:0" json:"rating"`
	Status        PartyStatus     `gorm:"type:enum('active','inactive','suspended');not null;default:'active'" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name          string          `json:"name" binding:"required"`
	Code          string          `json:"code" binding:"required"`
	ContactPerson string          `json:"contact_person"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zip_code"`
	Country       string          `json:"country"`
	TaxId         string          `json:"tax_id"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	PaymentTerms  string          `json:"payment_terms"`
	Rating        int             `json:"rating"`
	Notes         string          `json:"notes"`
}

type UpdateCustomerInput struct {
	Name          *string          `json:"name"`
	Code          *string          `json:"code"`
	ContactPerson *string          `json:"contact_person"`
	Email         *string          `json:"email"`
	Phone         *string          `json:"phone"`
	Address       *string          `json:"address"`
	City          *string          `json:"city"`
	State         *string          `json:"state"`
	ZipCode       *string          `json:"zip_code"`
	Country       *string          `json:"country"`
	TaxId         *string          `json:"tax_id"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
	PaymentTerms  *string          `json:"payment_terms"`
	Rating        *int             `json:"rating"`
	Status        *PartyStatus     `json:"status"`
	Notes         *string          `json:"notes"`
}

type CustomerStats struct {
	TotalCustomers     int64 `json:"total_customers"`
	ActiveCustomers    int64 `json:"active_customers"`
	InactiveCustomers  int64 `json:"inactive_customers"`
	SuspendedCustomers int64 `json:"suspended_customers"`
}

func (input *NewCustomer) validate(ctx context.Context) error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number")
		}
	}
	if input.CreditLimit.IsNegative() {
		return utils.NewValidationError("credit limit must not be negative")
	}
	if config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[Customer](ctx, "code", input.Code, 0); err != nil {
			return err
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	customer := Customer{
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
		CreditLimit:   input.CreditLimit,
		PaymentTerms:  input.PaymentTerms,
		Rating:        input.Rating,
		Status:        PartyStatusActive,
		Notes:         input.Notes,
	}

	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateCustomer", "create", customer.Code, err)
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, id)
}

func GetCustomerByCode(ctx context.Context, code string) (*Customer, error) {
	db := config.GetDB()
	var customer Customer
	err := db.WithContext(ctx).Where("code = ?", code).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func ListCustomers(ctx context.Context, status *PartyStatus) ([]*Customer, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var customers []*Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func SearchCustomers(ctx context.Context, q string) ([]*Customer, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var customers []*Customer
	err := db.WithContext(ctx).
		Where("name LIKE ? OR code LIKE ? OR contact_person LIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func UpdateCustomer(ctx context.Context, id int, input *UpdateCustomerInput) (*Customer, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, utils.NewValidationError("unknown customer status")
	}
	if input.Email != nil && *input.Email != "" && !utils.IsValidEmail(*input.Email) {
		return nil, utils.NewValidationError("invalid email")
	}
	if input.CreditLimit != nil && input.CreditLimit.IsNegative() {
		return nil, utils.NewValidationError("credit limit must not be negative")
	}
	if input.Code != nil && *input.Code != existing.Code && config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[Customer](ctx, "code", *input.Code, id); err != nil {
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
	if input.CreditLimit != nil {
		updates["credit_limit"] = *input.CreditLimit
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
			config.LogError(config.GetLogger(), "models", "UpdateCustomer", "update", id, err)
			return nil, err
		}
	}
	return utils.FetchModel[Customer](ctx, id)
}

// DeleteCustomer refuses to remove a customer that sales orders still
// reference.
func DeleteCustomer(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[SalesOrder](ctx, "customer_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewValidationError("customer is referenced by sales orders")
	}

	if err := db.WithContext(ctx).Delete(existing).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "DeleteCustomer", "delete", id, err)
		return err
	}
	return nil
}

func UpdateCustomerStatus(ctx context.Context, id int, status PartyStatus) (*Customer, error) {
	return UpdateCustomer(ctx, id, &UpdateCustomerInput{Status: &status})
}

// GetCustomerStats issues the per-status counts concurrently and merges
// once all complete.
func GetCustomerStats(ctx context.Context) (*CustomerStats, error) {
	var stats CustomerStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return customerCount(gctx, nil, &stats.TotalCustomers) })
	g.Go(func() error {
		s := PartyStatusActive
		return customerCount(gctx, &s, &stats.ActiveCustomers)
	})
	g.Go(func() error {
		s := PartyStatusInactive
		return customerCount(gctx, &s, &stats.InactiveCustomers)
	})
	g.Go(func() error {
		s := PartyStatusSuspended
		return customerCount(gctx, &s, &stats.SuspendedCustomers)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func customerCount(ctx context.Context, status *PartyStatus, dest *int64) error {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Customer{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query.Count(dest).Error
}
