package models

import (
	"context"
	"errors"
	"time"

	"github.com/altustec/bizadmin_backend/config"
	"github.com/altustec/bizadmin_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email" binding:"required,email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('admin','manager','employee');not null;default:'employee'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role"`
	Avatar   string   `json:"avatar"`
}

type UpdateUserInput struct {
	Name     *string   `json:"name"`
	Email    *string   `json:"email"`
	Password *string   `json:"password"`
	Role     *UserRole `json:"role"`
	Avatar   *string   `json:"avatar"`
}

func (input *NewUser) validate(ctx context.Context) error {
	if !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email")
	}
	if len(input.Password) < 8 {
		return utils.NewValidationError("password must be at least 8 characters")
	}
	if input.Role != "" && !input.Role.Valid() {
		return utils.NewValidationError("unknown user role")
	}
	if config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[User](ctx, "email", input.Email, 0); err != nil {
			return err
		}
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = UserRoleEmployee
	}

	user := User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
		Avatar:   input.Avatar,
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		err = utils.TranslateStorageError(err)
		config.LogError(config.GetLogger(), "models", "CreateUser", "create", user.Email, err)
		return nil, err
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func ListUsers(ctx context.Context, role *UserRole) ([]*User, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Order("created_at DESC")
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	var users []*User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func SearchUsers(ctx context.Context, q string) ([]*User, error) {
	db := config.GetDB()
	like := "%" + q + "%"
	var users []*User
	err := db.WithContext(ctx).
		Where("name LIKE ? OR email LIKE ?", like, like).
		Order("created_at DESC").
		Limit(config.SearchLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {
	db := config.GetDB()

	existing, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && !utils.IsValidEmail(*input.Email) {
		return nil, utils.NewValidationError("invalid email")
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, utils.NewValidationError("unknown user role")
	}
	if input.Email != nil && *input.Email != existing.Email && config.DuplicateCodePrecheck() {
		if err := utils.ValidateUnique[User](ctx, "email", *input.Email, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, utils.NewValidationError("password must be at least 8 characters")
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			err = utils.TranslateStorageError(err)
			config.LogError(config.GetLogger(), "models", "UpdateUser", "update", id, err)
			return nil, err
		}
	}
	return utils.FetchModel[User](ctx, id)
}

// DeleteUser releases any assets assigned to the user in the same
// transaction that removes the row, so no asset ever points at a
// missing user.
func DeleteUser(ctx context.Context, id int) error {
	db := config.GetDB()

	existing, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return err
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	err = tx.Model(&Asset{}).Where("assigned_to = ?", id).
		Update("assigned_to", gorm.Expr("NULL")).Error
	if err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "models", "DeleteUser", "release assets", id, err)
		return err
	}

	if err := tx.Delete(existing).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "models", "DeleteUser", "delete", id, err)
		return err
	}
	return tx.Commit().Error
}

// SignIn verifies the credentials and returns the user together with a
// signed token. A missing user and a wrong password produce the same
// error so callers cannot probe for accounts.
func SignIn(ctx context.Context, email string, password string) (*User, string, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, "", utils.ErrorInvalidCredentials
		}
		return nil, "", err
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, "", utils.ErrorInvalidCredentials
	}

	token, err := utils.JwtGenerate(user.ID, user.Name, user.Email, string(user.Role))
	if err != nil {
		config.LogError(config.GetLogger(), "models", "SignIn", "token", user.ID, err)
		return nil, "", err
	}
	return user, token, nil
}
