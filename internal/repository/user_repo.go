package repository

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

// UserRepository defines data access for User accounts and their UserInfo
// profile rows
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	CreateUserInfo(ctx context.Context, info *model.UserInfo) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetInfoByID(ctx context.Context, id uint) (*model.UserInfo, error)
	GetInfoByUserID(ctx context.Context, userID uint) (*model.UserInfo, error)
	GetInfoByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	GetInfoByIDForUpdate(ctx context.Context, id uint) (*model.UserInfo, error)
	ListInfos(ctx context.Context, offset, limit int, order, search string) ([]model.UserInfo, int64, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserInfo(ctx context.Context, info *model.UserInfo) error
	DeleteUser(ctx context.Context, info *model.UserInfo) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) CreateUserInfo(ctx context.Context, info *model.UserInfo) error {
	return GetDB(ctx, r.db).Create(info).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetInfoByID(ctx context.Context, id uint) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := GetDB(ctx, r.db).
		Preload("Roles.Permissions").
		Preload("User").
		First(&info, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *userRepository) GetInfoByUserID(ctx context.Context, userID uint) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := GetDB(ctx, r.db).
		Preload("Roles.Permissions").
		Preload("User").
		First(&info, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *userRepository) GetInfoByEmail(ctx context.Context, email string) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := GetDB(ctx, r.db).First(&info, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// GetInfoByIDForUpdate locks the profile row for the duration of the
// enclosing transaction. Used by concurrent email updates.
func (r *userRepository) GetInfoByIDForUpdate(ctx context.Context, id uint) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := forUpdate(GetDB(ctx, r.db)).
		First(&info, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *userRepository) ListInfos(ctx context.Context, offset, limit int, order, search string) ([]model.UserInfo, int64, error) {
	var infos []model.UserInfo
	var total int64

	db := GetDB(ctx, r.db).Model(&model.UserInfo{})
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Joins("User").Where("email LIKE ? OR \"User\".username LIKE ?", pattern, pattern)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "user_infos.created_at ASC"
	}
	if err := db.Preload("Roles").Preload("User").Order(order).Offset(offset).Limit(limit).Find(&infos).Error; err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) UpdateUserInfo(ctx context.Context, info *model.UserInfo) error {
	return GetDB(ctx, r.db).Omit("Roles", "Supplier", "User").Save(info).Error
}

// DeleteUser removes the account and its profile, cascading cleanup of
// role assignments and the supplier link.
func (r *userRepository) DeleteUser(ctx context.Context, info *model.UserInfo) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_info_id = ?", info.ID).Delete(&model.UserRole{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_info_id = ?", info.ID).Delete(&model.Supplier{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&model.UserInfo{}, info.ID).Error; err != nil {
		return err
	}
	return db.Delete(&model.User{}, info.UserID).Error
}
