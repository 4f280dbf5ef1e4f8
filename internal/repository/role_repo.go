package repository

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

// RoleRepository defines data access for roles, permissions and their
// association rows
type RoleRepository interface {
	CreateRole(ctx context.Context, role *model.Role) error
	UpdateRole(ctx context.Context, role *model.Role) error
	DeactivateRole(ctx context.Context, role *model.Role) error
	FindRoleByID(ctx context.Context, id uint) (*model.Role, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	FindActiveRolesByNames(ctx context.Context, names []string) ([]model.Role, error)
	ListRoles(ctx context.Context, includeInactive bool) ([]model.Role, error)

	CreatePermission(ctx context.Context, perm *model.Permission) error
	UpdatePermission(ctx context.Context, perm *model.Permission) error
	DeletePermission(ctx context.Context, perm *model.Permission) error
	FindPermissionByID(ctx context.Context, id uint) (*model.Permission, error)
	FindPermissionByName(ctx context.Context, name string) (*model.Permission, error)
	FindPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)

	ReplaceUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error
	AddUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error
	RemoveUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error
	UserRoleIDs(ctx context.Context, userInfoID uint) ([]uint, error)

	ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	AddRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	RemoveRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	RolePermissionIDs(ctx context.Context, roleID uint) ([]uint, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Omit("Permissions").Create(role).Error
}

func (r *roleRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Omit("Permissions").Save(role).Error
}

// DeactivateRole soft-deletes a role; inactive roles stay referenced by
// history but cannot be assigned.
func (r *roleRepository) DeactivateRole(ctx context.Context, role *model.Role) error {
	role.IsActive = false
	return GetDB(ctx, r.db).Omit("Permissions").Save(role).Error
}

func (r *roleRepository) FindRoleByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindActiveRolesByNames(ctx context.Context, names []string) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Where("name IN ? AND is_active = ?", names, true).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) ListRoles(ctx context.Context, includeInactive bool) ([]model.Role, error) {
	var roles []model.Role
	db := GetDB(ctx, r.db).Preload("Permissions")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Create(perm).Error
}

func (r *roleRepository) UpdatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Save(perm).Error
}

// DeletePermission removes the permission and every role_permissions row
// referencing it.
func (r *roleRepository) DeletePermission(ctx context.Context, perm *model.Permission) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("permission_id = ?", perm.ID).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Permission{}, perm.ID).Error
}

func (r *roleRepository) FindPermissionByID(ctx context.Context, id uint) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *roleRepository) FindPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *roleRepository) FindPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Where("name IN ?", names).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("category ASC, name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) ReplaceUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_info_id = ?", userInfoID).Delete(&model.UserRole{}).Error; err != nil {
		return err
	}
	return r.AddUserRoles(ctx, userInfoID, roleIDs)
}

func (r *roleRepository) AddUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]model.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		rows = append(rows, model.UserRole{UserInfoID: userInfoID, RoleID: id})
	}
	return GetDB(ctx, r.db).Create(&rows).Error
}

func (r *roleRepository) RemoveUserRoles(ctx context.Context, userInfoID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).
		Where("user_info_id = ? AND role_id IN ?", userInfoID, roleIDs).
		Delete(&model.UserRole{}).Error
}

func (r *roleRepository) UserRoleIDs(ctx context.Context, userInfoID uint) ([]uint, error) {
	var ids []uint
	if err := GetDB(ctx, r.db).
		Model(&model.UserRole{}).
		Where("user_info_id = ?", userInfoID).
		Pluck("role_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *roleRepository) ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	return r.AddRolePermissions(ctx, roleID, permissionIDs)
}

func (r *roleRepository) AddRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]model.RolePermission, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		rows = append(rows, model.RolePermission{RoleID: roleID, PermissionID: id})
	}
	return GetDB(ctx, r.db).Create(&rows).Error
}

func (r *roleRepository) RemoveRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).
		Where("role_id = ? AND permission_id IN ?", roleID, permissionIDs).
		Delete(&model.RolePermission{}).Error
}

func (r *roleRepository) RolePermissionIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	if err := GetDB(ctx, r.db).
		Model(&model.RolePermission{}).
		Where("role_id = ?", roleID).
		Pluck("permission_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
