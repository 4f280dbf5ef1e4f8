package repository

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

// SupplierRepository defines data access for Supplier entities
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Supplier, error)
	FindByEmail(ctx context.Context, email string) (*model.Supplier, error)
	FindByCompanyName(ctx context.Context, name string) (*model.Supplier, error)
	List(ctx context.Context, offset, limit int, order, status, search string) ([]model.Supplier, int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Supplier{}, id).Error
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByIDForUpdate locks the supplier row during a status transition
func (r *supplierRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := forUpdate(GetDB(ctx, r.db)).
		First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByEmail(ctx context.Context, email string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "contact_email = ?", email).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByCompanyName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "company_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context, offset, limit int, order, status, search string) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Supplier{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("company_name LIKE ? OR contact_email LIKE ?", pattern, pattern)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "created_at ASC"
	}
	if err := db.Order(order).Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}
