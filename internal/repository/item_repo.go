package repository

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

// ItemRepository defines data access for telecom inventory items
type ItemRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*model.InventoryItem, error)
	List(ctx context.Context, offset, limit int, order, category, search string) ([]model.InventoryItem, int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Omit("Supplier").Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.InventoryItem{}, id).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).Preload("Supplier").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindBySKU(ctx context.Context, sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, offset, limit int, order, category, search string) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if order == "" {
		order = "created_at ASC"
	}
	if err := db.Preload("Supplier").Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
