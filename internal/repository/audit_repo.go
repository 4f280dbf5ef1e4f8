package repository

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

// AuditRepository defines read access to the append-only audit trail.
// Writes go through the audit recorder on its own session, never through
// a caller's transaction, so no insert method is exposed here.
type AuditRepository interface {
	List(ctx context.Context, filter AuditFilter) ([]model.AuditTrail, int64, error)
}

// AuditFilter narrows audit trail listings
type AuditFilter struct {
	EntityType string
	EntityID   string
	Username   string
	Operation  string
	Offset     int
	Limit      int
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditTrail, int64, error) {
	var entries []model.AuditTrail
	var total int64

	db := GetDB(ctx, r.db).Model(&model.AuditTrail{})
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		db = db.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Username != "" {
		db = db.Where("username = ?", filter.Username)
	}
	if filter.Operation != "" {
		db = db.Where("operation_type = ?", filter.Operation)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("timestamp DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
