package service

import (
	"context"

	"telecom-inventory/internal/model"

	"gorm.io/gorm"
)

type SupplierCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Quantity int64  `json:"quantity"`
}

// StatsResponse aggregates dashboard counters across all modules
type StatsResponse struct {
	Users       int64           `json:"users"`
	Roles       int64           `json:"roles"`
	Permissions int64           `json:"permissions"`
	Suppliers   SupplierCounts  `json:"suppliers"`
	Items       int64           `json:"items"`
	Categories  []CategoryCount `json:"categories"`
	AuditRows   int64           `json:"audit_rows"`
}

type StatsService interface {
	GetStats(ctx context.Context) (*StatsResponse, error)
}

type statsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db}
}

// GetStats runs the dashboard counters. Aggregations go straight to the
// database; none of them mutate anything, so no transaction is needed.
func (s *statsService) GetStats(ctx context.Context) (*StatsResponse, error) {
	db := s.db.WithContext(ctx)
	resp := &StatsResponse{}

	if err := db.Model(&model.UserInfo{}).Count(&resp.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Role{}).Where("is_active = ?", true).Count(&resp.Roles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Permission{}).Count(&resp.Permissions).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}
	if err := db.Model(&model.Supplier{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case model.SupplierStatusPending:
			resp.Suppliers.Pending = sc.Count
		case model.SupplierStatusApproved:
			resp.Suppliers.Approved = sc.Count
		case model.SupplierStatusRejected:
			resp.Suppliers.Rejected = sc.Count
		}
		resp.Suppliers.Total += sc.Count
	}

	if err := db.Model(&model.InventoryItem{}).Count(&resp.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.InventoryItem{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(quantity), 0) as quantity").
		Group("category").
		Order("category ASC").
		Scan(&resp.Categories).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.AuditTrail{}).Count(&resp.AuditRows).Error; err != nil {
		return nil, err
	}

	return resp, nil
}
