package service

import (
	"context"
	"errors"
	"fmt"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"
	ws "telecom-inventory/internal/websocket"
	"telecom-inventory/pkg/pagination"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Quantity    int    `json:"quantity"`
	SupplierID  *uint  `json:"supplier_id"`
}

type UpdateItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Quantity    *int   `json:"quantity"`
	SupplierID  *uint  `json:"supplier_id"`
}

type ItemResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Category    string `json:"category"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	SupplierID  *uint  `json:"supplier_id,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type ItemService interface {
	CreateItem(ctx context.Context, actor audit.Actor, req CreateItemRequest) (*ItemResponse, error)
	GetItem(ctx context.Context, id uint) (*ItemResponse, error)
	ListItems(ctx context.Context, params pagination.Params, category string) ([]ItemResponse, int64, error)
	UpdateItem(ctx context.Context, actor audit.Actor, id uint, req UpdateItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, actor audit.Actor, id uint) error
}

type itemService struct {
	items     repository.ItemRepository
	suppliers repository.SupplierRepository
	tx        repository.TransactionManager
	sink      audit.Sink
	hub       *ws.Hub
}

func NewItemService(items repository.ItemRepository, suppliers repository.SupplierRepository, tx repository.TransactionManager, sink audit.Sink, hub *ws.Hub) ItemService {
	return &itemService{items: items, suppliers: suppliers, tx: tx, sink: sink, hub: hub}
}

// --- Implementation ---

func validCategory(category string) bool {
	switch category {
	case model.ItemCategoryRouter, model.ItemCategorySwitch, model.ItemCategoryAntenna,
		model.ItemCategoryCable, model.ItemCategoryHandset, model.ItemCategorySimCard,
		model.ItemCategoryModem, model.ItemCategoryOther:
		return true
	}
	return false
}

func (s *itemService) CreateItem(ctx context.Context, actor audit.Actor, req CreateItemRequest) (*ItemResponse, error) {
	if !validCategory(req.Category) {
		return nil, fmt.Errorf("invalid category '%s'", req.Category)
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, errors.New("invalid unit price")
	}
	if price.IsNegative() {
		return nil, errors.New("unit price cannot be negative")
	}
	if req.Quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}
	if _, err := s.items.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("sku '%s' already exists", req.SKU)
	}
	if req.SupplierID != nil {
		supplier, err := s.suppliers.FindByID(ctx, *req.SupplierID)
		if err != nil {
			return nil, errors.New("supplier not found")
		}
		if supplier.Status != model.SupplierStatusApproved {
			return nil, errors.New("supplier is not approved")
		}
	}

	item := &model.InventoryItem{
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		UnitPrice:   price,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.sink.Created(ctx, actor, item)
	s.hub.Publish(ws.Event{Type: "inventory", Action: "created", EntityID: item.ID, Payload: toItemResponse(item)})
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) GetItem(ctx context.Context, id uint) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("item not found")
	}
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) ListItems(ctx context.Context, params pagination.Params, category string) ([]ItemResponse, int64, error) {
	items, total, err := s.items.List(ctx, params.Offset, params.Limit, params.OrderClause(), category, params.Search)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	return responses, total, nil
}

func (s *itemService) UpdateItem(ctx context.Context, actor audit.Actor, id uint, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("item not found")
	}
	before := *item

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Category != "" {
		if !validCategory(req.Category) {
			return nil, fmt.Errorf("invalid category '%s'", req.Category)
		}
		item.Category = req.Category
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.UnitPrice != "" {
		price, err := decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, errors.New("invalid unit price")
		}
		if price.IsNegative() {
			return nil, errors.New("unit price cannot be negative")
		}
		item.UnitPrice = price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, errors.New("quantity cannot be negative")
		}
		item.Quantity = *req.Quantity
	}
	if req.SupplierID != nil {
		supplier, err := s.suppliers.FindByID(ctx, *req.SupplierID)
		if err != nil {
			return nil, errors.New("supplier not found")
		}
		if supplier.Status != model.SupplierStatusApproved {
			return nil, errors.New("supplier is not approved")
		}
		item.SupplierID = req.SupplierID
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.sink.Updated(ctx, actor, &before, item)
	s.hub.Publish(ws.Event{Type: "inventory", Action: "updated", EntityID: item.ID, Payload: toItemResponse(item)})
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) DeleteItem(ctx context.Context, actor audit.Actor, id uint) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return errors.New("item not found")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.sink.Deleted(ctx, actor, item)
	s.hub.Publish(ws.Event{Type: "inventory", Action: "deleted", EntityID: id})
	return nil
}

func toItemResponse(item *model.InventoryItem) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		SKU:         item.SKU,
		Category:    item.Category,
		Description: item.Description,
		UnitPrice:   item.UnitPrice.StringFixed(2),
		Quantity:    item.Quantity,
		SupplierID:  item.SupplierID,
		CreatedAt:   item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if item.Supplier != nil {
		resp.Supplier = item.Supplier.CompanyName
	}
	return resp
}
