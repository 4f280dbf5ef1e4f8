package service

import (
	"context"
	"encoding/json"

	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"
	"telecom-inventory/pkg/pagination"
)

// --- DTOs ---

type AuditListRequest struct {
	EntityType string
	EntityID   string
	Username   string
	Operation  string
}

type AuditResponse struct {
	ID            uint                   `json:"id"`
	Timestamp     string                 `json:"timestamp"`
	UserID        *uint                  `json:"user_id"`
	Username      string                 `json:"username"`
	OperationType string                 `json:"operation_type"`
	OperationName string                 `json:"operation_name"`
	EntityType    string                 `json:"entity_type"`
	EntityID      string                 `json:"entity_id"`
	Changes       map[string]interface{} `json:"changes"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	Success       bool                   `json:"success"`
	ErrorMessage  string                 `json:"error_message,omitempty"`
}

// --- Interface ---

type AuditService interface {
	ListEntries(ctx context.Context, params pagination.Params, req AuditListRequest) ([]AuditResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListEntries(ctx context.Context, params pagination.Params, req AuditListRequest) ([]AuditResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, repository.AuditFilter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Username:   req.Username,
		Operation:  req.Operation,
		Offset:     params.Offset,
		Limit:      params.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AuditResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toAuditResponse(&entries[i]))
	}
	return responses, total, nil
}

func toAuditResponse(e *model.AuditTrail) AuditResponse {
	var changes map[string]interface{}
	if e.Changes != "" {
		// Stored as JSON text; a corrupt row just renders empty changes
		_ = json.Unmarshal([]byte(e.Changes), &changes)
	}
	return AuditResponse{
		ID:            e.ID,
		Timestamp:     e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		UserID:        e.UserID,
		Username:      e.Username,
		OperationType: e.OperationType,
		OperationName: e.OperationName,
		EntityType:    e.EntityType,
		EntityID:      e.EntityID,
		Changes:       changes,
		TransactionID: e.TransactionID,
		Success:       e.Success,
		ErrorMessage:  e.ErrorMessage,
	}
}
