package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"
	"telecom-inventory/pkg/pagination"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSupplierPassword is set on accounts provisioned during approval.
// Suppliers are expected to change it on first login.
const DefaultSupplierPassword = "Supplier123!"

// SupplierRole is assigned to provisioned supplier accounts
const SupplierRole = "supplier"

// --- DTOs ---

type SupplierRegisterRequest struct {
	CompanyName  string `json:"company_name" binding:"required"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" binding:"required"`
	ContactPhone string `json:"contact_phone"`
}

type SupplierResponse struct {
	ID           uint   `json:"id"`
	CompanyName  string `json:"company_name"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Status       string `json:"status"`
	UserInfoID   *uint  `json:"user_info_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

type SupplierService interface {
	Register(ctx context.Context, req SupplierRegisterRequest) (*SupplierResponse, error)
	GetSupplier(ctx context.Context, id uint) (*SupplierResponse, error)
	ListSuppliers(ctx context.Context, params pagination.Params, status string) ([]SupplierResponse, int64, error)
	Approve(ctx context.Context, actor audit.Actor, id uint) (*SupplierResponse, error)
	Reject(ctx context.Context, actor audit.Actor, id uint) error
	Revoke(ctx context.Context, actor audit.Actor, id uint) error
}

type supplierService struct {
	suppliers repository.SupplierRepository
	users     repository.UserRepository
	roles     repository.RoleRepository
	tx        repository.TransactionManager
	sink      audit.Sink
}

func NewSupplierService(suppliers repository.SupplierRepository, users repository.UserRepository, roles repository.RoleRepository, tx repository.TransactionManager, sink audit.Sink) SupplierService {
	return &supplierService{suppliers: suppliers, users: users, roles: roles, tx: tx, sink: sink}
}

// --- Implementation ---

// Register files a supplier application in pending status. No account is
// created until an administrator approves it.
func (s *supplierService) Register(ctx context.Context, req SupplierRegisterRequest) (*SupplierResponse, error) {
	if err := validateEmail(req.ContactEmail); err != nil {
		return nil, err
	}
	if _, err := s.suppliers.FindByCompanyName(ctx, req.CompanyName); err == nil {
		return nil, errors.New("company name already registered")
	}
	if _, err := s.suppliers.FindByEmail(ctx, req.ContactEmail); err == nil {
		return nil, errors.New("contact email already registered")
	}

	supplier := &model.Supplier{
		CompanyName:  req.CompanyName,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Status:       model.SupplierStatusPending,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to register supplier: %w", err)
	}

	s.sink.Created(ctx, audit.Actor{}, supplier)
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uint) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	resp := toSupplierResponse(supplier)
	return &resp, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, params pagination.Params, status string) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.suppliers.List(ctx, params.Offset, params.Limit, params.OrderClause(), status, params.Search)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, toSupplierResponse(&suppliers[i]))
	}
	return responses, total, nil
}

// Approve moves a pending application to approved and provisions the
// portal account: a User with the default password, a UserInfo flagged as
// supplier, the supplier role, and the link back to the supplier row. The
// whole transition is one transaction.
func (s *supplierService) Approve(ctx context.Context, actor audit.Actor, id uint) (*SupplierResponse, error) {
	ctx = audit.ContextWithTransactionID(ctx, uuid.NewString())

	var oldStatus string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err := s.suppliers.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return errors.New("supplier not found")
		}
		if supplier.Status == model.SupplierStatusApproved {
			return errors.New("supplier already approved")
		}
		oldStatus = supplier.Status

		if supplier.UserInfoID == nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultSupplierPassword), bcrypt.DefaultCost)
			if err != nil {
				return errors.New("failed to hash password")
			}
			user := &model.User{Username: supplier.ContactEmail, PasswordHash: string(hashed), Enabled: true}
			if err := s.users.CreateUser(txCtx, user); err != nil {
				return fmt.Errorf("failed to provision account: %w", err)
			}
			info := &model.UserInfo{UserID: user.ID, Email: supplier.ContactEmail, IsSupplier: true}
			if err := s.users.CreateUserInfo(txCtx, info); err != nil {
				return fmt.Errorf("failed to provision profile: %w", err)
			}

			roles, err := s.roles.FindActiveRolesByNames(txCtx, []string{SupplierRole})
			if err != nil || len(roles) == 0 {
				return errors.New("supplier role not found")
			}
			if err := s.roles.ReplaceUserRoles(txCtx, info.ID, []uint{roles[0].ID}); err != nil {
				return fmt.Errorf("failed to assign supplier role: %w", err)
			}
			supplier.UserInfoID = &info.ID
		}

		supplier.Status = model.SupplierStatusApproved
		return s.suppliers.Update(txCtx, supplier)
	})
	if err != nil {
		s.sink.Action(ctx, actor, model.OpUpdate, "supplier_approval", "supplier", strconv.FormatUint(uint64(id), 10),
			nil, false, err.Error())
		return nil, err
	}

	s.sink.Action(ctx, actor, model.OpUpdate, "supplier_approval", "supplier", strconv.FormatUint(uint64(id), 10),
		map[string]audit.Change{"status": {Old: oldStatus, New: model.SupplierStatusApproved}}, true, "")
	return s.GetSupplier(ctx, id)
}

// Reject removes a pending application outright. Approved suppliers must
// go through Revoke so the provisioned account is cleaned up too.
func (s *supplierService) Reject(ctx context.Context, actor audit.Actor, id uint) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err := s.suppliers.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return errors.New("supplier not found")
		}
		if supplier.Status == model.SupplierStatusApproved {
			return errors.New("supplier already approved")
		}
		return s.suppliers.Delete(txCtx, supplier.ID)
	})
	if err != nil {
		s.sink.Action(ctx, actor, model.OpDelete, "supplier_rejection", "supplier", strconv.FormatUint(uint64(id), 10),
			nil, false, err.Error())
		return err
	}

	s.sink.Action(ctx, actor, model.OpDelete, "supplier_rejection", "supplier", strconv.FormatUint(uint64(id), 10),
		nil, true, "")
	return nil
}

// Revoke tears down an approved supplier. Deleting the linked account
// cascades over role assignments, the profile and the supplier row; a
// supplier approved without a link (legacy data) loses only its row.
func (s *supplierService) Revoke(ctx context.Context, actor audit.Actor, id uint) error {
	ctx = audit.ContextWithTransactionID(ctx, uuid.NewString())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err := s.suppliers.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return errors.New("supplier not found")
		}
		if supplier.Status != model.SupplierStatusApproved {
			return errors.New("supplier is not approved")
		}

		if supplier.UserInfoID != nil {
			info, err := s.users.GetInfoByID(txCtx, *supplier.UserInfoID)
			if err != nil {
				return errors.New("linked account not found")
			}
			return s.users.DeleteUser(txCtx, info)
		}
		return s.suppliers.Delete(txCtx, supplier.ID)
	})
	if err != nil {
		s.sink.Action(ctx, actor, model.OpDelete, "supplier_revocation", "supplier", strconv.FormatUint(uint64(id), 10),
			nil, false, err.Error())
		return err
	}

	s.sink.Action(ctx, actor, model.OpDelete, "supplier_revocation", "supplier", strconv.FormatUint(uint64(id), 10),
		nil, true, "")
	return nil
}

func toSupplierResponse(s *model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID,
		CompanyName:  s.CompanyName,
		Description:  s.Description,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Status:       s.Status,
		UserInfoID:   s.UserInfoID,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
