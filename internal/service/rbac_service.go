package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bulk assignment operations
const (
	BulkOpReplace = "replace"
	BulkOpAdd     = "add"
	BulkOpRemove  = "remove"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // Permission names
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdatePermissionRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles"`
}

type SetPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type BulkAssignRequest struct {
	IDs       []uint   `json:"ids" binding:"required"`
	Roles     []string `json:"roles"`
	Operation string   `json:"operation" binding:"required"`
}

type BulkPermissionRequest struct {
	IDs         []uint   `json:"ids" binding:"required"`
	Permissions []string `json:"permissions"`
	Operation   string   `json:"operation" binding:"required"`
}

// BulkResult partitions the targets of a bulk assignment. Every requested
// id lands in exactly one bucket; Errors carries the reason per failed id.
type BulkResult struct {
	Success   []uint          `json:"success"`
	Failed    []uint          `json:"failed"`
	Unchanged []uint          `json:"unchanged"`
	Errors    map[uint]string `json:"errors,omitempty"`
}

type RoleResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"is_active"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// --- Interface ---

type RBACService interface {
	ListRoles(ctx context.Context, includeInactive bool) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	CreateRole(ctx context.Context, actor audit.Actor, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actor audit.Actor, id uint, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actor audit.Actor, id uint) error

	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	CreatePermission(ctx context.Context, actor audit.Actor, req CreatePermissionRequest) (*PermissionResponse, error)
	UpdatePermission(ctx context.Context, actor audit.Actor, id uint, req UpdatePermissionRequest) (*PermissionResponse, error)
	DeletePermission(ctx context.Context, actor audit.Actor, id uint) error

	SetUserRoles(ctx context.Context, actor audit.Actor, userInfoID uint, roleNames []string) ([]string, error)
	SetRolePermissions(ctx context.Context, actor audit.Actor, roleID uint, permissionNames []string) (*RoleResponse, error)
	BulkSetUserRoles(ctx context.Context, actor audit.Actor, userIDs []uint, roleNames []string, op string) (*BulkResult, error)
	BulkSetRolePermissions(ctx context.Context, actor audit.Actor, roleIDs []uint, permissionNames []string, op string) (*BulkResult, error)

	PermissionsForUser(ctx context.Context, userInfoID uint) ([]string, error)
	SeedDefaults(ctx context.Context) error
}

type rbacService struct {
	roles repository.RoleRepository
	users repository.UserRepository
	tx    repository.TransactionManager
	sink  audit.Sink
}

func NewRBACService(roles repository.RoleRepository, users repository.UserRepository, tx repository.TransactionManager, sink audit.Sink) RBACService {
	return &rbacService{roles: roles, users: users, tx: tx, sink: sink}
}

// --- Roles ---

func (s *rbacService) ListRoles(ctx context.Context, includeInactive bool) ([]RoleResponse, error) {
	roles, err := s.roles.ListRoles(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *rbacService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.roles.FindRoleByID(ctx, id)
	if err != nil {
		return nil, errors.New("role not found")
	}
	resp := toRoleResponse(*role)
	return &resp, nil
}

func (s *rbacService) CreateRole(ctx context.Context, actor audit.Actor, req CreateRoleRequest) (*RoleResponse, error) {
	if _, err := s.roles.FindRoleByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("role '%s' already exists", req.Name)
	}

	role := model.Role{Name: req.Name, Description: req.Description, IsActive: true}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.CreateRole(txCtx, &role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		if len(req.Permissions) > 0 {
			perms, err := s.resolvePermissions(txCtx, req.Permissions)
			if err != nil {
				return err
			}
			if err := s.roles.ReplaceRolePermissions(txCtx, role.ID, permissionIDs(perms)); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Created(ctx, actor, &role)
	return s.GetRole(ctx, role.ID)
}

func (s *rbacService) UpdateRole(ctx context.Context, actor audit.Actor, id uint, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.FindRoleByID(ctx, id)
	if err != nil {
		return nil, errors.New("role not found")
	}
	if req.Name != role.Name {
		if _, err := s.roles.FindRoleByName(ctx, req.Name); err == nil {
			return nil, fmt.Errorf("role '%s' already exists", req.Name)
		}
	}

	before := *role
	role.Name = req.Name
	role.Description = req.Description
	if err := s.roles.UpdateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.sink.Updated(ctx, actor, &before, role)
	return s.GetRole(ctx, id)
}

// DeleteRole deactivates the role instead of removing the row, so audit
// history and existing assignments keep a referent.
func (s *rbacService) DeleteRole(ctx context.Context, actor audit.Actor, id uint) error {
	role, err := s.roles.FindRoleByID(ctx, id)
	if err != nil {
		return errors.New("role not found")
	}
	if !role.IsActive {
		return fmt.Errorf("role '%s' is already inactive", role.Name)
	}

	before := *role
	if err := s.roles.DeactivateRole(ctx, role); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.sink.Updated(ctx, actor, &before, role)
	return nil
}

// --- Permissions ---

func (s *rbacService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

func (s *rbacService) CreatePermission(ctx context.Context, actor audit.Actor, req CreatePermissionRequest) (*PermissionResponse, error) {
	if _, err := s.roles.FindPermissionByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("permission '%s' already exists", req.Name)
	}

	category := req.Category
	if category == "" {
		category = model.DefaultPermissionCategory
	}
	perm := model.Permission{Name: req.Name, Description: req.Description, Category: category}
	if err := s.roles.CreatePermission(ctx, &perm); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	s.sink.Created(ctx, actor, &perm)
	resp := toPermissionResponse(perm)
	return &resp, nil
}

func (s *rbacService) UpdatePermission(ctx context.Context, actor audit.Actor, id uint, req UpdatePermissionRequest) (*PermissionResponse, error) {
	perm, err := s.roles.FindPermissionByID(ctx, id)
	if err != nil {
		return nil, errors.New("permission not found")
	}

	before := *perm
	perm.Description = req.Description
	if req.Category != "" {
		perm.Category = req.Category
	}
	if err := s.roles.UpdatePermission(ctx, perm); err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}

	s.sink.Updated(ctx, actor, &before, perm)
	resp := toPermissionResponse(*perm)
	return &resp, nil
}

// DeletePermission hard-deletes the permission; the repository removes the
// role_permissions rows referencing it in the same call.
func (s *rbacService) DeletePermission(ctx context.Context, actor audit.Actor, id uint) error {
	perm, err := s.roles.FindPermissionByID(ctx, id)
	if err != nil {
		return errors.New("permission not found")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.roles.DeletePermission(txCtx, perm)
	})
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	s.sink.Deleted(ctx, actor, perm)
	return nil
}

// --- Assignment ---

// SetUserRoles replaces the user's role set with the named roles. Unknown
// or inactive names fail the whole call and leave assignments untouched.
func (s *rbacService) SetUserRoles(ctx context.Context, actor audit.Actor, userInfoID uint, roleNames []string) ([]string, error) {
	var oldNames, newNames []string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		info, err := s.users.GetInfoByID(txCtx, userInfoID)
		if err != nil {
			return errors.New("user not found")
		}
		roles, err := s.resolveRoles(txCtx, roleNames)
		if err != nil {
			return err
		}
		oldNames = info.RoleNames()
		newNames = roleNameList(roles)
		return s.roles.ReplaceUserRoles(txCtx, info.ID, roleIDList(roles))
	})
	if err != nil {
		return nil, err
	}

	if !equalNameSets(oldNames, newNames) {
		s.sink.Action(ctx, actor, model.OpRoleChange, "set_roles", "userinfo", strconv.FormatUint(uint64(userInfoID), 10),
			map[string]audit.Change{"roles": {Old: oldNames, New: newNames}}, true, "")
	}
	return newNames, nil
}

// SetRolePermissions replaces the role's permission set with the named
// permissions. Unknown names fail the whole call.
func (s *rbacService) SetRolePermissions(ctx context.Context, actor audit.Actor, roleID uint, permissionNames []string) (*RoleResponse, error) {
	var oldNames, newNames []string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.roles.FindRoleByID(txCtx, roleID)
		if err != nil {
			return errors.New("role not found")
		}
		perms, err := s.resolvePermissions(txCtx, permissionNames)
		if err != nil {
			return err
		}
		oldNames = role.PermissionNames()
		newNames = permissionNameList(perms)
		return s.roles.ReplaceRolePermissions(txCtx, role.ID, permissionIDs(perms))
	})
	if err != nil {
		return nil, err
	}

	if !equalNameSets(oldNames, newNames) {
		s.sink.Action(ctx, actor, model.OpPermissionChange, "set_permissions", "role", strconv.FormatUint(uint64(roleID), 10),
			map[string]audit.Change{"permissions": {Old: oldNames, New: newNames}}, true, "")
	}
	return s.GetRole(ctx, roleID)
}

// BulkSetUserRoles applies one role operation to many users. Unknown role
// names abort the whole call; a missing user id only fails that item, the
// rest of the batch still commits.
func (s *rbacService) BulkSetUserRoles(ctx context.Context, actor audit.Actor, userIDs []uint, roleNames []string, op string) (*BulkResult, error) {
	if err := validateBulkOp(op); err != nil {
		return nil, err
	}

	res := newBulkResult()
	ctx = audit.ContextWithTransactionID(ctx, uuid.NewString())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		roles, err := s.resolveRoles(txCtx, roleNames)
		if err != nil {
			return err
		}
		target := roleIDList(roles)

		for _, id := range userIDs {
			var changed bool
			itemErr := s.tx.RunNested(txCtx, func(nCtx context.Context) error {
				if _, err := s.users.GetInfoByID(nCtx, id); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("user not found")
					}
					return err
				}
				current, err := s.roles.UserRoleIDs(nCtx, id)
				if err != nil {
					return err
				}
				var apply error
				switch op {
				case BulkOpReplace:
					if equalIDSets(current, target) {
						return nil
					}
					changed = true
					apply = s.roles.ReplaceUserRoles(nCtx, id, target)
				case BulkOpAdd:
					toAdd := subtractIDs(target, current)
					if len(toAdd) == 0 {
						return nil
					}
					changed = true
					apply = s.roles.AddUserRoles(nCtx, id, toAdd)
				case BulkOpRemove:
					toRemove := intersectIDs(target, current)
					if len(toRemove) == 0 {
						return nil
					}
					changed = true
					apply = s.roles.RemoveUserRoles(nCtx, id, toRemove)
				}
				return apply
			})
			res.record(id, changed, itemErr)
		}
		return nil
	})
	if err != nil {
		s.sink.Action(ctx, actor, model.OpRoleChange, "bulk_"+op+"_roles", "userinfo", "",
			map[string]audit.Change{"roles": {Old: nil, New: roleNames}}, false, err.Error())
		return nil, err
	}

	s.sink.Action(ctx, actor, model.OpRoleChange, "bulk_"+op+"_roles", "userinfo", "",
		map[string]audit.Change{"roles": {Old: nil, New: roleNames}}, true, "")
	return res, nil
}

// BulkSetRolePermissions applies one permission operation to many roles.
// Same per-item isolation as BulkSetUserRoles.
func (s *rbacService) BulkSetRolePermissions(ctx context.Context, actor audit.Actor, roleIDs []uint, permissionNames []string, op string) (*BulkResult, error) {
	if err := validateBulkOp(op); err != nil {
		return nil, err
	}

	res := newBulkResult()
	ctx = audit.ContextWithTransactionID(ctx, uuid.NewString())

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		perms, err := s.resolvePermissions(txCtx, permissionNames)
		if err != nil {
			return err
		}
		target := permissionIDs(perms)

		for _, id := range roleIDs {
			var changed bool
			itemErr := s.tx.RunNested(txCtx, func(nCtx context.Context) error {
				if _, err := s.roles.FindRoleByID(nCtx, id); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return errors.New("role not found")
					}
					return err
				}
				current, err := s.roles.RolePermissionIDs(nCtx, id)
				if err != nil {
					return err
				}
				var apply error
				switch op {
				case BulkOpReplace:
					if equalIDSets(current, target) {
						return nil
					}
					changed = true
					apply = s.roles.ReplaceRolePermissions(nCtx, id, target)
				case BulkOpAdd:
					toAdd := subtractIDs(target, current)
					if len(toAdd) == 0 {
						return nil
					}
					changed = true
					apply = s.roles.AddRolePermissions(nCtx, id, toAdd)
				case BulkOpRemove:
					toRemove := intersectIDs(target, current)
					if len(toRemove) == 0 {
						return nil
					}
					changed = true
					apply = s.roles.RemoveRolePermissions(nCtx, id, toRemove)
				}
				return apply
			})
			res.record(id, changed, itemErr)
		}
		return nil
	})
	if err != nil {
		s.sink.Action(ctx, actor, model.OpPermissionChange, "bulk_"+op+"_permissions", "role", "",
			map[string]audit.Change{"permissions": {Old: nil, New: permissionNames}}, false, err.Error())
		return nil, err
	}

	s.sink.Action(ctx, actor, model.OpPermissionChange, "bulk_"+op+"_permissions", "role", "",
		map[string]audit.Change{"permissions": {Old: nil, New: permissionNames}}, true, "")
	return res, nil
}

func (s *rbacService) PermissionsForUser(ctx context.Context, userInfoID uint) ([]string, error) {
	info, err := s.users.GetInfoByID(ctx, userInfoID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return info.PermissionNames(), nil
}

// --- Seeding ---

type seedRole struct {
	description string
	permissions []string
}

// SeedDefaults creates the default permission catalog, the three built-in
// roles and their assignments. Safe to call on every startup.
func (s *rbacService) SeedDefaults(ctx context.Context) error {
	defaultPermissions := []model.Permission{
		{Name: "view_supplier", Description: "View supplier records", Category: "Suppliers"},
		{Name: "create_supplier", Description: "Register new suppliers", Category: "Suppliers"},
		{Name: "edit_supplier", Description: "Edit supplier records", Category: "Suppliers"},
		{Name: "delete_supplier", Description: "Delete supplier records", Category: "Suppliers"},
		{Name: "manage_supplier_approval", Description: "Approve or reject supplier registrations", Category: "Suppliers"},
		{Name: "view_user", Description: "View user accounts", Category: "Users"},
		{Name: "create_user", Description: "Create user accounts", Category: "Users"},
		{Name: "edit_user", Description: "Edit user accounts", Category: "Users"},
		{Name: "delete_user", Description: "Delete user accounts", Category: "Users"},
		{Name: "view_inventory", Description: "View inventory items", Category: "Inventory"},
		{Name: "create_inventory", Description: "Add inventory items", Category: "Inventory"},
		{Name: "update_inventory", Description: "Update inventory items", Category: "Inventory"},
		{Name: "delete_inventory", Description: "Remove inventory items", Category: "Inventory"},
		{Name: "manage_roles", Description: "Manage roles and permissions", Category: "Roles"},
		{Name: "view_audit", Description: "View the audit trail", Category: "Audit"},
		{Name: "view_dashboard", Description: "View dashboard statistics", Category: "Dashboard"},
		{Name: "view_profile", Description: "View own profile", Category: "Profile"},
		{Name: "edit_profile", Description: "Edit own profile", Category: "Profile"},
	}

	for i := range defaultPermissions {
		p := &defaultPermissions[i]
		existing, err := s.roles.FindPermissionByName(ctx, p.Name)
		if err == nil {
			p.ID = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up permission '%s': %w", p.Name, err)
		}
		if err := s.roles.CreatePermission(ctx, p); err != nil {
			return fmt.Errorf("failed to seed permission '%s': %w", p.Name, err)
		}
	}

	allNames := make([]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		allNames = append(allNames, p.Name)
	}

	roleDefinitions := map[string]seedRole{
		"admin": {
			description: "Full access to every module",
			permissions: allNames,
		},
		"employee": {
			description: "Day-to-day inventory and supplier work",
			permissions: []string{
				"view_inventory", "create_inventory", "update_inventory",
				"view_supplier", "view_dashboard",
				"view_profile", "edit_profile",
			},
		},
		"supplier": {
			description: "Supplier portal access",
			permissions: []string{
				"view_supplier", "edit_supplier",
				"view_inventory", "create_inventory", "update_inventory",
				"view_profile", "edit_profile",
			},
		},
	}

	for name, def := range roleDefinitions {
		role, err := s.roles.FindRoleByName(ctx, name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up role '%s': %w", name, err)
			}
			role = &model.Role{Name: name, Description: def.description, IsActive: true}
			if err := s.roles.CreateRole(ctx, role); err != nil {
				return fmt.Errorf("failed to seed role '%s': %w", name, err)
			}
		}

		perms, err := s.roles.FindPermissionsByNames(ctx, def.permissions)
		if err != nil {
			return fmt.Errorf("failed to fetch permissions for role '%s': %w", name, err)
		}
		if err := s.roles.ReplaceRolePermissions(ctx, role.ID, permissionIDs(perms)); err != nil {
			return fmt.Errorf("failed to assign permissions to role '%s': %w", name, err)
		}
	}

	return nil
}

// --- Helpers ---

func (s *rbacService) resolveRoles(ctx context.Context, names []string) ([]model.Role, error) {
	roles, err := s.roles.FindActiveRolesByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	if missing := missingNames(names, roleNameList(roles)); len(missing) > 0 {
		return nil, fmt.Errorf("roles not found: %s", strings.Join(missing, ", "))
	}
	return roles, nil
}

func (s *rbacService) resolvePermissions(ctx context.Context, names []string) ([]model.Permission, error) {
	perms, err := s.roles.FindPermissionsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	if missing := missingNames(names, permissionNameList(perms)); len(missing) > 0 {
		return nil, fmt.Errorf("permissions not found: %s", strings.Join(missing, ", "))
	}
	return perms, nil
}

func validateBulkOp(op string) error {
	switch op {
	case BulkOpReplace, BulkOpAdd, BulkOpRemove:
		return nil
	default:
		return fmt.Errorf("invalid bulk operation '%s'", op)
	}
}

func newBulkResult() *BulkResult {
	return &BulkResult{
		Success:   []uint{},
		Failed:    []uint{},
		Unchanged: []uint{},
		Errors:    map[uint]string{},
	}
}

func (r *BulkResult) record(id uint, changed bool, err error) {
	switch {
	case err != nil:
		r.Failed = append(r.Failed, id)
		r.Errors[id] = err.Error()
	case changed:
		r.Success = append(r.Success, id)
	default:
		r.Unchanged = append(r.Unchanged, id)
	}
}

// missingNames preserves the caller's order for the error message
func missingNames(requested, found []string) []string {
	have := make(map[string]bool, len(found))
	for _, n := range found {
		have[n] = true
	}
	seen := make(map[string]bool, len(requested))
	missing := make([]string, 0)
	for _, n := range requested {
		if !have[n] && !seen[n] {
			seen[n] = true
			missing = append(missing, n)
		}
	}
	return missing
}

func roleNameList(roles []model.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

func roleIDList(roles []model.Role) []uint {
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func permissionNameList(perms []model.Permission) []string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names
}

func permissionIDs(perms []model.Permission) []uint {
	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids
}

func equalIDSets(a, b []uint) bool {
	if len(toIDSet(a)) != len(toIDSet(b)) {
		return false
	}
	set := toIDSet(b)
	for _, id := range a {
		if !set[id] {
			return false
		}
	}
	return true
}

func equalNameSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(b))
	for _, n := range b {
		set[n] = true
	}
	for _, n := range a {
		if !set[n] {
			return false
		}
	}
	return true
}

func toIDSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func subtractIDs(want, have []uint) []uint {
	set := toIDSet(have)
	out := make([]uint, 0, len(want))
	for _, id := range want {
		if !set[id] {
			out = append(out, id)
		}
	}
	return out
}

func intersectIDs(want, have []uint) []uint {
	set := toIDSet(have)
	out := make([]uint, 0, len(want))
	for _, id := range want {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
	}
}
