package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"telecom-inventory/internal/repository"
)

// ExportService renders CSV snapshots of users, roles and permissions for
// offline review
type ExportService interface {
	ExportUsers(ctx context.Context) ([]byte, error)
	ExportRoles(ctx context.Context) ([]byte, error)
	ExportPermissions(ctx context.Context) ([]byte, error)
}

type exportService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewExportService(users repository.UserRepository, roles repository.RoleRepository) ExportService {
	return &exportService{users: users, roles: roles}
}

func (s *exportService) ExportUsers(ctx context.Context) ([]byte, error) {
	// Limit -1 disables pagination for the full dump
	infos, _, err := s.users.ListInfos(ctx, 0, -1, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	rows := [][]string{{"id", "username", "email", "roles", "is_admin", "is_supplier", "created_at"}}
	for i := range infos {
		info := &infos[i]
		rows = append(rows, []string{
			strconv.FormatUint(uint64(info.ID), 10),
			info.User.Username,
			info.Email,
			strings.Join(info.RoleNames(), ";"),
			strconv.FormatBool(info.IsAdmin),
			strconv.FormatBool(info.IsSupplier),
			info.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return renderCSV(rows)
}

func (s *exportService) ExportRoles(ctx context.Context) ([]byte, error) {
	roles, err := s.roles.ListRoles(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	rows := [][]string{{"id", "name", "description", "is_active", "permissions"}}
	for i := range roles {
		r := &roles[i]
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Description,
			strconv.FormatBool(r.IsActive),
			strings.Join(r.PermissionNames(), ";"),
		})
	}
	return renderCSV(rows)
}

func (s *exportService) ExportPermissions(ctx context.Context) ([]byte, error) {
	perms, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	rows := [][]string{{"id", "name", "description", "category"}}
	for _, p := range perms {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Description,
			p.Category,
		})
	}
	return renderCSV(rows)
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	return buf.Bytes(), nil
}
