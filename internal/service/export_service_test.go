package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportUsers_EmptyDatabaseKeepsHeader(t *testing.T) {
	f := newFixture(t)
	exports := NewExportService(f.userRepo, f.roleRepo)

	out, err := exports.ExportUsers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "id,username,email,roles,is_admin,is_supplier,created_at\n", string(out))
}

func TestExportUsers_RowsAfterHeader(t *testing.T) {
	f := newFixture(t)
	exports := NewExportService(f.userRepo, f.roleRepo)
	f.createUser(t, "bob", "bob@corp.example")

	out, err := exports.ExportUsers(context.Background())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "bob")
	assert.Contains(t, lines[1], "bob@corp.example")
	assert.Contains(t, lines[1], "employee")
}

func TestExportRoles_IncludesSeededCatalog(t *testing.T) {
	f := newFixture(t)
	exports := NewExportService(f.userRepo, f.roleRepo)

	out, err := exports.ExportRoles(context.Background())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, "id,name,description,is_active,permissions", lines[0])
	assert.Len(t, lines, 4)
	assert.Contains(t, string(out), "admin")
	assert.Contains(t, string(out), "supplier")
}

func TestExportPermissions(t *testing.T) {
	f := newFixture(t)
	exports := NewExportService(f.userRepo, f.roleRepo)

	out, err := exports.ExportPermissions(context.Background())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, "id,name,description,category", lines[0])
	assert.Greater(t, len(lines), 1)
	assert.Contains(t, string(out), "manage_roles")
}
