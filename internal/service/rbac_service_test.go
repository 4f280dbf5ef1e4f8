package service

import (
	"context"
	"testing"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSeedDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	roles, err := f.rbac.ListRoles(ctx, false)
	assert.NoError(t, err)
	assert.Len(t, roles, 3)

	byName := map[string]RoleResponse{}
	for _, r := range roles {
		byName[r.Name] = r
	}
	assert.Contains(t, byName, "admin")
	assert.Contains(t, byName, "employee")
	assert.Contains(t, byName, "supplier")
	assert.Greater(t, len(byName["admin"].Permissions), len(byName["employee"].Permissions))

	// Seeding again must not duplicate anything
	assert.NoError(t, f.rbac.SeedDefaults(ctx))
	perms, err := f.rbac.ListPermissions(ctx)
	assert.NoError(t, err)
	seen := map[string]bool{}
	for _, p := range perms {
		assert.False(t, seen[p.Name], "duplicate permission %s", p.Name)
		seen[p.Name] = true
	}
}

func TestSetUserRoles_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	roles, err := f.rbac.SetUserRoles(ctx, audit.SystemActor, user.ID, []string{"admin", "employee"})
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin", "employee"}, roles)

	got, err := f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin", "employee"}, got.Roles)

	assert.Equal(t, int64(1), f.auditCount(t, "set_roles"))

	// Setting the identical role set again records nothing new
	_, err = f.rbac.SetUserRoles(ctx, audit.SystemActor, user.ID, []string{"employee", "admin"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), f.auditCount(t, "set_roles"))
}

func TestSetUserRoles_UnknownRoleLeavesAssignmentsUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	_, err := f.rbac.SetUserRoles(ctx, audit.SystemActor, user.ID, []string{"admin", "ghost"})
	assert.EqualError(t, err, "roles not found: ghost")

	got, err := f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"employee"}, got.Roles)
}

func TestSetUserRoles_InactiveRoleIsUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	role, err := f.rbac.CreateRole(ctx, audit.SystemActor, CreateRoleRequest{Name: "auditor"})
	assert.NoError(t, err)
	assert.NoError(t, f.rbac.DeleteRole(ctx, audit.SystemActor, role.ID))

	_, err = f.rbac.SetUserRoles(ctx, audit.SystemActor, user.ID, []string{"auditor"})
	assert.EqualError(t, err, "roles not found: auditor")
}

func TestSetRolePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.rbac.CreateRole(ctx, audit.SystemActor, CreateRoleRequest{Name: "auditor", Description: "read only"})
	assert.NoError(t, err)

	updated, err := f.rbac.SetRolePermissions(ctx, audit.SystemActor, role.ID, []string{"view_audit", "view_user"})
	assert.NoError(t, err)
	names := make([]string, 0, len(updated.Permissions))
	for _, p := range updated.Permissions {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"view_audit", "view_user"}, names)

	_, err = f.rbac.SetRolePermissions(ctx, audit.SystemActor, role.ID, []string{"view_audit", "fly"})
	assert.EqualError(t, err, "permissions not found: fly")

	// Failed call must not have touched the assignment
	got, err := f.rbac.GetRole(ctx, role.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Permissions, 2)
}

func TestBulkSetUserRoles_PerItemIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u1 := f.createUser(t, "user1", "u1@corp.example")
	u2 := f.createUser(t, "user2", "u2@corp.example")
	u3 := f.createUser(t, "user3", "u3@corp.example")
	assert.NoError(t, f.users.DeleteUser(ctx, audit.SystemActor, u2.ID))

	res, err := f.rbac.BulkSetUserRoles(ctx, audit.SystemActor,
		[]uint{u1.ID, u2.ID, u3.ID}, []string{"admin"}, BulkOpAdd)
	assert.NoError(t, err)
	assert.Equal(t, []uint{u1.ID, u3.ID}, res.Success)
	assert.Equal(t, []uint{u2.ID}, res.Failed)
	assert.Empty(t, res.Unchanged)
	assert.Equal(t, "user not found", res.Errors[u2.ID])

	// The surviving targets were actually changed
	got, err := f.users.GetUser(ctx, u1.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"employee", "admin"}, got.Roles)
}

func TestBulkSetUserRoles_AddAlreadyHeldIsUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	res, err := f.rbac.BulkSetUserRoles(ctx, audit.SystemActor,
		[]uint{user.ID}, []string{"employee"}, BulkOpAdd)
	assert.NoError(t, err)
	assert.Empty(t, res.Success)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []uint{user.ID}, res.Unchanged)
}

func TestBulkSetUserRoles_RemoveAndReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	res, err := f.rbac.BulkSetUserRoles(ctx, audit.SystemActor,
		[]uint{user.ID}, []string{"employee"}, BulkOpRemove)
	assert.NoError(t, err)
	assert.Equal(t, []uint{user.ID}, res.Success)

	got, err := f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Empty(t, got.Roles)

	res, err = f.rbac.BulkSetUserRoles(ctx, audit.SystemActor,
		[]uint{user.ID}, []string{"admin"}, BulkOpReplace)
	assert.NoError(t, err)
	assert.Equal(t, []uint{user.ID}, res.Success)

	got, err = f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"admin"}, got.Roles)
}

func TestBulkSetUserRoles_UnknownRoleAbortsWholeBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	_, err := f.rbac.BulkSetUserRoles(ctx, audit.SystemActor,
		[]uint{user.ID}, []string{"ghost"}, BulkOpAdd)
	assert.EqualError(t, err, "roles not found: ghost")

	got, err := f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"employee"}, got.Roles)
}

func TestBulkSetUserRoles_InvalidOperation(t *testing.T) {
	f := newFixture(t)

	_, err := f.rbac.BulkSetUserRoles(context.Background(), audit.SystemActor,
		[]uint{1}, []string{"admin"}, "merge")
	assert.EqualError(t, err, "invalid bulk operation 'merge'")
}

func TestDeletePermission_CascadesRoleAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	perm, err := f.roleRepo.FindPermissionByName(ctx, "view_supplier")
	assert.NoError(t, err)

	var before int64
	assert.NoError(t, f.db.Model(&model.RolePermission{}).Where("permission_id = ?", perm.ID).Count(&before).Error)
	assert.Greater(t, before, int64(0))

	assert.NoError(t, f.rbac.DeletePermission(ctx, audit.SystemActor, perm.ID))

	var after int64
	assert.NoError(t, f.db.Model(&model.RolePermission{}).Where("permission_id = ?", perm.ID).Count(&after).Error)
	assert.Zero(t, after)

	_, err = f.roleRepo.FindPermissionByName(ctx, "view_supplier")
	assert.Error(t, err)
}

func TestDeleteRole_SoftDeleteHidesFromUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	role, err := f.roleRepo.FindRoleByName(ctx, "employee")
	assert.NoError(t, err)
	assert.NoError(t, f.rbac.DeleteRole(ctx, audit.SystemActor, role.ID))

	// The join row survives but the role no longer surfaces
	got, err := f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err)
	assert.Empty(t, got.Roles)

	active, err := f.rbac.ListRoles(ctx, false)
	assert.NoError(t, err)
	for _, r := range active {
		assert.NotEqual(t, "employee", r.Name)
	}

	all, err := f.rbac.ListRoles(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateRole_DuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.rbac.CreateRole(context.Background(), audit.SystemActor, CreateRoleRequest{Name: "admin"})
	assert.EqualError(t, err, "role 'admin' already exists")
}

func TestPermissionsForUser_DeduplicatesAcrossRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	_, err := f.rbac.SetUserRoles(ctx, audit.SystemActor, user.ID, []string{"employee", "supplier"})
	assert.NoError(t, err)

	perms, err := f.rbac.PermissionsForUser(ctx, user.ID)
	assert.NoError(t, err)
	seen := map[string]bool{}
	for _, p := range perms {
		assert.False(t, seen[p], "duplicate permission %s", p)
		seen[p] = true
	}
	// Shared permissions appear once, union covers both roles
	assert.True(t, seen["view_inventory"])
	assert.True(t, seen["edit_supplier"])
}
