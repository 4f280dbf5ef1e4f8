package service

import (
	"context"
	"testing"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"

	"github.com/stretchr/testify/assert"
)

func (f *fixture) registerSupplier(t *testing.T, company, email string) *SupplierResponse {
	t.Helper()
	supplier, err := f.suppliers.Register(context.Background(), SupplierRegisterRequest{
		CompanyName:  company,
		ContactEmail: email,
		ContactPhone: "+84-28-5551000",
	})
	if err != nil {
		t.Fatalf("register supplier %s: %v", company, err)
	}
	return supplier
}

func TestSupplierRegister_StartsPending(t *testing.T) {
	f := newFixture(t)

	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")
	assert.Equal(t, model.SupplierStatusPending, supplier.Status)
	assert.Nil(t, supplier.UserInfoID)
	assert.Equal(t, int64(1), f.auditCount(t, "create_supplier"))
}

func TestSupplierRegister_Duplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	_, err := f.suppliers.Register(ctx, SupplierRegisterRequest{
		CompanyName:  "ViettelNet",
		ContactEmail: "other@viettelnet.example",
	})
	assert.EqualError(t, err, "company name already registered")

	_, err = f.suppliers.Register(ctx, SupplierRegisterRequest{
		CompanyName:  "ViettelNet 2",
		ContactEmail: "sales@viettelnet.example",
	})
	assert.EqualError(t, err, "contact email already registered")

	_, err = f.suppliers.Register(ctx, SupplierRegisterRequest{
		CompanyName:  "ViettelNet 3",
		ContactEmail: "not-an-email",
	})
	assert.EqualError(t, err, "invalid email format")
}

func TestSupplierApprove_ProvisionsAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	approved, err := f.suppliers.Approve(ctx, audit.SystemActor, supplier.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.SupplierStatusApproved, approved.Status)
	assert.NotNil(t, approved.UserInfoID)

	// The provisioned account can sign in with the default credentials
	res, err := f.users.Login(ctx, LoginRequest{
		Username: "sales@viettelnet.example",
		Password: DefaultSupplierPassword,
	})
	assert.NoError(t, err)
	assert.True(t, res.User.IsSupplier)
	assert.Equal(t, []string{SupplierRole}, res.User.Roles)

	assert.Equal(t, int64(1), f.auditCount(t, "supplier_approval"))
}

func TestSupplierApprove_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	_, err := f.suppliers.Approve(ctx, audit.SystemActor, supplier.ID)
	assert.NoError(t, err)

	_, err = f.suppliers.Approve(ctx, audit.SystemActor, supplier.ID)
	assert.EqualError(t, err, "supplier already approved")

	// The failed attempt still leaves an audit row
	var failed int64
	assert.NoError(t, f.db.Model(&model.AuditTrail{}).
		Where("operation_name = ? AND success = ?", "supplier_approval", false).
		Count(&failed).Error)
	assert.Equal(t, int64(1), failed)
}

func TestSupplierApprove_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.suppliers.Approve(context.Background(), audit.SystemActor, 999)
	assert.EqualError(t, err, "supplier not found")
}

func TestSupplierReject_RemovesPendingApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	assert.NoError(t, f.suppliers.Reject(ctx, audit.SystemActor, supplier.ID))

	_, err := f.suppliers.GetSupplier(ctx, supplier.ID)
	assert.EqualError(t, err, "supplier not found")
	assert.Equal(t, int64(1), f.auditCount(t, "supplier_rejection"))
}

func TestSupplierReject_ApprovedIsRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	_, err := f.suppliers.Approve(ctx, audit.SystemActor, supplier.ID)
	assert.NoError(t, err)

	err = f.suppliers.Reject(ctx, audit.SystemActor, supplier.ID)
	assert.EqualError(t, err, "supplier already approved")

	// The supplier and its account survive a refused rejection
	got, err := f.suppliers.GetSupplier(ctx, supplier.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.SupplierStatusApproved, got.Status)
}

func TestSupplierRevoke_TearsDownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	approved, err := f.suppliers.Approve(ctx, audit.SystemActor, supplier.ID)
	assert.NoError(t, err)
	infoID := *approved.UserInfoID

	assert.NoError(t, f.suppliers.Revoke(ctx, audit.SystemActor, supplier.ID))

	var suppliers, infos, users, joins int64
	assert.NoError(t, f.db.Model(&model.Supplier{}).Where("id = ?", supplier.ID).Count(&suppliers).Error)
	assert.NoError(t, f.db.Model(&model.UserInfo{}).Where("id = ?", infoID).Count(&infos).Error)
	assert.NoError(t, f.db.Model(&model.User{}).Where("username = ?", "sales@viettelnet.example").Count(&users).Error)
	assert.NoError(t, f.db.Model(&model.UserRole{}).Where("user_info_id = ?", infoID).Count(&joins).Error)
	assert.Zero(t, suppliers)
	assert.Zero(t, infos)
	assert.Zero(t, users)
	assert.Zero(t, joins)

	assert.Equal(t, int64(1), f.auditCount(t, "supplier_revocation"))
}

func TestSupplierRevoke_PendingIsRefused(t *testing.T) {
	f := newFixture(t)
	supplier := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")

	err := f.suppliers.Revoke(context.Background(), audit.SystemActor, supplier.ID)
	assert.EqualError(t, err, "supplier is not approved")
}

func TestSupplierList_FilterByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.registerSupplier(t, "ViettelNet", "sales@viettelnet.example")
	f.registerSupplier(t, "MobiComm", "contact@mobicomm.example")

	_, err := f.suppliers.Approve(ctx, audit.SystemActor, a.ID)
	assert.NoError(t, err)

	pending, total, err := f.suppliers.ListSuppliers(ctx, testPageParams(), model.SupplierStatusPending)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pending, 1)
	assert.Equal(t, "MobiComm", pending[0].CompanyName)

	all, total, err := f.suppliers.ListSuppliers(ctx, testPageParams(), "")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}
