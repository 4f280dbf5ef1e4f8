package service

import (
	"context"
	"testing"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/model"

	"github.com/stretchr/testify/assert"
)

func registerReq() RegisterRequest {
	return RegisterRequest{
		Username:        "alice",
		Password:        "Aa1!aaaa",
		ConfirmPassword: "Aa1!aaaa",
		Email:           "alice@corp.example",
		AllowlistID:     "1001",
	}
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(context.Background(), registerReq())
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@corp.example", user.Email)
	assert.Equal(t, []string{"employee"}, user.Roles)
	assert.False(t, user.IsAdmin)

	assert.Equal(t, int64(1), f.auditCount(t, "create_userinfo"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, registerReq())
	assert.NoError(t, err)

	req := registerReq()
	req.Email = "alice2@corp.example"
	_, err = f.users.Register(ctx, req)
	assert.EqualError(t, err, "username already taken")
}

func TestRegister_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr string
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "ab" },
			"username must be between 3 and 32 characters"},
		{"bad username chars", func(r *RegisterRequest) { r.Username = "al ice" },
			"username may only contain letters, digits, underscores and hyphens"},
		{"short password", func(r *RegisterRequest) { r.Password = "Aa1!" },
			"password must be at least 8 characters"},
		{"no uppercase", func(r *RegisterRequest) { r.Password = "aa1!aaaa" },
			"password must contain an uppercase letter"},
		{"no lowercase", func(r *RegisterRequest) { r.Password = "AA1!AAAA" },
			"password must contain a lowercase letter"},
		{"no digit", func(r *RegisterRequest) { r.Password = "Aaa!aaaa" },
			"password must contain a digit"},
		{"no special", func(r *RegisterRequest) { r.Password = "Aa1aaaaa" },
			"password must contain a special character"},
		{"mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "Bb2!bbbb" },
			"passwords do not match"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" },
			"invalid email format"},
		{"not allowlisted", func(r *RegisterRequest) { r.AllowlistID = "9999" },
			"invalid ID or email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := registerReq()
			tc.mutate(&req)
			_, err := f.users.Register(ctx, req)
			assert.EqualError(t, err, tc.wantErr)
		})
	}

	// Password is checked before confirmation: both wrong reports password
	req := registerReq()
	req.Password = "short"
	req.ConfirmPassword = "different"
	_, err := f.users.Register(ctx, req)
	assert.EqualError(t, err, "password must be at least 8 characters")
}

func TestValidateEmail_TLDLength(t *testing.T) {
	// TLDs longer than four letters are valid (.example, .online)
	assert.NoError(t, validateEmail("bob@corp.example"))
	assert.NoError(t, validateEmail("shop@store.online"))
	assert.NoError(t, validateEmail("Bao.Tran@Example.COM"))

	assert.Error(t, validateEmail("bob@corp"))
	assert.Error(t, validateEmail("bob@corp.x"))
}

func TestRegister_AllowlistEmailMismatch(t *testing.T) {
	f := newFixture(t)

	// Valid id but a different email than the allowlist pair
	req := registerReq()
	req.Email = "other@corp.example"
	_, err := f.users.Register(context.Background(), req)
	assert.EqualError(t, err, "invalid ID or email")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", "bob@corp.example")

	res, err := f.users.Login(ctx, LoginRequest{Username: "bob", Password: "Passw0rd!"})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "bob", res.User.Username)
	assert.Equal(t, int64(1), f.auditCount(t, "login"))

	_, err = f.users.Login(ctx, LoginRequest{Username: "bob", Password: "wrong"})
	assert.EqualError(t, err, "invalid username or password")

	_, err = f.users.Login(ctx, LoginRequest{Username: "nobody", Password: "Passw0rd!"})
	assert.EqualError(t, err, "invalid username or password")
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	disabled := false
	_, err := f.users.UpdateUser(ctx, audit.SystemActor, user.ID, UpdateUserRequest{Enabled: &disabled})
	assert.NoError(t, err)

	_, err = f.users.Login(ctx, LoginRequest{Username: "bob", Password: "Passw0rd!"})
	assert.EqualError(t, err, "account is disabled")
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", "bob@corp.example")
	carol := f.createUser(t, "carol", "carol@corp.example")

	_, err := f.users.UpdateUser(ctx, audit.SystemActor, carol.ID, UpdateUserRequest{Email: "bob@corp.example"})
	assert.EqualError(t, err, "email already registered")

	updated, err := f.users.UpdateUser(ctx, audit.SystemActor, carol.ID, UpdateUserRequest{Email: "carol2@corp.example"})
	assert.NoError(t, err)
	assert.Equal(t, "carol2@corp.example", updated.Email)
}

func TestDeleteUser_CascadesAccountRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "bob", "bob@corp.example")

	assert.NoError(t, f.users.DeleteUser(ctx, audit.SystemActor, user.ID))

	var users, infos, joins int64
	assert.NoError(t, f.db.Model(&model.User{}).Where("username = ?", "bob").Count(&users).Error)
	assert.NoError(t, f.db.Model(&model.UserInfo{}).Where("id = ?", user.ID).Count(&infos).Error)
	assert.NoError(t, f.db.Model(&model.UserRole{}).Where("user_info_id = ?", user.ID).Count(&joins).Error)
	assert.Zero(t, users)
	assert.Zero(t, infos)
	assert.Zero(t, joins)
}

func TestDeleteUser_SelfDeletionForbidden(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "bob", "bob@corp.example")

	actor := audit.Actor{UserID: &user.UserID, Username: "bob"}
	err := f.users.DeleteUser(context.Background(), actor, user.ID)
	assert.EqualError(t, err, "cannot delete your own account")
}

func TestEnsureAdminUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.users.EnsureAdminUser(ctx, "admin", "admin@example.com", "Admin123!"))
	// Idempotent on restart
	assert.NoError(t, f.users.EnsureAdminUser(ctx, "admin", "admin@example.com", "Admin123!"))

	res, err := f.users.Login(ctx, LoginRequest{Username: "admin", Password: "Admin123!"})
	assert.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
	assert.Equal(t, []string{"admin"}, res.User.Roles)
	assert.Contains(t, res.User.Permissions, "manage_roles")
}
